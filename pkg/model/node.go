package model

// Role identifies a node's level in the fixed analysis hierarchy.
// Every non-root node sits exactly one level below its parent:
// root -> dimension -> factor -> layer.
type Role string

const (
	RoleRoot      Role = "root"
	RoleDimension Role = "dimension"
	RoleFactor    Role = "factor"
	RoleLayer     Role = "layer"
)

// IsValid returns true if the role is a recognized value
func (r Role) IsValid() bool {
	switch r {
	case RoleRoot, RoleDimension, RoleFactor, RoleLayer:
		return true
	}
	return false
}

// ChildRole returns the role one level below r, or "" for leaf levels.
func (r Role) ChildRole() Role {
	switch r {
	case RoleRoot:
		return RoleDimension
	case RoleDimension:
		return RoleFactor
	case RoleFactor:
		return RoleLayer
	}
	return ""
}

// Icon is an opaque presentation token for a node's decoration.
// The rendering surface owns the mapping to actual glyphs or images.
type Icon int

const (
	IconNone Icon = iota
	IconDimension
	IconFactor
	IconIndicator
)

// Icon returns the presentation token for the role's decoration
func (r Role) Icon() Icon {
	switch r {
	case RoleDimension:
		return IconDimension
	case RoleFactor:
		return IconFactor
	case RoleLayer:
		return IconIndicator
	}
	return IconNone
}

// FontHint is an opaque presentation token for a node's text treatment
type FontHint int

const (
	FontDefault FontHint = iota
	FontBold             // dimensions
	FontItalic           // factors
)

// FontHint returns the presentation token for the role's text treatment
func (r Role) FontHint() FontHint {
	switch r {
	case RoleDimension:
		return FontBold
	case RoleFactor:
		return FontItalic
	}
	return FontDefault
}

// WeightColor flags the consistency of a node's aggregate weighting display
type WeightColor int

const (
	WeightNeutral WeightColor = iota
	WeightOK                  // children sum confirmed at 1.00
	WeightBad                 // inconsistent or not yet recomputed
)

// Column indices. Columns 0..2 are visible; column 3 holds the
// attribute bag and is never shown directly.
const (
	ColumnName   = 0
	ColumnStatus = 1
	ColumnWeight = 2
	ColumnAttrs  = 3

	// VisibleColumns is the column count reported to rendering surfaces
	VisibleColumns = 3

	cellCount = 4
)

// Status glyphs for the two-state workflow policy.
const (
	StatusDone    = "✔"
	StatusPending = "●"
)

// Node is a single element of the weighting tree. It owns its children
// exclusively; the parent pointer exists for traversal only.
type Node struct {
	role        Role
	cells       []any
	parent      *Node
	children    []*Node
	weightColor WeightColor
}

// NewNode creates a node with the given display cells. Cells beyond the
// provided values default to empty; the attribute slot defaults to nil.
func NewNode(role Role, cells ...any) *Node {
	data := make([]any, cellCount)
	for i := 0; i < cellCount && i < len(cells); i++ {
		data[i] = cells[i]
	}
	for i := len(cells); i < ColumnAttrs; i++ {
		data[i] = ""
	}
	return &Node{role: role, cells: data}
}

// Role returns the node's hierarchy level
func (n *Node) Role() Role { return n.role }

// Get returns the value at the given column, or nil when the column is
// out of range. Navigation code never needs to pre-check bounds.
func (n *Node) Get(column int) any {
	if column < 0 || column >= len(n.cells) {
		return nil
	}
	return n.cells[column]
}

// Set stores a value at the given column. It succeeds for any in-range
// column regardless of the value's type; format validation is the
// caller's responsibility.
func (n *Node) Set(column int, value any) bool {
	if column < 0 || column >= len(n.cells) {
		return false
	}
	n.cells[column] = value
	return true
}

// Name returns the display name (column 0)
func (n *Node) Name() string { return n.cellString(ColumnName) }

// Status returns the status glyph (column 1)
func (n *Node) Status() string { return n.cellString(ColumnStatus) }

// Weighting returns the weighting cell's textual form (column 2)
func (n *Node) Weighting() string { return n.cellString(ColumnWeight) }

// Attrs returns the node's attribute bag, or nil if the hidden slot does
// not hold a mapping.
func (n *Node) Attrs() Attrs {
	if a, ok := n.cells[ColumnAttrs].(Attrs); ok {
		return a
	}
	return nil
}

func (n *Node) cellString(column int) string {
	if s, ok := n.cells[column].(string); ok {
		return s
	}
	return ""
}

// WeightColor returns the cached consistency flag for the weighting display
func (n *Node) WeightColor() WeightColor { return n.weightColor }

// SetWeightColor updates the cached consistency flag
func (n *Node) SetWeightColor(c WeightColor) { n.weightColor = c }

// Parent returns the owning node, or nil for the root
func (n *Node) Parent() *Node { return n.parent }

// ChildCount returns the number of direct children
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the child at the given row, or nil when out of range
func (n *Node) Child(row int) *Node {
	if row < 0 || row >= len(n.children) {
		return nil
	}
	return n.children[row]
}

// Children returns the direct children in order. The returned slice is
// the node's own; callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// Row returns this node's position among its siblings, or 0 if it has
// no parent.
func (n *Node) Row() int {
	if n.parent == nil {
		return 0
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return 0
}

// AppendChild attaches a node as the last child, taking ownership
func (n *Node) AppendChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches the given child. The detached subtree keeps its
// internal structure but is no longer reachable from the tree.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// IsDimension reports whether the node is a top-level scoring category
func (n *Node) IsDimension() bool { return n.role == RoleDimension }

// IsFactor reports whether the node is a mid-level scoring category
func (n *Node) IsFactor() bool { return n.role == RoleFactor }

// IsIndicator reports whether the node is a leaf scoring unit (layer)
func (n *Node) IsIndicator() bool { return n.role == RoleLayer }

// Walk visits the node and all descendants depth-first
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}
