package model

import (
	"log"
	"strings"

	json "github.com/goccy/go-json"
)

// Document field names shared between load and serialize.
const (
	KeyDimensions         = "dimensions"
	KeyFactors            = "factors"
	KeyLayers             = "layers"
	KeyName               = "name"
	KeyLayer              = "Layer"
	KeyResult             = "Result"
	KeyIndicatorResult    = "Indicator Result"
	KeyAnalysisWeighting  = "Analysis Weighting"
	KeyDimensionWeighting = "Dimension Weighting"
	KeyFactorWeighting    = "Factor Weighting"
)

// workflowDoneMarker is the substring that flips a node's status glyph
// to done. External workflows write it into Result fields.
const workflowDoneMarker = "Workflow Completed"

// Tree owns the root node of a weighting model and mediates every load,
// query and mutation on it. All access must stay on one logical owner;
// the tree does no internal locking.
type Tree struct {
	root     *Node
	onChange func()
}

// NewTree returns an empty tree with a synthetic root
func NewTree() *Tree {
	return &Tree{root: newRoot()}
}

func newRoot() *Node {
	return NewNode(RoleRoot, "Analysis", "Status", "Weight")
}

// Root returns the synthetic root node. It is never present in the
// serialized document.
func (t *Tree) Root() *Node { return t.root }

// OnChange registers a callback invoked after every mutation, for
// display refresh. A nil callback disables notification.
func (t *Tree) OnChange(fn func()) { t.onChange = fn }

func (t *Tree) changed() {
	if t.onChange != nil {
		t.onChange()
	}
}

// Load fully rebuilds the tree from a decoded JSON document. Any
// in-progress edit session is implicitly invalidated: the nodes it
// pointed at are no longer part of the tree.
//
// Dimension display names are title-cased. Status glyphs are derived
// from the workflow result fields. Aggregate weighting cells for
// dimensions and factors start flagged inconsistent; only the explicit
// bulk operations produce a confirmed state.
func (t *Tree) Load(doc map[string]any) {
	root := newRoot()

	dims, _ := doc[KeyDimensions].([]any)
	for _, d := range dims {
		dim, ok := d.(map[string]any)
		if !ok {
			continue
		}
		bag := attrsFrom(dim, KeyFactors)
		dimNode := NewNode(RoleDimension,
			titleCase(bag.String(KeyName)),
			statusFor(bag.String(KeyResult)),
			"",
			bag,
		)
		dimNode.SetWeightColor(WeightBad)
		root.AppendChild(dimNode)

		factors, _ := dim[KeyFactors].([]any)
		for _, f := range factors {
			factor, ok := f.(map[string]any)
			if !ok {
				continue
			}
			fbag := attrsFrom(factor, KeyLayers)
			factorNode := NewNode(RoleFactor,
				fbag.String(KeyName),
				statusFor(fbag.String(KeyResult)),
				"",
				fbag,
			)
			dimNode.AppendChild(factorNode)

			layers, _ := factor[KeyLayers].([]any)
			for _, l := range layers {
				layer, ok := l.(map[string]any)
				if !ok {
					continue
				}
				lbag := attrsFrom(layer)
				layerNode := NewNode(RoleLayer,
					lbag.String(KeyLayer),
					statusFor(lbag.String(KeyIndicatorResult)),
					normalizeWeighting(layer[KeyFactorWeighting]),
					lbag,
				)
				factorNode.AppendChild(layerNode)
			}

			// The aggregate is not summed at load; it reads 0.00 and
			// stays flagged until auto-assign or clear recomputes it.
			factorNode.Set(ColumnWeight, FormatWeighting(0))
			factorNode.SetWeightColor(WeightBad)
		}
	}

	t.root = root
	t.changed()
}

// LoadBytes decodes a JSON document and loads it
func (t *Tree) LoadBytes(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	t.Load(doc)
	return nil
}

// Document walks the tree depth-first and reconstructs the nested JSON
// document shape.
func (t *Tree) Document() map[string]any {
	dims := make([]any, 0, t.root.ChildCount())
	for _, dim := range t.root.Children() {
		dims = append(dims, serializeNode(dim))
	}
	return map[string]any{KeyDimensions: dims}
}

// Bytes serializes the tree as indented JSON
func (t *Tree) Bytes() ([]byte, error) {
	return json.MarshalIndent(t.Document(), "", "  ")
}

func serializeNode(n *Node) map[string]any {
	switch n.Role() {
	case RoleDimension:
		children := make([]any, 0, n.ChildCount())
		for _, c := range n.Children() {
			children = append(children, serializeNode(c))
		}
		return mergeBag(n, map[string]any{
			KeyName:              strings.ToLower(n.Name()),
			KeyFactors:           children,
			KeyAnalysisWeighting: n.Weighting(),
		}, KeyName, KeyFactors, KeyAnalysisWeighting)
	case RoleFactor:
		children := make([]any, 0, n.ChildCount())
		for _, c := range n.Children() {
			children = append(children, serializeNode(c))
		}
		return mergeBag(n, map[string]any{
			KeyName:               n.Name(),
			KeyLayers:             children,
			KeyDimensionWeighting: n.Weighting(),
		}, KeyName, KeyLayers, KeyDimensionWeighting)
	default:
		out := map[string]any{}
		if bag := n.Attrs(); bag != nil {
			for k, v := range bag {
				out[k] = v
			}
		}
		out[KeyFactorWeighting] = n.Weighting()
		return out
	}
}

// mergeBag folds the node's attribute bag into the structurally derived
// object. Bag values win for every key except the live ones, which come
// from tree state. A non-mapping bag degrades to the structural object
// alone; that is logged but never fatal.
func mergeBag(n *Node, out map[string]any, live ...string) map[string]any {
	raw := n.Get(ColumnAttrs)
	bag := attrsFrom(raw)
	if bag == nil {
		if raw != nil {
			log.Printf("warning: %s %q has a non-mapping attribute bag; serialized without merge", n.Role(), n.Name())
		}
		return out
	}
	for k, v := range bag {
		if !contains(live, k) {
			out[k] = v
		}
	}
	return out
}

func contains(keys []string, k string) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}

// statusFor derives the two-state status glyph from a workflow result
// string.
func statusFor(result string) string {
	if strings.Contains(result, workflowDoneMarker) {
		return StatusDone
	}
	return StatusPending
}

// titleCase capitalizes each space-separated word.
// Example: "place characterization" -> "Place Characterization"
func titleCase(s string) string {
	parts := strings.Split(s, " ")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// RowCount returns the number of children under parent; a nil parent
// means the root.
func (t *Tree) RowCount(parent *Node) int {
	if parent == nil {
		parent = t.root
	}
	return parent.ChildCount()
}

// ColumnCount returns the fixed number of visible columns
func (t *Tree) ColumnCount() int { return VisibleColumns }

// NodeAt returns the child of parent at the given row, or nil when the
// row is out of range. A nil parent means the root.
func (t *Tree) NodeAt(parent *Node, row int) *Node {
	if parent == nil {
		parent = t.root
	}
	return parent.Child(row)
}

// ParentOf returns the parent of node for navigation purposes; children
// of the root report no parent, matching the adapter contract.
func (t *Tree) ParentOf(node *Node) *Node {
	if node == nil {
		return nil
	}
	p := node.Parent()
	if p == t.root {
		return nil
	}
	return p
}

// HeaderData returns the root's display value for a column
func (t *Tree) HeaderData(column int) string {
	if s, ok := t.root.Get(column).(string); ok {
		return s
	}
	return ""
}

// AddDimension appends a new dimension with placeholder defaults and
// returns it.
func (t *Tree) AddDimension(name string) *Node {
	if name == "" {
		name = "New Dimension"
	}
	dim := NewNode(RoleDimension, name, StatusPending, "")
	dim.Set(ColumnAttrs, Attrs{})
	dim.SetWeightColor(WeightBad)
	t.root.AppendChild(dim)
	t.changed()
	return dim
}

// AddFactor appends a new factor with placeholder defaults under the
// given dimension. Returns nil if the parent is not a dimension.
func (t *Tree) AddFactor(dimension *Node) *Node {
	if dimension == nil || !dimension.IsDimension() {
		return nil
	}
	factor := NewNode(RoleFactor, "New Factor", StatusPending, "")
	factor.Set(ColumnAttrs, Attrs{})
	factor.SetWeightColor(WeightBad)
	dimension.AppendChild(factor)
	t.changed()
	return factor
}

// AddLayer appends a new indicator layer with placeholder defaults
// under the given factor. Returns nil if the parent is not a factor.
func (t *Tree) AddLayer(factor *Node) *Node {
	if factor == nil || !factor.IsFactor() {
		return nil
	}
	layer := NewNode(RoleLayer, "New Layer", StatusPending, FormatWeighting(1))
	layer.Set(ColumnAttrs, Attrs{})
	factor.AppendChild(layer)
	t.changed()
	return layer
}

// RemoveItem detaches node from its parent. The whole subtree becomes
// unreachable and is discarded as a unit; ownership is a pure tree, so
// no further cleanup is needed. The root cannot be removed.
func (t *Tree) RemoveItem(node *Node) bool {
	if node == nil || node.Parent() == nil {
		return false
	}
	ok := node.Parent().RemoveChild(node)
	if ok {
		t.changed()
	}
	return ok
}

// SetCellValue writes a raw edit into a node's column. Weighting edits
// are validated and stored in canonical two-decimal form; a non-numeric
// value returns ErrNotANumber and leaves the cell unchanged. Other
// columns are stored as given.
func (t *Tree) SetCellValue(node *Node, column int, raw string) error {
	if node == nil {
		return nil
	}
	if column == ColumnWeight {
		v, err := ParseWeighting(raw)
		if err != nil {
			return err
		}
		node.Set(ColumnWeight, FormatWeighting(v))
		t.changed()
		return nil
	}
	node.Set(column, raw)
	t.changed()
	return nil
}

// FindByName returns the first node (depth-first) whose display name
// matches, or nil.
func (t *Tree) FindByName(name string) *Node {
	var found *Node
	t.root.Walk(func(n *Node) {
		if found == nil && n != t.root && n.Name() == name {
			found = n
		}
	})
	return found
}
