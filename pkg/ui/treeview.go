package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"scoretree/pkg/model"
)

// row pairs a tree node with its rendered depth in the flat list.
type row struct {
	node  *model.Node
	depth int
}

// TreeView renders the scoring tree with cursor navigation and
// per-node expand/collapse state.
type TreeView struct {
	theme Theme
	tree  *model.Tree

	flat     []row
	cursor   int
	offset   int
	expanded map[*model.Node]bool

	width  int
	height int
}

// NewTreeView creates a view over a tree with the first two levels
// expanded.
func NewTreeView(tree *model.Tree, theme Theme) *TreeView {
	v := &TreeView{
		theme:    theme,
		tree:     tree,
		expanded: make(map[*model.Node]bool),
	}
	v.Rebuild()
	return v
}

// SetSize updates the available dimensions for the view.
func (v *TreeView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clampScroll()
}

// SetTree swaps the underlying tree, as after a live reload. The
// cursor is clamped; expand state for surviving pointers is kept, new
// nodes get the default.
func (v *TreeView) SetTree(tree *model.Tree) {
	v.tree = tree
	v.Rebuild()
}

// Rebuild recomputes the flat navigation list from the tree.
func (v *TreeView) Rebuild() {
	v.pruneExpanded()
	v.flat = v.flat[:0]
	for _, dim := range v.tree.Root().Children() {
		v.appendVisible(dim, 0)
	}
	if v.cursor >= len(v.flat) {
		v.cursor = len(v.flat) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.clampScroll()
}

// pruneExpanded drops expand state for nodes no longer reachable from
// the root. Reloads and removals replace or detach nodes wholesale;
// without pruning the map would keep their pointers alive forever.
func (v *TreeView) pruneExpanded() {
	if len(v.expanded) == 0 {
		return
	}
	reachable := make(map[*model.Node]struct{}, len(v.expanded))
	v.tree.Root().Walk(func(n *model.Node) {
		reachable[n] = struct{}{}
	})
	for n := range v.expanded {
		if _, ok := reachable[n]; !ok {
			delete(v.expanded, n)
		}
	}
}

func (v *TreeView) appendVisible(n *model.Node, depth int) {
	v.flat = append(v.flat, row{node: n, depth: depth})
	if !v.isExpanded(n, depth) {
		return
	}
	for _, child := range n.Children() {
		v.appendVisible(child, depth+1)
	}
}

// isExpanded resolves a node's expand state. Default: expanded for
// depth < 2, collapsed otherwise.
func (v *TreeView) isExpanded(n *model.Node, depth int) bool {
	if state, ok := v.expanded[n]; ok {
		return state
	}
	return depth < 2
}

// Selected returns the node under the cursor, nil when the tree is
// empty.
func (v *TreeView) Selected() *model.Node {
	if v.cursor < 0 || v.cursor >= len(v.flat) {
		return nil
	}
	return v.flat[v.cursor].node
}

// MoveDown advances the cursor one visible row.
func (v *TreeView) MoveDown() {
	if v.cursor < len(v.flat)-1 {
		v.cursor++
		v.clampScroll()
	}
}

// MoveUp retreats the cursor one visible row.
func (v *TreeView) MoveUp() {
	if v.cursor > 0 {
		v.cursor--
		v.clampScroll()
	}
}

// JumpToTop moves the cursor to the first row.
func (v *TreeView) JumpToTop() {
	v.cursor = 0
	v.clampScroll()
}

// JumpToBottom moves the cursor to the last row.
func (v *TreeView) JumpToBottom() {
	if len(v.flat) > 0 {
		v.cursor = len(v.flat) - 1
	}
	v.clampScroll()
}

// JumpToParent moves the cursor to the selected node's parent row.
func (v *TreeView) JumpToParent() {
	sel := v.Selected()
	if sel == nil || sel.Parent() == nil {
		return
	}
	v.SelectNode(sel.Parent())
}

// SelectNode places the cursor on the given node, expanding ancestors
// as needed so the row is visible. Reports whether the node was found.
func (v *TreeView) SelectNode(target *model.Node) bool {
	if target == nil {
		return false
	}
	for p := target.Parent(); p != nil; p = p.Parent() {
		v.expanded[p] = true
	}
	v.Rebuild()
	for i, r := range v.flat {
		if r.node == target {
			v.cursor = i
			v.clampScroll()
			return true
		}
	}
	return false
}

// ToggleExpand flips the expand state of the selected node.
func (v *TreeView) ToggleExpand() {
	if v.cursor < 0 || v.cursor >= len(v.flat) {
		return
	}
	r := v.flat[v.cursor]
	if r.node.ChildCount() == 0 {
		return
	}
	v.expanded[r.node] = !v.isExpanded(r.node, r.depth)
	v.Rebuild()
}

// ExpandAll expands every node with children.
func (v *TreeView) ExpandAll() {
	v.tree.Root().Walk(func(n *model.Node) {
		if n.ChildCount() > 0 {
			v.expanded[n] = true
		}
	})
	v.Rebuild()
}

// CollapseAll collapses everything down to the dimension list.
func (v *TreeView) CollapseAll() {
	v.tree.Root().Walk(func(n *model.Node) {
		if n.ChildCount() > 0 {
			v.expanded[n] = false
		}
	})
	v.Rebuild()
}

// VisibleCount returns the number of rows in the flat list.
func (v *TreeView) VisibleCount() int { return len(v.flat) }

func (v *TreeView) clampScroll() {
	if v.height <= 0 {
		return
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+v.height {
		v.offset = v.cursor - v.height + 1
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// View renders the visible window of the tree.
func (v *TreeView) View() string {
	if len(v.flat) == 0 {
		return v.renderEmptyState()
	}

	start := v.offset
	end := len(v.flat)
	if v.height > 0 && start+v.height < end {
		end = start + v.height
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		line := v.renderRow(v.flat[i])
		if i == v.cursor {
			line = v.theme.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (v *TreeView) renderEmptyState() string {
	r := v.theme.Renderer
	var sb strings.Builder
	sb.WriteString(v.theme.Header.Render("Scoring Tree"))
	sb.WriteString("\n\n")
	muted := r.NewStyle().Foreground(v.theme.Muted)
	sb.WriteString(muted.Render("No dimensions defined."))
	sb.WriteString("\n")
	sb.WriteString(muted.Render("Press a to add a dimension."))
	return sb.String()
}

func (v *TreeView) renderRow(r row) string {
	n := r.node
	theme := v.theme
	var sb strings.Builder

	prefix := v.buildTreePrefix(n, r.depth)
	sb.WriteString(prefix)

	indicator := "·"
	if n.ChildCount() > 0 {
		if v.isExpanded(n, r.depth) {
			indicator = "▾"
		} else {
			indicator = "▸"
		}
	}
	sb.WriteString(theme.Renderer.NewStyle().Foreground(theme.Secondary).Render(indicator))
	sb.WriteString(" ")

	icon := theme.IconGlyph(n.Role().Icon())
	sb.WriteString(theme.Renderer.NewStyle().Foreground(theme.Primary).Render(icon))
	sb.WriteString(" ")

	maxName := v.width - lipgloss.Width(prefix) - 16
	if maxName < 16 {
		maxName = 16
	}
	name := runewidth.Truncate(n.Name(), maxName, "…")
	sb.WriteString(theme.FontStyle(n.Role().FontHint()).Render(name))

	if status := n.Status(); status != "" {
		sb.WriteString(" ")
		sb.WriteString(theme.StatusStyle(status).Render(status))
	}

	if weight := n.Weighting(); weight != "" {
		sb.WriteString(" ")
		sb.WriteString(theme.WeightStyle(n.WeightColor()).Render(fmt.Sprintf("[%s]", weight)))
	}

	return sb.String()
}

// buildTreePrefix builds the indentation and branch characters.
func (v *TreeView) buildTreePrefix(n *model.Node, depth int) string {
	if depth == 0 {
		return ""
	}

	var parts []string
	ancestors := ancestorsOf(n)
	for i := 0; i < len(ancestors)-1; i++ {
		if hasSiblingsBelow(ancestors[i]) {
			parts = append(parts, "│  ")
		} else {
			parts = append(parts, "   ")
		}
	}
	if isLastChild(n) {
		parts = append(parts, "└─ ")
	} else {
		parts = append(parts, "├─ ")
	}

	prefix := strings.Join(parts, "")
	return v.theme.Renderer.NewStyle().Foreground(v.theme.Muted).Render(prefix)
}

// ancestorsOf returns the chain from the topmost dimension down to the
// node itself. The root is excluded; it is never rendered.
func ancestorsOf(n *model.Node) []*model.Node {
	var chain []*model.Node
	for cur := n; cur != nil && cur.Parent() != nil; cur = cur.Parent() {
		chain = append([]*model.Node{cur}, chain...)
	}
	return chain
}

func hasSiblingsBelow(n *model.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	return n.Row() < parent.ChildCount()-1
}

func isLastChild(n *model.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return true
	}
	return n.Row() == parent.ChildCount()-1
}
