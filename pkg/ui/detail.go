package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"scoretree/pkg/model"
)

// Detail renders the selected node's attribute bag and role summary in
// a scrollable panel.
type Detail struct {
	theme      Theme
	vp         viewport.Model
	mdRenderer *glamour.TermRenderer
	node       *model.Node
}

// NewDetail creates the detail panel.
func NewDetail(theme Theme) *Detail {
	var mdRenderer *glamour.TermRenderer
	mdRenderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(60),
	)
	return &Detail{
		theme:      theme,
		vp:         viewport.New(40, 20),
		mdRenderer: mdRenderer,
	}
}

// SetSize updates the panel dimensions.
func (d *Detail) SetSize(width, height int) {
	d.vp.Width = width
	d.vp.Height = height
	d.refresh()
}

// Show points the panel at a node and rebuilds its content.
func (d *Detail) Show(node *model.Node) {
	d.node = node
	d.refresh()
	d.vp.GotoTop()
}

// Update forwards scroll keys to the viewport.
func (d *Detail) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.vp, cmd = d.vp.Update(msg)
	return cmd
}

// View renders the panel.
func (d *Detail) View() string {
	return d.vp.View()
}

func (d *Detail) refresh() {
	if d.node == nil {
		d.vp.SetContent("")
		return
	}
	content := d.buildMarkdown(d.node)
	if d.mdRenderer != nil {
		if md, err := d.mdRenderer.Render(content); err == nil {
			content = md
		}
	}
	d.vp.SetContent(content)
}

func (d *Detail) buildMarkdown(n *model.Node) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", n.Name()))
	sb.WriteString(fmt.Sprintf("**Role**: %s\n\n", n.Role()))
	if w := n.Weighting(); w != "" {
		sb.WriteString(fmt.Sprintf("**Weight**: %s\n\n", w))
	}
	if s := n.Status(); s != "" {
		label := "pending"
		if s == model.StatusDone {
			label = "done"
		}
		sb.WriteString(fmt.Sprintf("**Status**: %s\n\n", label))
	}
	if n.ChildCount() > 0 {
		sb.WriteString(fmt.Sprintf("**Children**: %d\n\n", n.ChildCount()))
	}

	attrs := n.Attrs()
	if len(attrs) == 0 {
		return sb.String()
	}

	sb.WriteString("## Attributes\n\n")
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("- **%s**: %v\n", k, attrs[k]))
	}
	return sb.String()
}
