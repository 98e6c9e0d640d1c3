package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"scoretree/pkg/config"
	"scoretree/pkg/journal"
	"scoretree/pkg/loader"
	"scoretree/pkg/model"
)

// ModelChangedMsg signals that the model file changed on disk and the
// tree should be reloaded. Sent by the watcher through Program.Send.
type ModelChangedMsg struct{}

// focus identifies which component owns key input.
type focus int

const (
	focusTree focus = iota
	focusEditor
	focusSearch
	focusDetail
	focusConfirm
	focusHelp
)

// App is the top-level bubbletea model.
type App struct {
	theme   Theme
	cfg     config.Config
	tree    *model.Tree
	session *model.EditSession

	treeView *TreeView
	editor   *Editor
	search   *Search
	detail   *Detail

	journal *journal.DB
	path    string

	focus      focus
	confirming *model.Node
	statusMsg  string
	dirty      bool
	width      int
	height     int
}

// NewApp assembles the interface around a loaded tree. The journal may
// be nil when disabled.
func NewApp(tree *model.Tree, path string, cfg config.Config, jdb *journal.DB, theme Theme) *App {
	session := model.NewEditSession(tree)
	return &App{
		theme:    theme,
		cfg:      cfg,
		tree:     tree,
		session:  session,
		treeView: NewTreeView(tree, theme),
		editor:   NewEditor(session, theme),
		search:   NewSearch(theme),
		detail:   NewDetail(theme),
		journal:  jdb,
		path:     path,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.treeView.SetSize(msg.Width, msg.Height-3)
		a.detail.SetSize(msg.Width, msg.Height-3)
		return a, nil

	case ModelChangedMsg:
		a.reload()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.focus == focusDetail {
		return a, a.detail.Update(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.focus {
	case focusEditor:
		return a.handleEditorKey(msg)
	case focusSearch:
		return a.handleSearchKey(msg)
	case focusConfirm:
		return a.handleConfirmKey(msg)
	case focusHelp:
		a.focus = focusTree
		return a, nil
	case focusDetail:
		switch msg.String() {
		case "esc", "q", "enter":
			a.focus = focusTree
			return a, nil
		}
		return a, a.detail.Update(msg)
	}
	return a.handleTreeKey(msg)
}

func (a *App) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	node, column := a.session.Location()
	before := ""
	if node != nil {
		if v, ok := node.Get(column).(string); ok {
			before = v
		}
	}

	result, cmd := a.editor.Update(msg)
	switch result {
	case EditCommitted:
		a.focus = focusTree
		a.markDirty()
		a.record(journal.OpEdit, nodePath(node), column, before, cellString(node, column))
		a.treeView.Rebuild()
		return a, a.maybeAutosave(cmd)
	case EditCancelled:
		a.focus = focusTree
	}
	return a, cmd
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	chosen, cmd := a.search.Update(msg)
	if !a.search.Active() {
		a.focus = focusTree
	}
	if chosen != nil {
		a.treeView.SelectNode(chosen)
	}
	return a, cmd
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		node := a.confirming
		a.confirming = nil
		a.focus = focusTree
		// Resolve the path before removal detaches the node.
		path := nodePath(node)
		if node != nil && a.tree.RemoveItem(node) {
			a.markDirty()
			a.record(journal.OpRemove, path, model.ColumnName, node.Name(), "")
			a.treeView.Rebuild()
			a.statusMsg = fmt.Sprintf("removed %s", node.Name())
			return a, a.maybeAutosave(nil)
		}
	default:
		a.confirming = nil
		a.focus = focusTree
	}
	return a, nil
}

func (a *App) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.statusMsg = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "j", "down":
		a.treeView.MoveDown()
	case "k", "up":
		a.treeView.MoveUp()
	case "g", "home":
		a.treeView.JumpToTop()
	case "G", "end":
		a.treeView.JumpToBottom()
	case "h", "left":
		a.treeView.JumpToParent()
	case "l", "right", "tab":
		a.treeView.ToggleExpand()
	case "E":
		a.treeView.ExpandAll()
	case "C":
		a.treeView.CollapseAll()

	case "enter":
		if sel := a.treeView.Selected(); sel != nil {
			a.detail.Show(sel)
			a.focus = focusDetail
		}

	case "e":
		a.beginEdit(model.ColumnName)
	case "w":
		a.beginEdit(model.ColumnWeight)

	case "a":
		a.addChild()
	case "D":
		if sel := a.treeView.Selected(); sel != nil {
			a.confirming = sel
			a.focus = focusConfirm
		}

	case "=":
		if sel := a.treeView.Selected(); sel != nil {
			a.tree.AutoAssignEven(sel)
			a.markDirty()
			a.record(journal.OpAutoAssign, nodePath(sel), model.ColumnWeight, "", "")
			a.treeView.Rebuild()
			return a, a.maybeAutosave(nil)
		}
	case "0":
		if sel := a.treeView.Selected(); sel != nil {
			a.tree.ClearChildWeightings(sel)
			a.markDirty()
			a.record(journal.OpClear, nodePath(sel), model.ColumnWeight, "", "0.00")
			a.treeView.Rebuild()
			return a, a.maybeAutosave(nil)
		}

	case "/":
		a.search.Open(a.tree)
		a.focus = focusSearch

	case "y":
		a.yankSelected()

	case "s":
		a.save()

	case "?":
		a.focus = focusHelp
	}

	return a, nil
}

func (a *App) beginEdit(column int) {
	sel := a.treeView.Selected()
	if sel == nil {
		return
	}
	if err := a.editor.Begin(sel, column); err != nil {
		a.statusMsg = err.Error()
		return
	}
	a.focus = focusEditor
}

// addChild appends a node one level under the selection: a factor
// under a dimension, an indicator under a factor. With no selection a
// new dimension is added.
func (a *App) addChild() {
	sel := a.treeView.Selected()
	var added *model.Node
	switch {
	case sel == nil:
		added = a.tree.AddDimension("")
	case sel.IsDimension():
		added = a.tree.AddFactor(sel)
	case sel.IsFactor():
		added = a.tree.AddLayer(sel)
	default:
		a.statusMsg = "indicators cannot have children"
		return
	}
	if added == nil {
		return
	}
	a.markDirty()
	a.record(journal.OpAdd, nodePath(added), model.ColumnName, "", added.Name())
	a.treeView.SelectNode(added)
}

func (a *App) yankSelected() {
	sel := a.treeView.Selected()
	if sel == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(sel.Name())
	if w := sel.Weighting(); w != "" {
		sb.WriteString(" " + w)
	}
	for k, v := range sel.Attrs() {
		sb.WriteString(fmt.Sprintf("\n%s: %v", k, v))
	}
	if err := clipboard.WriteAll(sb.String()); err != nil {
		a.statusMsg = "clipboard unavailable"
		return
	}
	a.statusMsg = fmt.Sprintf("yanked %s", sel.Name())
}

func (a *App) save() {
	if err := loader.Save(a.tree, a.path); err != nil {
		a.statusMsg = err.Error()
		return
	}
	a.dirty = false
	a.statusMsg = "saved"
}

func (a *App) maybeAutosave(cmd tea.Cmd) tea.Cmd {
	if a.cfg.Autosave {
		a.save()
	}
	return cmd
}

func (a *App) markDirty() {
	a.dirty = true
}

// reload re-reads the model file after an external change. Any active
// edit is abandoned first so the session never points into the old
// tree.
func (a *App) reload() {
	a.editor.Abort()
	a.search.Close()
	a.confirming = nil
	a.focus = focusTree

	doc, err := loader.LoadDocument(a.path)
	if err != nil {
		log.Printf("warning: reload failed: %v", err)
		a.statusMsg = "reload failed, keeping current tree"
		return
	}
	a.tree.Load(doc)
	a.dirty = false
	a.treeView.Rebuild()
	a.record(journal.OpReload, "", 0, "", "")
	a.statusMsg = "reloaded from disk"
}

// record appends a journal entry. The path is precomputed by the
// caller because removals detach the node before recording, at which
// point its location can no longer be derived.
func (a *App) record(op string, path string, column int, oldVal, newVal string) {
	if a.journal == nil {
		return
	}
	e := &journal.Entry{
		Op:       op,
		NodePath: path,
		Column:   column,
		OldValue: oldVal,
		NewValue: newVal,
	}
	if err := a.journal.Record(e); err != nil {
		log.Printf("warning: journal write failed: %v", err)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var body string
	switch a.focus {
	case focusDetail:
		body = a.detail.View()
	case focusHelp:
		body = a.helpView()
	default:
		body = a.treeView.View()
	}

	var sb strings.Builder
	sb.WriteString(body)

	if a.focus == focusSearch {
		sb.WriteString("\n")
		sb.WriteString(a.search.View())
	}
	if a.focus == focusEditor {
		sb.WriteString("\n")
		sb.WriteString(a.editor.View())
	}
	if a.focus == focusConfirm && a.confirming != nil {
		sb.WriteString("\n")
		sb.WriteString(a.theme.Renderer.NewStyle().Foreground(a.theme.Danger).
			Render(fmt.Sprintf("remove %q and its subtree? (y/n)", a.confirming.Name())))
	}

	sb.WriteString("\n")
	sb.WriteString(a.footerView())
	return sb.String()
}

func (a *App) footerView() string {
	marker := ""
	if a.dirty {
		marker = " [+]"
	}
	left := fmt.Sprintf("%s%s", a.path, marker)
	if a.statusMsg != "" {
		left += "  " + a.statusMsg
	}
	return a.theme.Footer.Render(left + "  ? help  q quit")
}

func (a *App) helpView() string {
	lines := []string{
		"j/k       move",
		"h/l       parent / expand",
		"g/G       top / bottom",
		"E/C       expand all / collapse all",
		"enter     details",
		"e         edit name",
		"w         edit weighting",
		"a         add child",
		"D         remove subtree",
		"=         distribute weights evenly",
		"0         clear child weights",
		"/         fuzzy jump",
		"y         yank to clipboard",
		"s         save",
		"q         quit",
	}
	var sb strings.Builder
	sb.WriteString(a.theme.Header.Render("Keys"))
	sb.WriteString("\n\n")
	for _, l := range lines {
		sb.WriteString("  " + l + "\n")
	}
	sb.WriteString("\npress any key to return")
	return sb.String()
}

// nodePath renders a node's position as a slash-joined name chain,
// root excluded.
func nodePath(n *model.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	for cur := n; cur != nil && cur.Parent() != nil; cur = cur.Parent() {
		parts = append([]string{cur.Name()}, parts...)
	}
	return strings.Join(parts, "/")
}

func cellString(n *model.Node, column int) string {
	if n == nil {
		return ""
	}
	if v, ok := n.Get(column).(string); ok {
		return v
	}
	return ""
}
