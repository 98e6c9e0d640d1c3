package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"scoretree/pkg/model"
)

// EditResult reports how an editor interaction ended.
type EditResult int

const (
	EditContinue EditResult = iota
	EditCommitted
	EditCancelled
)

// Editor is the inline cell editor. It owns the edit session so the
// single-focus invariant is enforced in one place.
type Editor struct {
	theme   Theme
	session *model.EditSession
	input   textinput.Model
	errMsg  string
}

// NewEditor creates an editor bound to a tree's edit session.
func NewEditor(session *model.EditSession, theme Theme) *Editor {
	ti := textinput.New()
	ti.CharLimit = 120
	ti.Width = 32
	return &Editor{theme: theme, session: session, input: ti}
}

// Active reports whether an edit is in progress.
func (e *Editor) Active() bool { return e.session.Active() }

// Begin opens the editor on a node's cell. Refused for read-only
// columns and while another edit is active.
func (e *Editor) Begin(node *model.Node, column int) error {
	if err := e.session.Begin(node, column); err != nil {
		return err
	}
	e.errMsg = ""
	if v, ok := node.Get(column).(string); ok {
		e.input.SetValue(v)
	} else {
		e.input.SetValue("")
	}
	e.input.CursorEnd()
	e.input.Focus()
	return nil
}

// Update handles a message while the editor has focus. Enter commits,
// escape reverts. A rejected commit keeps the editor open with the
// error shown.
func (e *Editor) Update(msg tea.Msg) (EditResult, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if err := e.session.Commit(e.input.Value()); err != nil {
				e.errMsg = err.Error()
				return EditContinue, nil
			}
			e.close()
			return EditCommitted, nil
		case "esc":
			e.session.Cancel()
			e.close()
			return EditCancelled, nil
		}
	}

	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return EditContinue, cmd
}

// Value returns the current input text.
func (e *Editor) Value() string { return e.input.Value() }

// Abort reverts and closes any in-progress edit. Used when the model
// is replaced underneath the editor, as on a live reload.
func (e *Editor) Abort() {
	if e.session.Active() {
		e.session.Cancel()
	}
	e.close()
}

func (e *Editor) close() {
	e.errMsg = ""
	e.input.Blur()
	e.input.SetValue("")
}

// View renders the editor line with its target label and any
// validation error.
func (e *Editor) View() string {
	if !e.session.Active() {
		return ""
	}

	node, column := e.session.Location()
	label := "name"
	if column == model.ColumnWeight {
		label = "weight"
	}

	r := e.theme.Renderer
	out := fmt.Sprintf("%s %s %s",
		e.theme.Header.Render("edit"),
		r.NewStyle().Foreground(e.theme.Muted).Render(node.Name()+" "+label+":"),
		e.input.View())
	if e.errMsg != "" {
		out += "\n" + r.NewStyle().Foreground(e.theme.Danger).Render("✗ "+e.errMsg)
	}
	return out
}
