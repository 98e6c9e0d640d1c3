package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"scoretree/pkg/model"
)

// Search is the fuzzy jump overlay. Typing filters node names across
// the whole tree; enter jumps to the selected match.
type Search struct {
	theme Theme
	input textinput.Model

	nodes   []*model.Node
	names   []string
	matches fuzzy.Matches
	cursor  int
	active  bool
}

// NewSearch creates an inactive search overlay.
func NewSearch(theme Theme) *Search {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 80
	ti.Width = 40
	return &Search{theme: theme, input: ti}
}

// Active reports whether the overlay has focus.
func (s *Search) Active() bool { return s.active }

// Open indexes the tree and focuses the input.
func (s *Search) Open(tree *model.Tree) {
	s.nodes = s.nodes[:0]
	s.names = s.names[:0]
	tree.Root().Walk(func(n *model.Node) {
		if n.Parent() == nil {
			return
		}
		s.nodes = append(s.nodes, n)
		s.names = append(s.names, n.Name())
	})
	s.matches = nil
	s.cursor = 0
	s.active = true
	s.input.SetValue("")
	s.input.Focus()
}

// Close leaves search mode without jumping.
func (s *Search) Close() {
	s.active = false
	s.input.Blur()
}

// Update handles a message while searching. Returns the chosen node on
// enter, nil otherwise.
func (s *Search) Update(msg tea.Msg) (*model.Node, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			s.Close()
			return nil, nil
		case "enter":
			chosen := s.selected()
			s.Close()
			return chosen, nil
		case "down", "ctrl+n":
			if s.cursor < len(s.matches)-1 {
				s.cursor++
			}
			return nil, nil
		case "up", "ctrl+p":
			if s.cursor > 0 {
				s.cursor--
			}
			return nil, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.matches = fuzzy.Find(s.input.Value(), s.names)
	s.cursor = 0
	return nil, cmd
}

func (s *Search) selected() *model.Node {
	if s.cursor < 0 || s.cursor >= len(s.matches) {
		return nil
	}
	return s.nodes[s.matches[s.cursor].Index]
}

// View renders the input plus the top matches.
func (s *Search) View() string {
	if !s.active {
		return ""
	}

	r := s.theme.Renderer
	var sb strings.Builder
	sb.WriteString(s.input.View())
	sb.WriteString("\n")

	shown := s.matches
	if len(shown) > 8 {
		shown = shown[:8]
	}
	if len(shown) == 0 && s.input.Value() != "" {
		sb.WriteString(r.NewStyle().Foreground(s.theme.Muted).Render("  no matches"))
		return sb.String()
	}

	for i, m := range shown {
		node := s.nodes[m.Index]
		line := fmt.Sprintf("  %s (%s)", node.Name(), node.Role())
		if i == s.cursor {
			line = s.theme.Selected.Render(line)
		} else {
			line = r.NewStyle().Foreground(s.theme.Text).Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
