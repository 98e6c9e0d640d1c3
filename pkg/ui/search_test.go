package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeSearch(s *Search, text string) {
	for _, r := range text {
		s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestSearchFindsNodeAcrossLevels(t *testing.T) {
	tree := newTestTree(t)
	s := NewSearch(newTestTheme())
	s.Open(tree)

	if !s.Active() {
		t.Fatal("Open should activate search")
	}
	typeSearch(s, "cycle")

	chosen, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if chosen == nil || chosen.Name() != "Cycle Paths" {
		t.Fatalf("chosen = %v, want Cycle Paths", chosen)
	}
	if s.Active() {
		t.Error("enter should close search")
	}
}

func TestSearchEscapeCloses(t *testing.T) {
	s := NewSearch(newTestTheme())
	s.Open(newTestTree(t))
	typeSearch(s, "saf")

	chosen, _ := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if chosen != nil {
		t.Error("escape should not choose a node")
	}
	if s.Active() {
		t.Error("escape should close search")
	}
}

func TestSearchNoMatches(t *testing.T) {
	s := NewSearch(newTestTheme())
	s.Open(newTestTree(t))
	typeSearch(s, "zzzzzz")

	chosen, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if chosen != nil {
		t.Errorf("chosen = %v for impossible query", chosen)
	}
}

func TestSearchViewListsMatches(t *testing.T) {
	s := NewSearch(newTestTheme())
	s.Open(newTestTree(t))
	typeSearch(s, "transport")

	out := s.View()
	if !strings.Contains(out, "Active Transport") {
		t.Errorf("view missing match\n%s", out)
	}
	if !strings.Contains(out, "factor") {
		t.Errorf("view should show the match role\n%s", out)
	}
}

func TestSearchCursorNavigation(t *testing.T) {
	s := NewSearch(newTestTheme())
	s.Open(newTestTree(t))
	// Both factor names contain an "a"; navigate to the second match.
	typeSearch(s, "a")
	if len(s.matches) < 2 {
		t.Fatalf("expected at least 2 matches, got %d", len(s.matches))
	}
	first := s.nodes[s.matches[0].Index]

	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	chosen, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if chosen == nil || chosen == first {
		t.Errorf("down should move selection past the first match")
	}
}
