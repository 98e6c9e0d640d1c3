package model

import "errors"

// Edit session errors.
var (
	ErrSessionActive  = errors.New("an edit session is already active")
	ErrNoSession      = errors.New("no active edit session")
	ErrColumnReadOnly = errors.New("column is not editable")
)

// EditSession manages the commit/revert lifecycle of a single in-progress
// cell edit. At most one session is active at a time; the controller
// enforces the single-focus model, not the tree.
//
// States: Idle, Editing. Begin captures the pre-edit value; Cancel
// restores it unconditionally; Commit routes through the tree's cell
// validation and keeps the session open when the edit is refused so the
// user can retry or cancel.
type EditSession struct {
	tree     *Tree
	node     *Node
	column   int
	original any
	active   bool
}

// NewEditSession creates an idle session bound to a tree
func NewEditSession(tree *Tree) *EditSession {
	return &EditSession{tree: tree}
}

// Active reports whether an edit is in progress
func (s *EditSession) Active() bool { return s.active }

// Location returns the node and column under edit, or (nil, 0) when idle
func (s *EditSession) Location() (*Node, int) {
	if !s.active {
		return nil, 0
	}
	return s.node, s.column
}

// OriginalValue returns the value captured when the edit began
func (s *EditSession) OriginalValue() any {
	return s.original
}

// Begin starts editing the given cell. Only the name and weighting
// columns are editable; everything else is read-only regardless of
// session state.
func (s *EditSession) Begin(node *Node, column int) error {
	if s.active {
		return ErrSessionActive
	}
	if node == nil {
		return ErrColumnReadOnly
	}
	if column != ColumnName && column != ColumnWeight {
		return ErrColumnReadOnly
	}
	s.node = node
	s.column = column
	s.original = node.Get(column)
	s.active = true
	return nil
}

// Cancel abandons the edit and writes the original value back,
// whether or not anything actually changed. The restore bypasses
// validation: the captured value was the cell's prior content.
func (s *EditSession) Cancel() {
	if !s.active {
		return
	}
	s.node.Set(s.column, s.original)
	s.tree.changed()
	s.reset()
}

// Commit writes the new value through the tree's validating setter.
// On refusal the session stays active with the original still held.
func (s *EditSession) Commit(raw string) error {
	if !s.active {
		return ErrNoSession
	}
	if err := s.tree.SetCellValue(s.node, s.column, raw); err != nil {
		return err
	}
	s.reset()
	return nil
}

func (s *EditSession) reset() {
	s.node = nil
	s.column = 0
	s.original = nil
	s.active = false
}
