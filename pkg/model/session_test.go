package model

import (
	"errors"
	"testing"
)

func TestEditSessionCancelRestores(t *testing.T) {
	tr := loadFixture(t)
	layer := tr.NodeAt(nil, 0).Child(0).Child(0)
	s := NewEditSession(tr)

	if err := s.Begin(layer, ColumnWeight); err != nil {
		t.Fatal(err)
	}
	// Simulate the surface writing an intermediate value
	layer.Set(ColumnWeight, "0.99")

	s.Cancel()

	if layer.Weighting() != "0.50" {
		t.Errorf("cancel left %q, want the pre-edit 0.50", layer.Weighting())
	}
	if s.Active() {
		t.Error("session should be idle after cancel")
	}
}

func TestEditSessionCancelUnchangedValue(t *testing.T) {
	tr := loadFixture(t)
	layer := tr.NodeAt(nil, 0).Child(0).Child(0)
	s := NewEditSession(tr)

	if err := s.Begin(layer, ColumnName); err != nil {
		t.Fatal(err)
	}
	s.Cancel()

	// Restore happens unconditionally, even with nothing changed
	if layer.Name() != "Hospitals" {
		t.Errorf("name = %q after no-op cancel", layer.Name())
	}
}

func TestEditSessionCommit(t *testing.T) {
	tr := loadFixture(t)
	layer := tr.NodeAt(nil, 0).Child(0).Child(0)
	s := NewEditSession(tr)

	if err := s.Begin(layer, ColumnWeight); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit("0.75"); err != nil {
		t.Fatal(err)
	}
	if layer.Weighting() != "0.75" {
		t.Errorf("weighting = %q, want 0.75", layer.Weighting())
	}
	if s.Active() {
		t.Error("session should be idle after commit")
	}
}

func TestEditSessionCommitRefusedStaysActive(t *testing.T) {
	tr := loadFixture(t)
	layer := tr.NodeAt(nil, 0).Child(0).Child(0)
	s := NewEditSession(tr)

	if err := s.Begin(layer, ColumnWeight); err != nil {
		t.Fatal(err)
	}
	err := s.Commit("abc")
	if !errors.Is(err, ErrNotANumber) {
		t.Fatalf("Commit(abc) err = %v, want ErrNotANumber", err)
	}
	if layer.Weighting() != "0.50" {
		t.Errorf("refused commit changed value to %q", layer.Weighting())
	}
	if !s.Active() {
		t.Fatal("session must stay active so the user can retry or cancel")
	}

	// Retry succeeds and closes the session
	if err := s.Commit("0.6"); err != nil {
		t.Fatal(err)
	}
	if layer.Weighting() != "0.60" || s.Active() {
		t.Errorf("retry: weighting=%q active=%v", layer.Weighting(), s.Active())
	}
}

func TestEditSessionSingleFocus(t *testing.T) {
	tr := loadFixture(t)
	dim := tr.NodeAt(nil, 0)
	s := NewEditSession(tr)

	if err := s.Begin(dim, ColumnName); err != nil {
		t.Fatal(err)
	}
	if err := s.Begin(dim, ColumnWeight); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second Begin err = %v, want ErrSessionActive", err)
	}
	s.Cancel()
	if err := s.Begin(dim, ColumnWeight); err != nil {
		t.Errorf("Begin after cancel failed: %v", err)
	}
}

func TestEditSessionReadOnlyColumns(t *testing.T) {
	tr := loadFixture(t)
	dim := tr.NodeAt(nil, 0)
	s := NewEditSession(tr)

	if err := s.Begin(dim, ColumnStatus); !errors.Is(err, ErrColumnReadOnly) {
		t.Errorf("status column Begin err = %v, want ErrColumnReadOnly", err)
	}
	if err := s.Begin(dim, ColumnAttrs); !errors.Is(err, ErrColumnReadOnly) {
		t.Errorf("attrs column Begin err = %v, want ErrColumnReadOnly", err)
	}
	if err := s.Begin(nil, ColumnName); !errors.Is(err, ErrColumnReadOnly) {
		t.Errorf("nil node Begin err = %v, want ErrColumnReadOnly", err)
	}
	if s.Active() {
		t.Error("refused Begin must leave the session idle")
	}
}

func TestEditSessionCommitWithoutBegin(t *testing.T) {
	tr := loadFixture(t)
	s := NewEditSession(tr)
	if err := s.Commit("0.5"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Commit without Begin err = %v, want ErrNoSession", err)
	}
}
