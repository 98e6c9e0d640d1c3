package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotANumber is returned when a weighting edit cannot be parsed as a
// decimal number. The edit is refused and the prior value retained.
var ErrNotANumber = errors.New("weighting is not a number")

// ParseWeighting parses raw as a decimal weighting value
func ParseWeighting(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", raw, ErrNotANumber)
	}
	return v, nil
}

// FormatWeighting renders a weighting in its canonical stored form:
// fixed two decimal places. Repeated round-trips through
// FormatWeighting(ParseWeighting(...)) are stable.
func FormatWeighting(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// normalizeWeighting coerces an upstream weighting value (number or
// string) into canonical form. Unparseable values become "0.00".
func normalizeWeighting(v any) string {
	switch w := v.(type) {
	case float64:
		return FormatWeighting(w)
	case int:
		return FormatWeighting(float64(w))
	case string:
		if f, err := ParseWeighting(w); err == nil {
			return FormatWeighting(f)
		}
	}
	return FormatWeighting(0)
}

// ClearChildWeightings sets every direct child of parent to "0.00" and
// the parent's own weighting to "0.00", flagging the parent RED.
func (t *Tree) ClearChildWeightings(parent *Node) {
	if parent == nil {
		return
	}
	for _, child := range parent.Children() {
		child.Set(ColumnWeight, FormatWeighting(0))
	}
	// The root's weight cell holds header text, never a value.
	if parent.Role() != RoleRoot {
		parent.Set(ColumnWeight, FormatWeighting(0))
	}
	parent.SetWeightColor(WeightBad)
	t.changed()
}

// AutoAssignEven distributes weightings evenly across parent's children
// and sets the parent to "1.00", flagging it GREEN. Each child value is
// rounded independently, so for counts like 3 the true sum may miss
// 1.00 by a few hundredths; that approximation is accepted. A parent
// with no children is left untouched.
func (t *Tree) AutoAssignEven(parent *Node) {
	if parent == nil || parent.ChildCount() == 0 {
		return
	}
	share := 1.0 / float64(parent.ChildCount())
	for _, child := range parent.Children() {
		child.Set(ColumnWeight, FormatWeighting(share))
	}
	if parent.Role() != RoleRoot {
		parent.Set(ColumnWeight, FormatWeighting(1))
	}
	parent.SetWeightColor(WeightOK)
	t.changed()
}
