package model

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
)

// fixtureDoc builds a small but representative model document:
// one dimension, two factors, the first with two layers.
func fixtureDoc() map[string]any {
	return map[string]any{
		"dimensions": []any{
			map[string]any{
				"name":     "place characterization",
				"id":       "PD",
				"text":     "How places support daily life.",
				"required": true,
				"default_analysis_weighting": 0.5,
				"Result":                "Workflow Completed: success",
				"Dimension Result File": "/out/place.tif",
				"factors": []any{
					map[string]any{
						"name":               "Accessibility",
						"id":                 "FA",
						"text":               "Distance to services.",
						"required":           false,
						"Result":             "Workflow Error",
						"Factor Result File": "/out/access.tif",
						"layers": []any{
							map[string]any{
								"Layer":                 "Hospitals",
								"Factor Weighting":      0.5,
								"Indicator Result":      "Workflow Completed",
								"Indicator Result File": "/out/hospitals.tif",
							},
							map[string]any{
								"Layer":                 "Schools",
								"Factor Weighting":      "0.5",
								"Indicator Result":      "",
								"Indicator Result File": "/out/schools.tif",
							},
						},
					},
					map[string]any{
						"name":   "Safety",
						"id":     "FS",
						"layers": []any{},
					},
				},
			},
		},
	}
}

func loadFixture(t *testing.T) *Tree {
	t.Helper()
	tr := NewTree()
	tr.Load(fixtureDoc())
	return tr
}

func TestLoadBuildsHierarchy(t *testing.T) {
	tr := loadFixture(t)

	if tr.RowCount(nil) != 1 {
		t.Fatalf("RowCount(root) = %d, want 1", tr.RowCount(nil))
	}
	dim := tr.NodeAt(nil, 0)
	if dim == nil || !dim.IsDimension() {
		t.Fatal("first child of root should be a dimension")
	}
	// Dimension display names are title-cased
	if dim.Name() != "Place Characterization" {
		t.Errorf("dimension name = %q, want Place Characterization", dim.Name())
	}
	// "Workflow Completed" substring flips the glyph
	if dim.Status() != StatusDone {
		t.Errorf("dimension status = %q, want %q", dim.Status(), StatusDone)
	}

	factor := dim.Child(0)
	if factor == nil || !factor.IsFactor() {
		t.Fatal("dimension's first child should be a factor")
	}
	if factor.Status() != StatusPending {
		t.Errorf("errored factor status = %q, want %q", factor.Status(), StatusPending)
	}
	if factor.ChildCount() != 2 {
		t.Fatalf("factor has %d layers, want 2", factor.ChildCount())
	}

	layer := factor.Child(0)
	if layer.Name() != "Hospitals" || !layer.IsIndicator() {
		t.Errorf("unexpected first layer %q (%s)", layer.Name(), layer.Role())
	}
	if layer.Status() != StatusDone {
		t.Errorf("completed layer status = %q, want %q", layer.Status(), StatusDone)
	}
	// Numeric and string weightings both normalize to 2-decimal form
	if layer.Weighting() != "0.50" {
		t.Errorf("layer weighting = %q, want 0.50", layer.Weighting())
	}
	if factor.Child(1).Weighting() != "0.50" {
		t.Errorf("string layer weighting = %q, want 0.50", factor.Child(1).Weighting())
	}
}

func TestLoadAggregateAlwaysFlagged(t *testing.T) {
	tr := loadFixture(t)
	dim := tr.NodeAt(nil, 0)
	factor := dim.Child(0)

	// Aggregates are not summed at load: factors read 0.00 and both
	// dimension and factor stay flagged until an explicit recompute.
	if factor.Weighting() != "0.00" {
		t.Errorf("factor weighting after load = %q, want 0.00", factor.Weighting())
	}
	if factor.WeightColor() != WeightBad {
		t.Errorf("factor weight color = %v, want WeightBad", factor.WeightColor())
	}
	if dim.WeightColor() != WeightBad {
		t.Errorf("dimension weight color = %v, want WeightBad", dim.WeightColor())
	}
}

func TestNavigationContract(t *testing.T) {
	tr := loadFixture(t)
	dim := tr.NodeAt(nil, 0)
	factor := dim.Child(0)

	if tr.ColumnCount() != 3 {
		t.Errorf("ColumnCount = %d, want 3", tr.ColumnCount())
	}
	if tr.RowCount(factor) != 2 {
		t.Errorf("RowCount(factor) = %d, want 2", tr.RowCount(factor))
	}
	if tr.NodeAt(factor, 5) != nil {
		t.Error("NodeAt out of range should be nil")
	}
	if tr.ParentOf(dim) != nil {
		t.Error("children of root report no parent")
	}
	if tr.ParentOf(factor) != dim {
		t.Error("ParentOf(factor) should be the dimension")
	}
	if tr.HeaderData(ColumnStatus) != "Status" {
		t.Errorf("HeaderData(1) = %q, want Status", tr.HeaderData(ColumnStatus))
	}
}

func TestSetCellValueWeightingValidation(t *testing.T) {
	tr := loadFixture(t)
	layer := tr.NodeAt(nil, 0).Child(0).Child(0)

	err := tr.SetCellValue(layer, ColumnWeight, "abc")
	if !errors.Is(err, ErrNotANumber) {
		t.Fatalf("SetCellValue(abc) err = %v, want ErrNotANumber", err)
	}
	if layer.Weighting() != "0.50" {
		t.Errorf("refused edit must leave prior value, got %q", layer.Weighting())
	}

	if err := tr.SetCellValue(layer, ColumnWeight, "0.333"); err != nil {
		t.Fatalf("valid edit failed: %v", err)
	}
	if layer.Weighting() != "0.33" {
		t.Errorf("weighting stored as %q, want canonical 0.33", layer.Weighting())
	}

	if err := tr.SetCellValue(layer, ColumnName, "Clinics"); err != nil {
		t.Fatalf("name edit failed: %v", err)
	}
	if layer.Name() != "Clinics" {
		t.Errorf("name = %q, want Clinics", layer.Name())
	}
}

func TestAddOperations(t *testing.T) {
	tr := loadFixture(t)
	dim := tr.NodeAt(nil, 0)
	factor := dim.Child(0)

	newDim := tr.AddDimension("")
	if newDim == nil || newDim.Name() != "New Dimension" || newDim.Status() != StatusPending {
		t.Errorf("AddDimension defaults wrong: %+v", newDim)
	}
	if tr.RowCount(nil) != 2 {
		t.Errorf("root rows = %d, want 2", tr.RowCount(nil))
	}

	newFactor := tr.AddFactor(dim)
	if newFactor == nil || newFactor.Name() != "New Factor" || newFactor.Weighting() != "" {
		t.Errorf("AddFactor defaults wrong: %+v", newFactor)
	}
	if tr.AddFactor(factor) != nil {
		t.Error("AddFactor under a factor should be refused")
	}

	newLayer := tr.AddLayer(factor)
	if newLayer == nil || newLayer.Name() != "New Layer" || newLayer.Weighting() != "1.00" {
		t.Errorf("AddLayer defaults wrong: %+v", newLayer)
	}
	if tr.AddLayer(dim) != nil {
		t.Error("AddLayer under a dimension should be refused")
	}
}

func TestRemoveItemDetachesSubtree(t *testing.T) {
	tr := loadFixture(t)
	dim := tr.NodeAt(nil, 0)
	factor := dim.Child(0)

	if !tr.RemoveItem(factor) {
		t.Fatal("RemoveItem(factor) failed")
	}
	if dim.ChildCount() != 1 {
		t.Fatalf("dimension should have 1 factor left, has %d", dim.ChildCount())
	}

	// Serialization must omit the factor and all its layers
	data, err := tr.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	dims := doc["dimensions"].([]any)
	factors := dims[0].(map[string]any)["factors"].([]any)
	if len(factors) != 1 {
		t.Fatalf("serialized factors = %d, want 1", len(factors))
	}
	if name := factors[0].(map[string]any)["name"]; name != "Safety" {
		t.Errorf("surviving factor = %v, want Safety", name)
	}

	if tr.RemoveItem(tr.Root()) {
		t.Error("the root must not be removable")
	}
}

func TestSerializePreservesAttributeBag(t *testing.T) {
	tr := loadFixture(t)
	doc := tr.Document()

	dims := doc["dimensions"].([]any)
	dim := dims[0].(map[string]any)
	// Live fields come from tree state
	if dim["name"] != "place characterization" {
		t.Errorf("serialized name = %v, want lower-cased live name", dim["name"])
	}
	if dim["Analysis Weighting"] != "" {
		t.Errorf("Analysis Weighting = %v, want empty load-time cell", dim["Analysis Weighting"])
	}
	// Bag fields ride along opaquely
	if dim["id"] != "PD" || dim["required"] != true {
		t.Errorf("bag fields lost: id=%v required=%v", dim["id"], dim["required"])
	}
	if dim["Dimension Result File"] != "/out/place.tif" {
		t.Errorf("result file lost: %v", dim["Dimension Result File"])
	}

	factor := dim["factors"].([]any)[0].(map[string]any)
	if factor["Dimension Weighting"] != "0.00" {
		t.Errorf("factor aggregate = %v, want recomputed 0.00", factor["Dimension Weighting"])
	}
	layer := factor["layers"].([]any)[0].(map[string]any)
	if layer["Factor Weighting"] != "0.50" {
		t.Errorf("layer weighting = %v, want 0.50", layer["Factor Weighting"])
	}
	if layer["Indicator Result File"] != "/out/hospitals.tif" {
		t.Errorf("indicator bag lost: %v", layer["Indicator Result File"])
	}
}

func TestSerializeNonMappingBagDegrades(t *testing.T) {
	tr := loadFixture(t)
	dim := tr.NodeAt(nil, 0)
	dim.Set(ColumnAttrs, "not a mapping")

	doc := tr.Document()
	out := doc["dimensions"].([]any)[0].(map[string]any)
	// Merge is skipped, structural fields survive
	if out["name"] != "place characterization" {
		t.Errorf("structural name lost: %v", out["name"])
	}
	if _, ok := out["id"]; ok {
		t.Error("bag keys should be absent when the bag is not a mapping")
	}
	if _, ok := out["factors"]; !ok {
		t.Error("children must still serialize")
	}
}

func TestRoundTripStructure(t *testing.T) {
	tr := loadFixture(t)
	data, err := tr.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	tr2 := NewTree()
	if err := tr2.LoadBytes(data); err != nil {
		t.Fatal(err)
	}
	data2, err := tr2.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	// A second pass is a fixed point: weightings and statuses are
	// already canonical after the first serialize.
	if string(data) != string(data2) {
		t.Errorf("second round-trip diverged:\n%s\n---\n%s", data, data2)
	}
}

func TestLoadNotifiesAndReplaces(t *testing.T) {
	tr := NewTree()
	calls := 0
	tr.OnChange(func() { calls++ })

	tr.Load(fixtureDoc())
	if calls != 1 {
		t.Errorf("Load should notify once, got %d", calls)
	}

	old := tr.NodeAt(nil, 0)
	tr.Load(fixtureDoc())
	if tr.NodeAt(nil, 0) == old {
		t.Error("Load must fully rebuild the node graph")
	}
}

func TestFindByName(t *testing.T) {
	tr := loadFixture(t)
	if n := tr.FindByName("Schools"); n == nil || !n.IsIndicator() {
		t.Error("FindByName(Schools) should locate the layer")
	}
	if tr.FindByName("nope") != nil {
		t.Error("FindByName should return nil for unknown names")
	}
}
