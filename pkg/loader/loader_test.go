package loader

import (
	"os"
	"path/filepath"
	"testing"

	"scoretree/pkg/model"
)

const sampleDoc = `{
  "dimensions": [
    {
      "name": "contextual",
      "id": "CD",
      "factors": [
        {
          "name": "Safety",
          "id": "FS",
          "layers": [
            {"Layer": "Streetlights", "Factor Weighting": 1.0, "Indicator Result": "Workflow Completed"}
          ]
        }
      ]
    }
  ]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ModelFileName)
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeSample(t)
	tree, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if tree.RowCount(nil) != 1 {
		t.Fatalf("loaded %d dimensions, want 1", tree.RowCount(nil))
	}
	dim := tree.NodeAt(nil, 0)
	if dim.Name() != "Contextual" {
		t.Errorf("dimension name = %q, want Contextual", dim.Name())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), ModelFileName))
	if err == nil {
		t.Fatal("expected an error for a missing model file")
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ModelFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeSample(t)
	tree, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	tree.AddDimension("Access")

	if err := Save(tree, path); err != nil {
		t.Fatal(err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.RowCount(nil) != 2 {
		t.Fatalf("reloaded %d dimensions, want 2", again.RowCount(nil))
	}
	if again.NodeAt(nil, 1).Name() != "Access" {
		t.Errorf("second dimension = %q, want Access", again.NodeAt(nil, 1).Name())
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	path := writeSample(t)
	tree := model.NewTree()
	if err := Save(tree, path); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries after save, want just the model", len(entries))
	}
}

func TestFindProjectRoot(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ModelFileName), []byte(sampleDoc), 0644); err != nil {
		t.Fatal(err)
	}

	root, ok := FindProjectRoot(nested)
	if !ok {
		t.Fatal("FindProjectRoot should find the model above the nested dir")
	}
	if root != dir {
		t.Errorf("root = %q, want %q", root, dir)
	}

	if _, ok := FindProjectRoot(t.TempDir()); ok {
		t.Error("FindProjectRoot should fail with no model present")
	}
}

func TestStateDir(t *testing.T) {
	dir := t.TempDir()
	state, err := StateDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(state)
	if err != nil || !info.IsDir() {
		t.Fatalf("state dir not created: %v", err)
	}
	// Idempotent
	if _, err := StateDir(dir); err != nil {
		t.Errorf("second StateDir call failed: %v", err)
	}
}
