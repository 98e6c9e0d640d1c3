// Package loader reads and writes the weighting model document on disk.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"scoretree/pkg/model"
)

// ModelFileName is the canonical document name inside a project directory
const ModelFileName = "model.json"

// StateDirName holds tool state (settings, journal) next to the model
const StateDirName = ".scoretree"

// ModelPath returns the model document path for a project directory.
// An empty projectDir means the current working directory.
func ModelPath(projectDir string) (string, error) {
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
	}
	return filepath.Join(projectDir, ModelFileName), nil
}

// Load reads a model document and builds a tree from it
func Load(path string) (*model.Tree, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no weighting model found at %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	tree := model.NewTree()
	if err := tree.LoadBytes(data); err != nil {
		return nil, fmt.Errorf("parse model file %s: %w", path, err)
	}
	return tree, nil
}

// Save serializes the tree back to its document and writes it atomically:
// a temp file in the same directory, then a rename over the target, so an
// external watcher never observes a half-written document.
func Save(tree *model.Tree, path string) error {
	data, err := tree.Bytes()
	if err != nil {
		return fmt.Errorf("serialize model: %w", err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ModelFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace model file: %w", err)
	}
	return nil
}

// LoadDocument reads the raw document without building a tree, for
// callers that only need the JSON shape.
func LoadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse model file %s: %w", path, err)
	}
	return doc, nil
}

// FindProjectRoot walks up from dir looking for a directory containing
// model.json. Returns the project directory and true when found.
func FindProjectRoot(dir string) (string, bool) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", false
		}
	}
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, ModelFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

// StateDir returns the tool state directory for a project, creating it
// on demand.
func StateDir(projectDir string) (string, error) {
	dir := filepath.Join(projectDir, StateDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create state directory %s: %w", dir, err)
	}
	return dir, nil
}
