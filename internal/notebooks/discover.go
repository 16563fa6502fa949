package notebooks

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

const (
	notebookExt    = ".ipynb"
	executedMarker = ".executed"
)

// excludedDirs are never descended into.
var excludedDirs = map[string]bool{
	".ipynb_checkpoints": true,
	".venv":              true,
	"venv":               true,
	"env":                true,
	".env":               true,
	"site-packages":      true,
}

// Discover returns every notebook under root in lexical order, skipping
// virtualenv and checkpoint directories and outputs of earlier runs.
func Discover(root string) ([]string, error) {
	var found []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if filepath.Ext(name) != notebookExt || strings.Contains(name, executedMarker) {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}

// OutputPath is where the executed copy of nb is written.
func OutputPath(nb string) string {
	return strings.TrimSuffix(nb, notebookExt) + executedMarker + notebookExt
}
