package ingestion

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

var allowedExt = []string{".dot", ".gv", ".json"}

// LoadLocalFiles returns the graph files under root in lexical order.
func LoadLocalFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, a := range allowedExt {
			if ext == a {
				out = append(out, path)
				break
			}
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}
