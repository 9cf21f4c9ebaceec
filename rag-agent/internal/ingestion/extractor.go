// Package ingestion loads Terraform plan graphs from disk.
package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/plan"
)

// ErrUnsupportedFormat is returned for files that are neither DOT nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported graph file type")

// LoadGraph detects the file type and returns the plan graph it describes.
// A .json file is either `terraform show -json` output or a serialised
// plan graph. A directory loads the first graph file found beneath it.
func LoadGraph(path string) (plan.Graph, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		files, err := LoadLocalFiles(path)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no graph files under %s", path)
		}
		path = files[0]
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".dot", ".gv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		dot, err := ParseDOT(f)
		if err != nil {
			return nil, err
		}
		return ToPlanGraph(dot), nil
	case ".json":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var top map[string]json.RawMessage
		if err := json.Unmarshal(b, &top); err != nil {
			return nil, fmt.Errorf("decoding plan graph %s: %w", path, err)
		}
		if isPlanJSON(top) {
			p, err := ParsePlanJSON(bytes.NewReader(b))
			if err != nil {
				return nil, err
			}
			return p.ToPlanGraph(), nil
		}
		var g plan.Graph
		if err := json.Unmarshal(b, &g); err != nil {
			return nil, fmt.Errorf("decoding plan graph %s: %w", path, err)
		}
		for id, node := range g {
			if node == nil {
				delete(g, id)
			}
		}
		return g, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// MergePlanFile fills the resource changes of g from the
// `terraform show -json` output at path.
func MergePlanFile(g plan.Graph, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	p, err := ParsePlanJSON(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	p.MergeInto(g)
	return nil
}

// LoadGraphWithPlan loads the graph at graphPath and, when planPath is set,
// merges the plan's resource changes onto it. Without a graph path the plan
// alone is loaded.
func LoadGraphWithPlan(graphPath, planPath string) (plan.Graph, error) {
	if graphPath == "" {
		return LoadGraph(planPath)
	}
	g, err := LoadGraph(graphPath)
	if err != nil {
		return nil, err
	}
	if planPath != "" {
		if err := MergePlanFile(g, planPath); err != nil {
			return nil, fmt.Errorf("merging plan: %w", err)
		}
	}
	return g, nil
}
