package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/ingestion"
)

func newEnrichCmd(a *app) *cobra.Command {
	var (
		analysis  string
		resources []string
		graphPath string
		planPath  string
		mock      bool
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Map an analysis onto individual plan resources",
		Long: `Extracts a summary, issues and recommendations per resource from an
analysis text. Resources come from --resource and/or the nodes of --graph
and --plan.

Example:
  agent enrich --analysis @analysis.txt --graph plan.dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readArg(analysis)
			if err != nil {
				return err
			}

			ids := append([]string{}, resources...)
			if graphPath != "" || planPath != "" {
				g, err := ingestion.LoadGraphWithPlan(graphPath, planPath)
				if err != nil {
					return fmt.Errorf("loading graph: %w", err)
				}
				ids = append(ids, g.ResourceIDs()...)
			}
			if len(ids) == 0 {
				return errors.New("no resources given: use --resource, --graph or --plan")
			}

			engine, err := a.engine(cmd.Context(), mock)
			if err != nil {
				return err
			}
			return writeJSON(cmd, engine.EnrichResources(cmd.Context(), text, nil, dedupe(ids), mock))
		},
	}

	cmd.Flags().StringVar(&analysis, "analysis", "", "analysis text, or @path to read it from a file")
	cmd.Flags().StringSliceVar(&resources, "resource", nil, "resource id to enrich (repeatable)")
	cmd.Flags().StringVar(&graphPath, "graph", "", "plan graph (.dot, .gv or .json) whose resources are enriched")
	cmd.Flags().StringVar(&planPath, "plan", "", "terraform show -json output merged onto --graph, or loaded alone")
	cmd.Flags().BoolVar(&mock, "mock", false, "use canned fixtures instead of the completion service")
	return cmd
}

// readArg returns v, or the contents of the file when v starts with '@'.
func readArg(v string) (string, error) {
	path, ok := strings.CutPrefix(v, "@")
	if !ok {
		return v, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
