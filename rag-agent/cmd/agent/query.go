package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

func newQueryCmd(a *app) *cobra.Command {
	var mock bool

	cmd := &cobra.Command{
		Use:   "query [question]",
		Short: "Answer a question about the Terraform plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))

			engine, err := a.engine(cmd.Context(), mock)
			if err != nil {
				return err
			}
			result, err := engine.RunQuery(cmd.Context(), question, mock)
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&mock, "mock", false, "use canned fixtures instead of the completion service")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
