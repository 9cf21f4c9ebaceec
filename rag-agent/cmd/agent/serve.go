package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/graph"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/ingestion"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/plan"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query and enrichment API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := a.completionClient(ctx)
			if err != nil {
				return err
			}

			var planGraph plan.Graph
			if pc := a.cfg.Plan; pc.GraphPath != "" || pc.PlanPath != "" {
				if planGraph, err = ingestion.LoadGraphWithPlan(pc.GraphPath, pc.PlanPath); err != nil {
					return fmt.Errorf("loading plan graph: %w", err)
				}
				a.logger.Info("plan graph loaded",
					zap.String("graph", pc.GraphPath),
					zap.String("plan", pc.PlanPath),
					zap.Int("resources", len(planGraph)),
				)
			}

			if port == "" {
				port = a.cfg.Server.Port
			}
			srv := server.New(graph.New(client, graph.WithLogger(a.logger)), planGraph, a.logger)
			return srv.ListenAndServe(ctx, ":"+port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default from config)")
	return cmd
}
