package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/metrics"
)

// Node names a step of the workflow.
type Node string

const (
	NodeClassify      Node = "classify"
	NodeDecompose     Node = "decompose"
	NodeMultiRetrieve Node = "multi_retrieve"
	NodeSynthesize    Node = "synthesize"
	NodeRetrieve      Node = "retrieve"
	NodeCritique      Node = "critique"
	NodeRefine        Node = "refine"
	NodeFinalize      Node = "finalize"

	nodeEnd Node = ""
)

// maxIterations bounds the number of refine passes per run.
const maxIterations = 1

// ErrNodeRevisited is returned when the edges lead back to a node that has
// already run.
var ErrNodeRevisited = errors.New("graph: node visited twice")

type nodeFunc func(ctx context.Context, s State) (Patch, error)

type edgeFunc func(s State) Node

func always(n Node) edgeFunc {
	return func(State) Node { return n }
}

func defaultEdges() map[Node]edgeFunc {
	return map[Node]edgeFunc{
		NodeClassify: func(s State) Node {
			if s.Route == RouteAnalysis {
				return NodeDecompose
			}
			return NodeRetrieve
		},
		NodeDecompose:     always(NodeMultiRetrieve),
		NodeMultiRetrieve: always(NodeSynthesize),
		NodeSynthesize:    always(NodeFinalize),
		NodeRetrieve: func(s State) Node {
			if s.Route == RouteComplex || s.Route == RouteAnalysis {
				return NodeCritique
			}
			return NodeFinalize
		},
		NodeCritique: func(s State) Node {
			if s.NeedsRefinement && s.Iteration < maxIterations {
				return NodeRefine
			}
			return NodeFinalize
		},
		NodeRefine:   always(NodeFinalize),
		NodeFinalize: always(nodeEnd),
	}
}

// RunWorkflow executes the graph from classify until finalize and returns
// the terminal state. Node errors are returned wrapped with the node name.
func (e *Engine) RunWorkflow(ctx context.Context, s State) (State, error) {
	log := e.logger.With(zap.String("run_id", uuid.NewString()))
	log.Debug("workflow started", zap.Bool("mock", s.Mock))

	visited := make(map[Node]bool, len(e.nodes))
	for current := NodeClassify; current != nodeEnd; current = e.next(current, s) {
		if visited[current] {
			return s, fmt.Errorf("%w: %s", ErrNodeRevisited, current)
		}
		visited[current] = true

		fn, ok := e.nodes[current]
		if !ok {
			return s, fmt.Errorf("graph: no handler for node %q", current)
		}
		patch, err := e.runNode(ctx, log, current, fn, s)
		if err != nil {
			return s, err
		}
		s = Reduce(s, patch)
	}

	log.Debug("workflow finished",
		zap.String("route", string(s.Route)),
		zap.Int("iterations", s.Iteration),
	)
	return s, nil
}

func (e *Engine) next(current Node, s State) Node {
	edge, ok := e.edges[current]
	if !ok {
		return nodeEnd
	}
	return edge(s)
}

func (e *Engine) runNode(ctx context.Context, log *zap.Logger, node Node, fn nodeFunc, s State) (Patch, error) {
	ctx, span := e.tracer.Start(ctx, "graph."+string(node))
	defer span.End()
	span.SetAttributes(attribute.Bool("graph.mock", s.Mock))

	start := time.Now()
	patch, err := fn(ctx, s)
	elapsed := time.Since(start)
	metrics.NodeDuration.WithLabelValues(string(node), metrics.Mode(s.Mock)).Observe(elapsed.Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn("node failed", zap.String("node", string(node)), zap.Duration("duration", elapsed), zap.Error(err))
		return Patch{}, err
	}
	log.Debug("node complete", zap.String("node", string(node)), zap.Duration("duration", elapsed))
	return patch, nil
}
