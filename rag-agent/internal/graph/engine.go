// Package graph runs the question-answering workflow over a Terraform plan
// and maps its analysis back onto individual resources.
package graph

import (
	"context"
	"encoding/json"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/llm"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/metrics"
)

const tracerName = "github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/graph"

// ErrNoClient is returned when a live run has no completion client.
var ErrNoClient = errors.New("graph: no completion client configured")

// Engine runs workflows and enrichment. It is safe for concurrent use.
type Engine struct {
	client   llm.Client
	logger   *zap.Logger
	rules    []RouteRule
	fixtures Fixtures
	tracer   trace.Tracer
	nodes    map[Node]nodeFunc
	edges    map[Node]edgeFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRouteRules replaces the classification rules.
func WithRouteRules(rules []RouteRule) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithFixtures replaces the canned mock outputs.
func WithFixtures(f Fixtures) Option {
	return func(e *Engine) { e.fixtures = f }
}

// WithTracerProvider sets the provider node spans are created from. The
// global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) { e.tracer = tp.Tracer(tracerName) }
}

// New returns an Engine calling client in live mode. client may be nil when
// only mock runs are made.
func New(client llm.Client, opts ...Option) *Engine {
	e := &Engine{
		client:   client,
		logger:   zap.NewNop(),
		rules:    DefaultRouteRules(),
		fixtures: DefaultFixtures(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.nodes = map[Node]nodeFunc{
		NodeClassify:      e.classify,
		NodeDecompose:     e.decompose,
		NodeMultiRetrieve: e.multiRetrieve,
		NodeSynthesize:    e.synthesize,
		NodeRetrieve:      e.retrieve,
		NodeCritique:      e.critique,
		NodeRefine:        e.refine,
		NodeFinalize:      e.finalize,
	}
	e.edges = defaultEdges()
	return e
}

func (e *Engine) complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	if e.client == nil {
		return "", ErrNoClient
	}
	return e.client.Complete(ctx, messages, opts)
}

// Result is the outcome of RunQuery.
type Result struct {
	Question          string      `json:"question"`
	FinalAnswer       string      `json:"final_answer"`
	Route             Route       `json:"route"`
	RAGAnswer         string      `json:"rag_answer"`
	RefinedAnswer     string      `json:"refined_answer"`
	SubQuestions      []string    `json:"sub_questions"`
	SubAnswers        []SubAnswer `json:"sub_answers"`
	SynthesizedAnswer string      `json:"synthesized_answer"`
	Trace             []string    `json:"trace"`
	Iterations        int         `json:"iterations"`
}

// MarshalJSON encodes empty answers and unset lists as null. trace is always
// an array.
func (r Result) MarshalJSON() ([]byte, error) {
	entries := r.Trace
	if entries == nil {
		entries = []string{}
	}
	return json.Marshal(struct {
		Question          string      `json:"question"`
		FinalAnswer       *string     `json:"final_answer"`
		Route             *string     `json:"route"`
		RAGAnswer         *string     `json:"rag_answer"`
		RefinedAnswer     *string     `json:"refined_answer"`
		SubQuestions      []string    `json:"sub_questions"`
		SubAnswers        []SubAnswer `json:"sub_answers"`
		SynthesizedAnswer *string     `json:"synthesized_answer"`
		Trace             []string    `json:"trace"`
		Iterations        int         `json:"iterations"`
	}{
		Question:          r.Question,
		FinalAnswer:       nullable(r.FinalAnswer),
		Route:             nullable(string(r.Route)),
		RAGAnswer:         nullable(r.RAGAnswer),
		RefinedAnswer:     nullable(r.RefinedAnswer),
		SubQuestions:      r.SubQuestions,
		SubAnswers:        r.SubAnswers,
		SynthesizedAnswer: nullable(r.SynthesizedAnswer),
		Trace:             entries,
		Iterations:        r.Iterations,
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// RunQuery answers question. In mock mode every node returns its fixture
// and no completion call is made. The only errors are completion errors.
func (e *Engine) RunQuery(ctx context.Context, question string, mock bool) (*Result, error) {
	s, err := e.RunWorkflow(ctx, State{Question: question, Mock: mock, Trace: []string{}})
	if err != nil {
		metrics.WorkflowRunsTotal.WithLabelValues(string(s.Route), metrics.Mode(mock), "error").Inc()
		return nil, err
	}
	metrics.WorkflowRunsTotal.WithLabelValues(string(s.Route), metrics.Mode(mock), "ok").Inc()

	return &Result{
		Question:          question,
		FinalAnswer:       s.FinalAnswer,
		Route:             s.Route,
		RAGAnswer:         s.RAGAnswer,
		RefinedAnswer:     s.RefinedAnswer,
		SubQuestions:      s.SubQuestions,
		SubAnswers:        s.SubAnswers,
		SynthesizedAnswer: s.SynthesizedAnswer,
		Trace:             s.Trace,
		Iterations:        s.Iteration,
	}, nil
}

// AnalysisText returns the text enrichment should be based on: the
// synthesized answer when present, else the final answer, else the
// retrieved one.
func (r *Result) AnalysisText() string {
	for _, candidate := range []string{r.SynthesizedAnswer, r.FinalAnswer, r.RAGAnswer} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}
