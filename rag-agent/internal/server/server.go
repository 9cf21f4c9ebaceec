// Package server exposes the workflow over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/graph"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/metrics"
	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/plan"
)

// GraphQuestion is asked of every plan graph served by /api/graph4.
const GraphQuestion = "Are there any bugs or issues in this Terraform plan? " +
	"Analyze each resource. Check for missing event source mappings, IAM gaps, " +
	"networking issues, and configuration problems."

const shutdownTimeout = 30 * time.Second

// QueryRequest is the body of POST /api/query/langgraph.
type QueryRequest struct {
	Question string `json:"question"`
	Mock     bool   `json:"mock"`
}

// EnrichRequest is the body of POST /api/enrich.
type EnrichRequest struct {
	AnalysisText string            `json:"analysis_text"`
	SubAnswers   []graph.SubAnswer `json:"sub_answers"`
	ResourceIDs  []string          `json:"resource_ids"`
	Mock         bool              `json:"mock"`
}

// Server routes HTTP requests to an engine.
type Server struct {
	engine *graph.Engine
	plan   plan.Graph
	logger *zap.Logger
	router *mux.Router
}

// New builds the router. planGraph is the graph served in live mode by
// /api/graph4; it may be nil.
func New(engine *graph.Engine, planGraph plan.Graph, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine: engine,
		plan:   planGraph,
		logger: logger,
		router: mux.NewRouter(),
	}

	s.router.Use(corsMiddleware)
	s.router.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/query/langgraph", s.handleQuery).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/api/enrich", s.handleEnrich).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/api/graph4", s.handleGraph).Methods(http.MethodGet)

	// Metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())
	return s
}

// Handler returns the root handler. Every request is traced.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "agent")
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server exited")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok", "server": "go-langgraph"})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	start := time.Now()
	const endpoint = "/api/query/langgraph"
	defer observe(r.Method, endpoint, start)

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, r, endpoint, http.StatusBadRequest, "Invalid request body")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		s.fail(w, r, endpoint, http.StatusBadRequest, "A 'question' field is required in the JSON body.")
		return
	}

	result, err := s.engine.RunQuery(r.Context(), question, req.Mock)
	if err != nil {
		s.logger.Error("query failed", zap.Error(err))
		s.fail(w, r, endpoint, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.HTTPRequestsTotal.WithLabelValues(r.Method, endpoint, "success").Inc()
	writeJSONResponse(w, http.StatusOK, result)
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	start := time.Now()
	const endpoint = "/api/enrich"
	defer observe(r.Method, endpoint, start)

	var req EnrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, endpoint, http.StatusBadRequest, "Invalid request body")
		return
	}

	insights := s.engine.EnrichResources(r.Context(), req.AnalysisText, req.SubAnswers, req.ResourceIDs, req.Mock)
	metrics.HTTPRequestsTotal.WithLabelValues(r.Method, endpoint, "success").Inc()
	writeJSONResponse(w, http.StatusOK, insights)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/api/graph4"
	defer observe(r.Method, endpoint, start)

	flag := r.URL.Query().Get("mock")
	mock := strings.EqualFold(flag, "true") || flag == "1"

	var nodes plan.Graph
	switch {
	case mock:
		nodes = plan.MockGraph()
	case s.plan != nil:
		nodes = s.plan.Clone()
	default:
		s.fail(w, r, endpoint, http.StatusNotImplemented,
			"Live mode needs a plan graph (set plan.graph_path or PLAN_GRAPH_PATH). Use ?mock=true.")
		return
	}

	result, err := s.engine.RunQuery(r.Context(), GraphQuestion, mock)
	if err != nil {
		s.logger.Error("graph analysis failed", zap.Error(err))
		s.fail(w, r, endpoint, http.StatusInternalServerError, err.Error())
		return
	}

	insights := s.engine.EnrichResources(r.Context(), result.AnalysisText(), result.SubAnswers, nodes.ResourceIDs(), mock)
	nodes.Apply(insights)

	metrics.HTTPRequestsTotal.WithLabelValues(r.Method, endpoint, "success").Inc()
	writeJSONResponse(w, http.StatusOK, nodes)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, endpoint string, status int, message string) {
	metrics.HTTPRequestsTotal.WithLabelValues(r.Method, endpoint, "error").Inc()
	writeJSONResponse(w, status, map[string]string{"error": message})
}

func observe(method, endpoint string, start time.Time) {
	metrics.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		next.ServeHTTP(w, r)
	})
}

func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
