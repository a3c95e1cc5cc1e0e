package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/LeitorAI/leitor-mvp/engine/domain"
	"github.com/LeitorAI/leitor-mvp/engine/ingest"
	"github.com/LeitorAI/leitor-mvp/pkg/metrics"
)

// Ingester runs the ingestion pipeline.
type Ingester interface {
	Run(ctx context.Context, path string) (ingest.Summary, error)
}

// Answerer produces a grounded answer for a question.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}

// HealthChecker verifies the store connection.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type server struct {
	pipeline Ingester
	answers  Answerer
	store    HealthChecker
	pdfPath  string
	logger   *slog.Logger
	registry *metrics.Registry

	ingestsOK   *metrics.Counter
	ingestsFail *metrics.Counter
	questions   *metrics.Counter
}

func newServer(pipeline Ingester, answers Answerer, store HealthChecker, pdfPath string, logger *slog.Logger) *server {
	reg := metrics.New()
	return &server{
		pipeline: pipeline,
		answers:  answers,
		store:    store,
		pdfPath:  pdfPath,
		logger:   logger,
		registry: reg,

		ingestsOK:   reg.Counter(metrics.WithLabels("ingests_total", "result", "success"), "Ingestion runs."),
		ingestsFail: reg.Counter(metrics.WithLabels("ingests_total", "result", "error"), ""),
		questions:   reg.Counter("questions_total", "Questions answered."),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.Handle("GET /metrics", s.registry.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// IngestRequest optionally overrides the configured PDF path.
type IngestRequest struct {
	Path string `json:"path,omitempty"`
}

// IngestResponse is the JSON body for a successful POST /ingest.
type IngestResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	ChunksCount int    `json:"chunks_count"`
}

func (s *server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if r.Body != nil {
		// An empty body means "use the configured path".
		json.NewDecoder(r.Body).Decode(&req)
	}
	path := req.Path
	if path == "" {
		path = s.pdfPath
	}

	summary, err := s.pipeline.Run(r.Context(), path)
	if err != nil {
		s.ingestsFail.Inc()
		s.logger.Error("ingest request failed", "path", path, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	s.ingestsOK.Inc()
	writeJSON(w, http.StatusOK, IngestResponse{
		Status:      "success",
		Message:     fmt.Sprintf("PDF processado com sucesso. %d chunks criados.", summary.Chunks),
		ChunksCount: summary.Chunks,
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}

// ChatRequest is the JSON body for POST /api/chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the JSON response for POST /api/chat.
type ChatResponse struct {
	Answer string `json:"answer"`
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := domain.ValidateQuestion(req.Question); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	s.questions.Inc()
	answer := s.answers.Answer(r.Context(), req.Question)
	writeJSON(w, http.StatusOK, ChatResponse{Answer: answer})
}
