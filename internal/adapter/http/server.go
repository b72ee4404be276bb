package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voltgrid/station-inference-service/internal/domain"
)

// maxBodyBytes caps predict request bodies.
const maxBodyBytes = 1 << 20

// PredictService is the inference engine surface the HTTP layer needs.
type PredictService interface {
	Predict(ctx context.Context, modelPath string, record domain.InputRecord) domain.PredictionResult
	Models() ([]string, error)
	CheckReadiness(ctx context.Context) error
}

// predictRequest is the POST /predict body.
type predictRequest struct {
	ModelPath string             `json:"model_path"`
	InputData domain.InputRecord `json:"input_data"`
}

// Server exposes the predict API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	service    PredictService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /predict, /models, /health, /healthz,
// /readyz, and /metrics routes.
func NewServer(addr string, service PredictService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("GET /models", s.handleModels)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handlePredict decodes the request and hands it to the engine. Malformed
// bodies are the only client-visible failures; everything past decoding
// answers 200, falling back inside the engine if need be.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ModelPath == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "model_path is required"})
		return
	}
	if req.InputData == nil {
		req.InputData = domain.InputRecord{}
	}

	result := s.service.Predict(r.Context(), req.ModelPath, req.InputData)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	models, err := s.service.Models()
	if err != nil {
		s.logger.Error("list models failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list models"})
		return
	}
	if models == nil {
		models = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"models": models})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
