// Package api provides the HTTP API for tasks.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todolist/pkg/observability"
)

// Server is the HTTP API server for tasks.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	metrics observability.Metrics
	handler *TaskHandler
	health  *observability.HealthRegistry
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new task API server. health may be nil, in which case
// /health always reports healthy.
func NewServer(cfg ServerConfig, handler *TaskHandler, health *observability.HealthRegistry, logger *slog.Logger, metrics observability.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if health == nil {
		health = observability.NewHealthRegistry()
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		metrics: metrics,
		handler: handler,
		health:  health,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	// Health check
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Tasks. The literal segment wins over the {id} wildcard.
	s.mux.HandleFunc("GET /api/tasks", s.handler.List)
	s.mux.HandleFunc("POST /api/tasks", s.handler.Create)
	s.mux.HandleFunc("GET /api/tasks/completion-percentage", s.handler.CompletionPercentage)
	s.mux.HandleFunc("GET /api/tasks/{id}", s.handler.Get)
	s.mux.HandleFunc("PUT /api/tasks/{id}", s.handler.Update)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handler.Delete)
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return Chain(s.mux,
		RecoverMiddleware(s.logger),
		RequestContextMiddleware(),
		LoggingMiddleware(s.logger, s.metrics),
		CORSMiddleware(),
	)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.health.GetOverallHealth(r.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// Start starts the API server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting task API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down task API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Log error but can't do much at this point
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// writeAPIError writes e using its status.
func writeAPIError(w http.ResponseWriter, e *APIError) {
	writeError(w, e.Status, e.Message)
}

// APIError represents an API error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common API errors
var (
	ErrBadRequest = &APIError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: "Invalid request",
	}
	ErrNotFound = &APIError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "Resource not found",
	}
	ErrServiceUnavailable = &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    "unavailable",
		Message: "Task store unavailable",
	}
	ErrInternalServer = &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error",
	}
)

// toAPIError maps a service error to its HTTP representation. Caller mistakes
// and missing tasks keep their message; everything else is opaque.
func toAPIError(err error) *APIError {
	switch {
	case errors.Is(err, task.ErrInvalidArgument):
		return &APIError{Status: http.StatusBadRequest, Code: ErrBadRequest.Code, Message: err.Error()}
	case errors.Is(err, task.ErrNotFound):
		return &APIError{Status: http.StatusNotFound, Code: ErrNotFound.Code, Message: task.ErrNotFound.Error()}
	case errors.Is(err, task.ErrStoreUnavailable):
		return ErrServiceUnavailable
	default:
		return ErrInternalServer
	}
}
