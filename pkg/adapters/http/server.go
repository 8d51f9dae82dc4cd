package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodySize bounds POST bodies: the tape limit plus room for an inline machine.
const maxBodySize = 4 << 20

// RunRequest is the body of POST /runs. Machine is an inline machine
// document and takes precedence over MachineID.
type RunRequest struct {
	MachineID string          `json:"machine_id,omitempty"`
	Machine   json.RawMessage `json:"machine,omitempty"`
	Input     string          `json:"input"`
	MaxSteps  int             `json:"max_steps,omitempty"`
}

// Server serves the run API.
type Server struct {
	Runs    ports.RunService
	Loader  ports.MachineLoader
	Streams *StreamManager
	Metrics http.Handler
	Logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithLoader exposes a machine library under /machines.
func WithLoader(loader ports.MachineLoader) Option {
	return func(s *Server) { s.Loader = loader }
}

// WithStreams serves run events from sm under /events.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) { s.Streams = sm }
}

// WithMetrics serves h under /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.Metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the run service.
func NewHandler(svc ports.RunService, opts ...Option) http.Handler {
	s := &Server{
		Runs:   svc,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/runs", func(r chi.Router) {
		r.Post("/", s.CreateRun)
		r.Get("/", s.ListRuns)
		r.Get("/{id}", s.GetRun)
		r.Delete("/{id}", s.DeleteRun)
	})

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Get("/{id}", s.GetMachine)
		r.Get("/{id}/graph", s.GetMachineGraph)
	})

	if s.Streams != nil {
		r.Get("/events", s.SubscribeEvents)
	}
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateRun handles POST /runs.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := runs.CheckInput(body.Input); err != nil {
		s.Logger.Warn("CreateRun: Input rejected", "err", err, "size", len(body.Input))
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	req := domain.RunRequest{
		MachineID: body.MachineID,
		Input:     body.Input,
		MaxSteps:  body.MaxSteps,
	}
	if len(body.Machine) > 0 && string(body.Machine) != "null" {
		m, err := compiler.Parse(body.Machine, compiler.FormatJSON)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		m.ID = body.MachineID
		req.Machine = m
	}

	run, err := s.Runs.Execute(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, run)
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	history, err := s.Runs.History(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, history)
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.Runs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// DeleteRun handles DELETE /runs/{id}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.Runs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	if s.Loader == nil {
		s.writeJSON(w, http.StatusOK, []string{})
		return
	}
	ids, err := s.Loader.ListMachines(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ids)
}

func (s *Server) loadMachine(w http.ResponseWriter, r *http.Request) (*domain.Machine, bool) {
	id := chi.URLParam(r, "id")
	if s.Loader == nil {
		s.writeDomainError(w, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, id))
		return nil, false
	}
	m, err := s.Loader.LoadMachine(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return nil, false
	}
	return m, true
}

// GetMachine handles GET /machines/{id}.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	if m, ok := s.loadMachine(w, r); ok {
		s.writeJSON(w, http.StatusOK, m)
	}
}

// GetMachineGraph handles GET /machines/{id}/graph and returns a Mermaid diagram.
func (s *Server) GetMachineGraph(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMachine(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(m))
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "turing-http",
		"version": strings.TrimSpace(turing.Version),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeDomainError maps sentinel errors to status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrStructuralInput):
		s.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrRunNotFound), errors.Is(err, domain.ErrMachineNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, http.StatusServiceUnavailable, err)
	default:
		s.Logger.Error("request failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, err)
	}
}
