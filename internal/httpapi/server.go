package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-quickstart/internal/catalog"
	"github.com/goliatone/go-quickstart/internal/logging"
	"github.com/goliatone/go-quickstart/pkg/interfaces"
)

// Server exposes the quickstart catalog as a read-only JSON API.
type Server struct {
	router chi.Router
	store  interfaces.CatalogStore
	logger interfaces.Logger
}

// Option configures optional Server behaviour.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds the router over store.
func NewServer(store interfaces.CatalogStore, opts ...Option) *Server {
	s := &Server{
		store:  store,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/quickstarts", s.handleList)
	r.Get("/quickstarts/{id}", s.handleGet)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("quickstart.http.list_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list quickstarts")
		return
	}
	if records == nil {
		records = []*interfaces.QuickstartRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(records),
		"quickstarts": records,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, err := s.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "quickstart not found")
		return
	case err != nil:
		s.logger.Error("quickstart.http.get_failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load quickstart")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
