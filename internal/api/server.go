package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/flowpbx/vmprompt/internal/api/middleware"
	"github.com/flowpbx/vmprompt/internal/database"
	"github.com/flowpbx/vmprompt/internal/intro"
)

// Server holds HTTP handler dependencies and the chi router.
type Server struct {
	router   *chi.Mux
	intros   *intro.Service
	messages database.VoicemailMessageRepository
	limiter  *middleware.IPRateLimiter
	metrics  http.Handler
	logger   *slog.Logger
}

// NewServer creates the HTTP handler with all routes mounted. limiter may
// be nil to disable rate limiting, metricsHandler nil to omit /metrics.
func NewServer(
	intros *intro.Service,
	messages database.VoicemailMessageRepository,
	limiter *middleware.IPRateLimiter,
	metricsHandler http.Handler,
	logger *slog.Logger,
) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		intros:   intros,
		messages: messages,
		limiter:  limiter,
		metrics:  metricsHandler,
		logger:   logger.With("subsystem", "api"),
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(s.logger))
	r.Use(middleware.Recoverer(s.logger))

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			if s.limiter != nil {
				r.Use(middleware.RateLimit(s.limiter))
			}

			r.Post("/prompts/intro", s.handleComposeIntro)

			r.Get("/voicemail-boxes/{id}/messages", s.handleListVoicemailMessages)

			r.Route("/voicemail-messages/{id}", func(r chi.Router) {
				r.Get("/intro", s.handleVoicemailMessageIntro)
				r.Put("/read", s.handleMarkVoicemailMessageRead)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.logger.Debug("api routes mounted")
}

// healthResponse reports the default rendering settings so a playback
// engine can tell what it will get without composing anything.
type healthResponse struct {
	Status             string `json:"status"`
	Mode               string `json:"mode"`
	Locale             string `json:"locale"`
	DictationAvailable bool   `json:"dictation_available"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	settings := s.intros.Settings()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:             "ok",
		Mode:               settings.Mode.String(),
		Locale:             settings.Locale.String(),
		DictationAvailable: s.intros.DictationAvailable(),
	})
}
