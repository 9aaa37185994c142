package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pikad/herald/internal/config"
	"github.com/pikad/herald/internal/logstore"
	"github.com/pikad/herald/internal/message"
	"github.com/pikad/herald/internal/metrics"
	"github.com/pikad/herald/internal/notify"
	"github.com/pikad/herald/internal/template"
)

// Notifier is the notification pipeline the API dispatches into.
type Notifier interface {
	Send(ctx context.Context, msg *message.Message) (*notify.Result, error)
	SendTemplate(ctx context.Context, typ template.Type, data map[string]any, recipient string) (*notify.Result, error)
	SendBatch(ctx context.Context, recipients []string, typ template.Type, data map[string]any) (*notify.BatchResult, error)
}

// EventHandler maps webhook events to notifications.
type EventHandler interface {
	HandleEvent(ctx context.Context, kind string, payload json.RawMessage) (*notify.EventResult, error)
}

// StatsSource produces the aggregated service report.
type StatsSource interface {
	Collect(ctx context.Context) (*notify.StatsReport, error)
}

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	notifier   Notifier
	events     EventHandler
	stats      StatsSource
	store      logstore.Store
	config     *config.APIConfig
	metrics    *metrics.Metrics
	logger     *slog.Logger
	startTime  time.Time
}

// Options bundles the server's collaborators.
type Options struct {
	Notifier Notifier
	Events   EventHandler
	Stats    StatsSource
	Store    logstore.Store
	Config   *config.APIConfig
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		notifier:  opts.Notifier,
		events:    opts.Events,
		stats:     opts.Stats,
		store:     opts.Store,
		config:    opts.Config,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		startTime: time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)

	// Health check (no auth required)
	s.router.Get("/health", s.handleHealth)

	// API v1 routes (auth required)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/send", s.handleSend)
		r.Post("/send/template", s.handleSendTemplate)
		r.Post("/send/batch", s.handleSendBatch)

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/user-registered", s.handleWebhook(notify.EventUserRegistered))
			r.Post("/order-created", s.handleWebhook(notify.EventOrderCreated))
			r.Post("/order-shipped", s.handleWebhook(notify.EventOrderShipped))
		})

		r.Get("/stats", s.handleStats)
		r.Get("/history", s.handleHistory)
	})
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddr,
		Handler:        s.router,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
	}

	s.logger.Info("starting HTTP API server", "addr", s.config.ListenAddr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP API server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
