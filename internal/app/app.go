package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pikad/herald/internal/api"
	"github.com/pikad/herald/internal/config"
	"github.com/pikad/herald/internal/dkim"
	"github.com/pikad/herald/internal/logstore"
	"github.com/pikad/herald/internal/lookup"
	"github.com/pikad/herald/internal/metrics"
	"github.com/pikad/herald/internal/notify"
	"github.com/pikad/herald/internal/template"
	"github.com/pikad/herald/internal/transport"
)

// App is the main application
type App struct {
	config        *config.Config
	store         logstore.Store
	transport     *transport.SMTP
	notifier      *notify.Notifier
	apiServer     *api.Server
	metricsServer *metrics.Server
	logger        *slog.Logger
}

// New creates a new application
func New(cfg *config.Config) (*App, error) {
	// Setup logger
	logger := setupLogger(cfg.Logging)

	m := metrics.New()

	// Create delivery log storage
	store, err := logstore.NewBoltStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open delivery log: %w", err)
	}

	// Create lookup client for dependent services
	services := make(map[string]string, len(cfg.Services))
	for name, svc := range cfg.Services {
		services[name] = svc.BaseURL
	}
	lookups := lookup.NewHTTPClient(services, serviceTimeout(cfg.Services), logger.With("component", "lookup"))

	// Create SMTP transport
	smtpTransport := transport.NewSMTP(transport.SMTPOptions{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		From:        cfg.SMTP.From,
		Hostname:    cfg.Server.Hostname,
		ImplicitTLS: cfg.SMTP.ImplicitTLS,
		Timeout:     cfg.SMTP.Timeout,
	}, logger.With("component", "transport"))

	// Setup DKIM signing
	if cfg.SMTP.DKIM.Enabled {
		signer, err := dkim.NewSignerFromFile(cfg.SMTP.DKIM.KeyFile, cfg.SMTP.DKIM.Domain, cfg.SMTP.DKIM.Selector)
		if err != nil {
			return nil, fmt.Errorf("failed to setup DKIM signing: %w", err)
		}
		smtpTransport.SetDKIMSigner(signer)
		logger.Info("DKIM signing enabled",
			"domain", cfg.SMTP.DKIM.Domain,
			"selector", cfg.SMTP.DKIM.Selector,
		)
	}

	// Create the dispatch pipeline
	notifier := notify.NewNotifier(notify.Options{
		Transport:     smtpTransport,
		Store:         store,
		Renderer:      template.NewRenderer(),
		Metrics:       m,
		Logger:        logger.With("component", "notifier"),
		BatchInterval: cfg.Batch.Interval,
		MaxRecipients: cfg.Batch.MaxRecipients,
	})

	events := notify.NewWebhookHandler(notifier, lookups, m, logger.With("component", "webhooks"))
	stats := notify.NewStatsCollector(store, lookups, smtpTransport, logger.With("component", "stats"))

	// Create API server
	apiServer := api.NewServer(api.Options{
		Notifier: notifier,
		Events:   events,
		Stats:    stats,
		Store:    store,
		Config:   &cfg.API,
		Metrics:  m,
		Logger:   logger.With("component", "api"),
	})

	// Create metrics scrape server
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(m, cfg.Metrics.ListenAddr, cfg.Metrics.Path, logger.With("component", "metrics"))
	}

	return &App{
		config:        cfg,
		store:         store,
		transport:     smtpTransport,
		notifier:      notifier,
		apiServer:     apiServer,
		metricsServer: metricsServer,
		logger:        logger,
	}, nil
}

// Run starts all components and waits for shutdown
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting herald",
		"hostname", a.config.Server.Hostname,
		"api_addr", a.config.API.ListenAddr,
		"smtp_host", a.config.SMTP.Host,
	)

	// Create context that listens for signals
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Channel to collect errors
	errCh := make(chan error, 2)

	// Start API server
	go func() {
		if err := a.apiServer.ListenAndServe(); err != nil {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	// Start metrics server if enabled
	if a.metricsServer != nil {
		go func() {
			if err := a.metricsServer.ListenAndServe(); err != nil {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	// Probe the transport once at startup so a broken smarthost shows
	// up in the logs immediately rather than on the first send.
	verifyCtx, verifyCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := a.transport.VerifyConnection(verifyCtx); err != nil {
		a.logger.Warn("smtp connection check failed", "error", err)
	}
	verifyCancel()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.logger.Error("server error", "error", err)
		cancel()
	}

	// Graceful shutdown
	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down all components
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	// Create timeout context
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := a.apiServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("api server shutdown error", "error", err)
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics server shutdown error", "error", err)
		}
	}

	// Close storage
	if err := a.store.Close(); err != nil {
		a.logger.Error("storage close error", "error", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}

// serviceTimeout picks the HTTP client timeout: the largest configured
// per-service timeout, so no lookup is cut short.
func serviceTimeout(services map[string]config.ServiceConfig) time.Duration {
	var max time.Duration
	for _, svc := range services {
		if svc.Timeout > max {
			max = svc.Timeout
		}
	}
	return max
}

// setupLogger creates a logger based on configuration
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
