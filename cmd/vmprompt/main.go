package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flowpbx/vmprompt/internal/api"
	"github.com/flowpbx/vmprompt/internal/api/middleware"
	"github.com/flowpbx/vmprompt/internal/config"
	"github.com/flowpbx/vmprompt/internal/database"
	"github.com/flowpbx/vmprompt/internal/i18n"
	"github.com/flowpbx/vmprompt/internal/intro"
	"github.com/flowpbx/vmprompt/internal/metrics"
	"github.com/flowpbx/vmprompt/internal/prompt"
	"github.com/flowpbx/vmprompt/internal/saytime"
	"github.com/flowpbx/vmprompt/internal/speech"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(cfg.SlogHandler(os.Stdout))
	slog.SetDefault(logger)

	slog.Info("starting vmprompt",
		"http_port", cfg.HTTPPort,
		"data_dir", cfg.DataDir,
		"numeric_method", cfg.Mode().String(),
		"locale", cfg.LocaleTag().String(),
	)

	catalog, err := i18n.LoadDefault(cfg.LocaleTag(), cfg.CatalogFile)
	if err != nil {
		slog.Error("failed to load translation catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("translation catalog loaded", "locales", len(catalog.Locales()), "override", cfg.CatalogFile)

	deps := prompt.Dependencies{
		Resolver:  i18n.NewResolver(catalog, cfg.AudioPath),
		Formatter: speech.NewFormatter(cfg.AudioPath, catalog),
	}

	// Digit dictation is optional. Without sounds only that mode is off.
	if provider, err := saytime.Load(cfg.SoundsDir); err != nil {
		if cfg.Mode() == prompt.DigitDictation {
			slog.Warn("digit dictation is configured but unavailable", "sounds_dir", cfg.SoundsDir, "error", err)
		} else {
			slog.Debug("digit dictation disabled", "error", err)
		}
	} else {
		deps.Digits = provider
	}

	db, err := database.Open(context.Background(), cfg.DataDir)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewIPRateLimiter(middleware.PerSecond(cfg.RateLimit))
		defer limiter.Stop()
	}

	messages := database.NewVoicemailMessageRepository(db)

	recorder := metrics.NewRecorder()
	registry, err := metrics.NewRegistry(metrics.NewCollector(messages, deps.Digits != nil, startTime), recorder)
	if err != nil {
		slog.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	intros := intro.NewService(deps, cfg.PromptSettings(), catalog, logger)
	intros.SetObserver(recorder)

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	handler := api.NewServer(intros, messages, limiter, metricsHandler, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		slog.Error("http server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("vmprompt stopped")
}
