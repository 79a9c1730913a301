package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cfraser/pageforge/internal/api"
	"github.com/cfraser/pageforge/internal/assets"
	"github.com/cfraser/pageforge/internal/config"
	"github.com/cfraser/pageforge/internal/editor"
	"github.com/cfraser/pageforge/internal/export"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One editing session per process: the document, drag state, and
	// focus state all live in this container.
	store := assets.NewStore(cfg.MaxUploadBytes)
	resolver := assets.NewResolver(store, cfg.FetchTimeout, cfg.MaxUploadBytes, log)
	session := editor.NewSession(cfg.DefaultSpacingPixels, log)

	// Export worker pool.
	orch := export.NewOrchestrator(cfg, resolver, log)
	orch.Start(ctx)

	// HTTP event-handling layer.
	srv := api.NewServer(session, store, resolver, orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting pageforge", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
