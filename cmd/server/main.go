package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/hnlevel/internal/api"
	"github.com/dgallion1/hnlevel/internal/config"
	"github.com/dgallion1/hnlevel/internal/pipeline"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug("maxprocs", "msg", format, "args", args)
	}))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		// Stop after the HTTP server so no handler submits to a closed queue.
		orch.Stop()
	}()

	log.Info("starting hnlevel",
		"port", cfg.Port,
		"workers", cfg.WorkerCount,
		"vocabulary", cfg.VocabularyFile,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
