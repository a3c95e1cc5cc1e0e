// Package main implements the HTTP server exposing ingestion, question
// answering, health, and metrics endpoints.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/LeitorAI/leitor-mvp/engine/chunker"
	"github.com/LeitorAI/leitor-mvp/engine/config"
	"github.com/LeitorAI/leitor-mvp/engine/ingest"
	"github.com/LeitorAI/leitor-mvp/engine/provider"
	"github.com/LeitorAI/leitor-mvp/engine/rag"
	"github.com/LeitorAI/leitor-mvp/engine/semantic"
	"github.com/LeitorAI/leitor-mvp/pkg/mid"
	"github.com/LeitorAI/leitor-mvp/pkg/pdftext"
)

func main() {
	godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	embedder, generator, err := provider.New(cfg)
	if err != nil {
		return err
	}

	store, err := semantic.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureReady(ctx, embedder.Dimension()); err != nil {
		return fmt.Errorf("prepare store: %w", err)
	}

	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}

	pipeline := ingest.New(ingest.Deps{
		Loader:   pdftext.ExtractPages,
		Splitter: splitter,
		Embedder: embedder,
		Store:    store,
		Logger:   logger,
	})
	answers := rag.New(embedder, store, generator, rag.Options{TopK: cfg.TopK}, logger)

	srv := newServer(pipeline, answers, store, cfg.PDFPath, logger)

	handler := mid.Chain(srv.routes(),
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("leitor-api"),
	)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "provider", embedder.Name())
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}
