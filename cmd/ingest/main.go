// Package main ingests a PDF into the semantic store as a one-shot command.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/LeitorAI/leitor-mvp/engine/chunker"
	"github.com/LeitorAI/leitor-mvp/engine/config"
	"github.com/LeitorAI/leitor-mvp/engine/ingest"
	"github.com/LeitorAI/leitor-mvp/engine/provider"
	"github.com/LeitorAI/leitor-mvp/engine/semantic"
	"github.com/LeitorAI/leitor-mvp/pkg/pdftext"
)

func main() {
	godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	pdfPath := flag.String("pdf", "", "path to the PDF (defaults to PDF_PATH)")
	reset := flag.Bool("reset", false, "clear the collection before ingesting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "err", err)
		os.Exit(1)
	}
	if *pdfPath != "" {
		cfg.PDFPath = *pdfPath
	}

	if err := run(context.Background(), cfg, *reset, logger); err != nil {
		logger.Error("ingestion failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, reset bool, logger *slog.Logger) error {
	embedder, _, err := provider.New(cfg)
	if err != nil {
		return err
	}

	store, err := semantic.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureReady(ctx, embedder.Dimension()); err != nil {
		return err
	}
	if reset {
		logger.Info("clearing collection", "collection", cfg.Collection)
		if err := store.Clear(ctx); err != nil {
			return err
		}
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

	summary, err := pipeline.Run(ctx, cfg.PDFPath)
	if err != nil {
		return err
	}
	logger.Info("pdf ingested",
		"source", summary.Source, "pages", summary.Pages, "chunks", summary.Chunks)
	return nil
}
