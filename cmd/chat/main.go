// Package main runs the interactive chat loop against the ingested PDF.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/LeitorAI/leitor-mvp/engine/config"
	"github.com/LeitorAI/leitor-mvp/engine/provider"
	"github.com/LeitorAI/leitor-mvp/engine/rag"
	"github.com/LeitorAI/leitor-mvp/engine/semantic"
)

func main() {
	godotenv.Load()

	// Logs go to stderr so they don't interleave with the conversation.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "err", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("chat exited with error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
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
		return err
	}

	answers := rag.New(embedder, store, generator, rag.Options{TopK: cfg.TopK}, logger)

	r := &repl{answers: answers, store: store, out: os.Stdout}
	r.run(ctx, os.Stdin)
	return nil
}
