// Package rag turns a user question into a grounded answer. It embeds
// the question, searches the semantic store for the closest chunks,
// formats them into a fixed Portuguese prompt and asks the configured
// language model, which is instructed to refuse anything the context
// does not support.
package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LeitorAI/leitor-mvp/engine/domain"
	"github.com/LeitorAI/leitor-mvp/engine/semantic"
)

// Embedder embeds a single question for retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher is the slice of the semantic store the query path needs.
type Searcher interface {
	Search(ctx context.Context, vector []float32, k int) ([]semantic.SearchResult, error)
}

// Generator produces the final answer text from a rendered prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options configures retrieval behaviour.
type Options struct {
	TopK int
}

// DefaultOptions returns the retrieval defaults.
func DefaultOptions() Options {
	return Options{TopK: 10}
}

// Service is the question answering pipeline.
type Service struct {
	embedder Embedder
	search   Searcher
	generate Generator
	opts     Options
	logger   *slog.Logger
}

// New creates a Service. A nil logger falls back to slog.Default.
func New(embedder Embedder, search Searcher, generate Generator, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	return &Service{
		embedder: embedder,
		search:   search,
		generate: generate,
		opts:     opts,
		logger:   logger,
	}
}

// Retrieve embeds the question and returns the closest chunks,
// descending by similarity.
func (s *Service) Retrieve(ctx context.Context, question string) ([]semantic.SearchResult, error) {
	if err := domain.ValidateQuestion(question); err != nil {
		return nil, err
	}
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("rag: embed question: %w", err)
	}
	results, err := s.search.Search(ctx, vector, s.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("rag: search: %w", err)
	}
	s.logger.Info("retrieval done", "question_len", len(question), "results", len(results))
	return results, nil
}

// Answer runs the full query pipeline. It never returns an error: any
// failure along the way collapses into the fixed fallback string so the
// surrounding loop or handler can keep serving questions. An empty
// retrieval set short-circuits to the refusal sentence without paying
// for a model call.
func (s *Service) Answer(ctx context.Context, question string) string {
	results, err := s.Retrieve(ctx, question)
	if err != nil {
		s.logger.Error("answer failed during retrieval", "err", err)
		return FallbackAnswer
	}
	if len(results) == 0 {
		s.logger.Info("no context retrieved, refusing", "question_len", len(question))
		return RefusalAnswer
	}

	prompt := RenderPrompt(FormatContext(results), question)
	raw, err := s.generate.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("answer failed during generation",
			"err", fmt.Errorf("rag: %w: %w", domain.ErrGeneration, err))
		return FallbackAnswer
	}
	return ExtractText(raw)
}
