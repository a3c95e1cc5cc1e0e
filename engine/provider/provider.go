// Package provider implements the embedding and generation capabilities
// behind a closed set of backends. The backend is chosen once at
// construction; callers never branch on provider identity again.
package provider

import (
	"context"

	"github.com/LeitorAI/leitor-mvp/engine/config"
	"github.com/LeitorAI/leitor-mvp/engine/domain"
)

// Embedder converts text into fixed-width numeric vectors. Within one
// configured backend the width is constant; different backends differ.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator runs one stateless model invocation over a rendered prompt
// and returns the plain text reply. No streaming, no conversation state.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New selects the configured backend. Both returned values are the same
// client; the split interfaces keep callers honest about which capability
// they use.
func New(cfg *config.Config) (Embedder, Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		c := NewOpenAI(cfg.OpenAIKey)
		return c, c, nil
	case config.ProviderGemini:
		c := NewGemini(cfg.GoogleKey)
		return c, c, nil
	default:
		return nil, nil, domain.NewConfigError("LLM_PROVIDER", "unsupported provider "+string(cfg.Provider))
	}
}
