package provider

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/LeitorAI/leitor-mvp/engine/domain"
)

const (
	openAIEmbedModel = openai.SmallEmbedding3
	openAIChatModel  = openai.GPT4oMini
	openAIDimension  = 1536
)

// OpenAI implements Embedder and Generator against the OpenAI API.
type OpenAI struct {
	client  *openai.Client
	limiter *rate.Limiter
}

// NewOpenAI creates an OpenAI-backed provider.
func NewOpenAI(apiKey string) *OpenAI {
	return NewOpenAIWithConfig(openai.DefaultConfig(apiKey))
}

// NewOpenAIWithConfig allows overriding the client configuration,
// primarily the base URL in tests.
func NewOpenAIWithConfig(cfg openai.ClientConfig) *OpenAI {
	return &OpenAI{
		client:  openai.NewClientWithConfig(cfg),
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// Name returns the backend identifier.
func (o *OpenAI) Name() string { return "openai" }

// Dimension returns the vector width of text-embedding-3-small.
func (o *OpenAI) Dimension() int { return openAIDimension }

// Embed embeds a single text.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request, preserving order.
func (o *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openAIEmbedModel,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w: %w", domain.ErrProviderUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: %w: got %d vectors for %d texts",
			domain.ErrProviderUnavailable, len(resp.Data), len(texts))
	}
	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}

// Generate runs one chat completion over the prompt and returns the text.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", err
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openAIChatModel,
		// go-openai drops a zero temperature from the request body; the
		// smallest representable value keeps the call deterministic-leaning.
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w: %w", domain.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: %w: empty choices", domain.ErrGeneration)
	}
	return resp.Choices[0].Message.Content, nil
}
