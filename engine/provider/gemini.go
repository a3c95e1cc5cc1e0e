package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/LeitorAI/leitor-mvp/engine/domain"
)

const (
	geminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	geminiEmbedModel = "embedding-001"
	geminiChatModel  = "gemini-2.0-flash"
	geminiDimension  = 768
)

// Gemini implements Embedder and Generator against the Google Generative
// Language REST API.
type Gemini struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewGemini creates a Gemini-backed provider.
func NewGemini(apiKey string) *Gemini {
	return NewGeminiWithBaseURL(apiKey, geminiBaseURL)
}

// NewGeminiWithBaseURL allows pointing the client at a test server.
func NewGeminiWithBaseURL(apiKey, baseURL string) *Gemini {
	return &Gemini{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// Name returns the backend identifier.
func (g *Gemini) Name() string { return "gemini" }

// Dimension returns the vector width of embedding-001.
func (g *Gemini) Dimension() int { return geminiDimension }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiEmbedding struct {
	Values []float32 `json:"values"`
}

// Embed embeds a single text.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp struct {
		Embedding geminiEmbedding `json:"embedding"`
	}
	req := geminiEmbedRequest{
		Model:   "models/" + geminiEmbedModel,
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	}
	if err := g.post(ctx, geminiEmbedModel+":embedContent", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini embed: %w: empty embedding", domain.ErrProviderUnavailable)
	}
	return resp.Embedding.Values, nil
}

// EmbedBatch embeds texts in one batchEmbedContents call, preserving order.
func (g *Gemini) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	reqs := make([]geminiEmbedRequest, len(texts))
	for i, t := range texts {
		reqs[i] = geminiEmbedRequest{
			Model:   "models/" + geminiEmbedModel,
			Content: geminiContent{Parts: []geminiPart{{Text: t}}},
		}
	}
	var resp struct {
		Embeddings []geminiEmbedding `json:"embeddings"`
	}
	body := map[string]any{"requests": reqs}
	if err := g.post(ctx, geminiEmbedModel+":batchEmbedContents", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embed: %w: got %d vectors for %d texts",
			domain.ErrProviderUnavailable, len(resp.Embeddings), len(texts))
	}
	vecs := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		vecs[i] = e.Values
	}
	return vecs, nil
}

// Generate runs one generateContent call at temperature zero.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"contents": []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		"generationConfig": map[string]any{
			"temperature": 0,
		},
	}
	var resp struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := g.post(ctx, geminiChatModel+":generateContent", body, &resp); err != nil {
		return "", fmt.Errorf("gemini generate: %w: %w", domain.ErrGeneration, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini generate: %w: empty candidates", domain.ErrGeneration)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (g *Gemini) post(ctx context.Context, method string, body, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/models/%s?key=%s", g.baseURL, method, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gemini %s: %w: %w", method, domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gemini %s: %w: status %s", method, domain.ErrProviderUnavailable, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
