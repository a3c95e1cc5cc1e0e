package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/LeitorAI/leitor-mvp/engine/config"
	"github.com/LeitorAI/leitor-mvp/engine/domain"
)

func TestNew_SelectsBackend(t *testing.T) {
	emb, gen, err := New(&config.Config{Provider: config.ProviderOpenAI, OpenAIKey: "k"})
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	if emb.Name() != "openai" || gen == nil {
		t.Errorf("unexpected openai provider: %s", emb.Name())
	}

	emb, _, err = New(&config.Config{Provider: config.ProviderGemini, GoogleKey: "k"})
	if err != nil {
		t.Fatalf("gemini: %v", err)
	}
	if emb.Name() != "gemini" {
		t.Errorf("unexpected gemini provider: %s", emb.Name())
	}

	if _, _, err = New(&config.Config{Provider: "anthropic"}); !errors.Is(err, domain.ErrConfig) {
		t.Errorf("expected ErrConfig for unknown provider, got %v", err)
	}
}

func TestProviders_DifferInDimensionOnly(t *testing.T) {
	o := NewOpenAI("k")
	g := NewGemini("k")
	if o.Dimension() == g.Dimension() {
		t.Errorf("expected distinct dimensions, both %d", o.Dimension())
	}
}

// --- OpenAI ---

func openAITestClient(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL
	return NewOpenAIWithConfig(cfg)
}

func TestOpenAI_EmbedBatch(t *testing.T) {
	c := openAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		resp := map[string]any{"data": []map[string]any{
			{"index": 1, "embedding": []float32{0.3, 0.4}},
			{"index": 0, "embedding": []float32{0.1, 0.2}},
		}}
		json.NewEncoder(w).Encode(resp)
	})

	vecs, err := c.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	// Order restored from the index field, not response order.
	if vecs[0][0] != 0.1 || vecs[1][0] != 0.3 {
		t.Errorf("batch order wrong: %v", vecs)
	}
}

func TestOpenAI_EmbedBackendDown(t *testing.T) {
	c := openAITestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := c.Embed(context.Background(), "texto")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestOpenAI_Generate(t *testing.T) {
	c := openAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 1 || req.Messages[0].Content != "PROMPT" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "resposta"}},
			},
		})
	})

	got, err := c.Generate(context.Background(), "PROMPT")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "resposta" {
		t.Errorf("got %q", got)
	}
}

// --- Gemini ---

func geminiTestClient(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeminiWithBaseURL("test-key", srv.URL)
}

func TestGemini_Embed(t *testing.T) {
	c := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"embedding": map[string]any{"values": []float32{0.5, 0.6}},
		})
	})

	vec, err := c.Embed(context.Background(), "texto")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.5 {
		t.Errorf("unexpected vector: %v", vec)
	}
}

func TestGemini_EmbedBatch(t *testing.T) {
	c := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Requests []geminiEmbedRequest `json:"requests"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		out := make([]map[string]any, len(req.Requests))
		for i := range req.Requests {
			out[i] = map[string]any{"values": []float32{float32(i)}}
		}
		json.NewEncoder(w).Encode(map[string]any{"embeddings": out})
	})

	vecs, err := c.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != 3 || vecs[2][0] != 2 {
		t.Errorf("unexpected vectors: %v", vecs)
	}
}

func TestGemini_GenerateAndErrors(t *testing.T) {
	c := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			GenerationConfig struct {
				Temperature *float64 `json:"temperature"`
			} `json:"generationConfig"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.GenerationConfig.Temperature == nil || *req.GenerationConfig.Temperature != 0 {
			t.Errorf("temperature not pinned to zero: %v", req.GenerationConfig.Temperature)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "resposta"}}}},
			},
		})
	})

	got, err := c.Generate(context.Background(), "PROMPT")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "resposta" {
		t.Errorf("got %q", got)
	}

	down := geminiTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	})
	if _, err := down.Generate(context.Background(), "p"); !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
	if _, err := down.Embed(context.Background(), "p"); !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}
