package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LeitorAI/leitor-mvp/engine/ingest"
)

type fakePipeline struct {
	summary ingest.Summary
	err     error
	gotPath string
}

func (f *fakePipeline) Run(_ context.Context, path string) (ingest.Summary, error) {
	f.gotPath = path
	return f.summary, f.err
}

type fakeAnswerer struct{ answer string }

func (f *fakeAnswerer) Answer(context.Context, string) string { return f.answer }

type fakeHealth struct{ err error }

func (f *fakeHealth) Health(context.Context) error { return f.err }

func newTestServer(p *fakePipeline, a *fakeAnswerer, h *fakeHealth) *server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newServer(p, a, h, "default.pdf", logger)
}

func TestHandleIngest_Success(t *testing.T) {
	p := &fakePipeline{summary: ingest.Summary{Source: "doc.pdf", Pages: 3, Chunks: 12}}
	srv := newTestServer(p, &fakeAnswerer{}, &fakeHealth{})

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader("")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp IngestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "success" || resp.ChunksCount != 12 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Message != "PDF processado com sucesso. 12 chunks criados." {
		t.Errorf("message: %q", resp.Message)
	}
	if p.gotPath != "default.pdf" {
		t.Errorf("expected configured path, got %q", p.gotPath)
	}
}

func TestHandleIngest_PathOverride(t *testing.T) {
	p := &fakePipeline{}
	srv := newTestServer(p, &fakeAnswerer{}, &fakeHealth{})

	body := strings.NewReader(`{"path":"outro.pdf"}`)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", body))

	if p.gotPath != "outro.pdf" {
		t.Errorf("expected override path, got %q", p.gotPath)
	}
}

func TestHandleIngest_Failure(t *testing.T) {
	p := &fakePipeline{err: errors.New("arquivo não encontrado")}
	srv := newTestServer(p, &fakeAnswerer{}, &fakeHealth{})

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingest", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}
	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.Contains(resp["detail"], "arquivo não encontrado") {
		t.Errorf("detail: %q", resp["detail"])
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakePipeline{}, &fakeAnswerer{}, &fakeHealth{})

	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["status"] != "healthy" || resp["database"] != "connected" {
		t.Errorf("body: %v", resp)
	}

	srv = newTestServer(&fakePipeline{}, &fakeAnswerer{}, &fakeHealth{err: errors.New("conn refused")})
	rec = httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", rec.Code)
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["status"] != "unhealthy" || resp["error"] == "" {
		t.Errorf("body: %v", resp)
	}
}

func TestHandleChat(t *testing.T) {
	srv := newTestServer(&fakePipeline{}, &fakeAnswerer{answer: "O faturamento foi R$10M."}, &fakeHealth{})

	body := strings.NewReader(`{"question":"qual o faturamento?"}`)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp ChatResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Answer != "O faturamento foi R$10M." {
		t.Errorf("answer: %q", resp.Answer)
	}
}

func TestHandleChat_BadRequests(t *testing.T) {
	srv := newTestServer(&fakePipeline{}, &fakeAnswerer{}, &fakeHealth{})

	for _, body := range []string{"not json", `{"question":"  "}`, `{}`} {
		rec := httptest.NewRecorder()
		srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status %d, want 400", body, rec.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakePipeline{summary: ingest.Summary{Chunks: 1}}, &fakeAnswerer{answer: "ok"}, &fakeHealth{})
	h := srv.routes()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/ingest", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"q"}`)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out := rec.Body.String()
	if !strings.Contains(out, `ingests_total{result="success"} 1`) {
		t.Errorf("metrics missing ingest counter:\n%s", out)
	}
	if !strings.Contains(out, "questions_total 1") {
		t.Errorf("metrics missing question counter:\n%s", out)
	}
}
