package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"ragserve/config"
	"ragserve/internal/adapter/embedding"
	"ragserve/internal/adapter/store"
	"ragserve/internal/port"
	"ragserve/internal/usecase"
)

// fakeLLM is a canned generation backend for handler tests.
type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Generate(prompt string, opts port.GenerateOptions) (string, error) {
	return f.response, f.err
}
func (f *fakeLLM) EnsureModel() error { return nil }
func (f *fakeLLM) ModelName() string  { return "fake-model" }

func newTestServer(t *testing.T, generator *usecase.Generator) *Server {
	t.Helper()

	cfg := config.DefaultConfig()
	embedder := embedding.NewMockEmbedder(8)

	path := filepath.Join(t.TempDir(), "index.db")
	index, err := store.NewBoltVectorIndex(path, cfg.Index.Collection, embedder.Dimension())
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	t.Cleanup(func() { index.Close() })

	retriever := usecase.NewRetriever(embedder, index, cfg.Index.Collection, cfg.Retrieve.MaxTopK)
	return New(cfg, retriever, generator)
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	handler := newTestServer(t, nil).Handler()

	for _, path := range []string{"/", "/health"} {
		rec := doRequest(t, handler, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, rec.Code)
		}
		var resp healthResponse
		decodeBody(t, rec, &resp)
		if resp.Status != "healthy" || resp.AppName == "" || resp.Version == "" {
			t.Errorf("GET %s: unexpected health body: %+v", path, resp)
		}
	}
}

func TestAddDocument(t *testing.T) {
	handler := newTestServer(t, nil).Handler()

	rec := doRequest(t, handler, http.MethodPost, "/documents", map[string]any{
		"text":     "hello world",
		"metadata": map[string]any{"source": "test.txt"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp documentResponse
	decodeBody(t, rec, &resp)
	if resp.ID == "" {
		t.Error("expected non-empty document id")
	}
	if resp.Message == "" {
		t.Error("expected a success message")
	}
}

func TestAddDocumentValidation(t *testing.T) {
	handler := newTestServer(t, nil).Handler()

	for _, body := range []map[string]any{
		{"text": ""},
		{"text": "   "},
		{},
	} {
		rec := doRequest(t, handler, http.MethodPost, "/documents", body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("body %v: expected 422, got %d", body, rec.Code)
		}
	}
}

func TestQueryEndpoint(t *testing.T) {
	handler := newTestServer(t, nil).Handler()

	doRequest(t, handler, http.MethodPost, "/documents", map[string]any{"text": "alpha doc"})
	doRequest(t, handler, http.MethodPost, "/documents", map[string]any{"text": "beta doc"})

	rec := doRequest(t, handler, http.MethodPost, "/query", map[string]any{
		"query": "alpha doc",
		"top_k": 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp queryResponse
	decodeBody(t, rec, &resp)
	if resp.Query != "alpha doc" {
		t.Errorf("expected query echoed back, got %q", resp.Query)
	}
	if resp.Count != 1 || len(resp.Results) != 1 {
		t.Fatalf("expected exactly 1 result, got count=%d len=%d", resp.Count, len(resp.Results))
	}
	if resp.Results[0].Text != "alpha doc" {
		t.Errorf("expected exact-text self retrieval, got %q", resp.Results[0].Text)
	}
}

func TestQueryDefaultsTopK(t *testing.T) {
	handler := newTestServer(t, nil).Handler()

	for i := 0; i < 7; i++ {
		doRequest(t, handler, http.MethodPost, "/documents", map[string]any{
			"text": fmt.Sprintf("document %d", i),
		})
	}

	// Default top_k is 5.
	rec := doRequest(t, handler, http.MethodPost, "/query", map[string]any{"query": "document"})
	var resp queryResponse
	decodeBody(t, rec, &resp)
	if resp.Count != 5 {
		t.Errorf("expected default top_k=5 results, got %d", resp.Count)
	}
}

func TestQueryValidation(t *testing.T) {
	handler := newTestServer(t, nil).Handler()

	cases := []map[string]any{
		{"query": ""},
		{"query": "   "},
		{"query": "ok", "top_k": 0},
		{"query": "ok", "top_k": -1},
		{"query": "ok", "top_k": 21},
	}
	for _, body := range cases {
		rec := doRequest(t, handler, http.MethodPost, "/query", body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("body %v: expected 422, got %d", body, rec.Code)
		}
	}
}

func TestQueryEmptyCollection(t *testing.T) {
	handler := newTestServer(t, nil).Handler()

	rec := doRequest(t, handler, http.MethodPost, "/query", map[string]any{"query": "anything"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on empty collection, got %d", rec.Code)
	}
	var resp queryResponse
	decodeBody(t, rec, &resp)
	if resp.Count != 0 || len(resp.Results) != 0 {
		t.Errorf("expected empty results, got %+v", resp)
	}
}

func TestDeleteDocument(t *testing.T) {
	handler := newTestServer(t, nil).Handler()

	rec := doRequest(t, handler, http.MethodPost, "/documents", map[string]any{"text": "to delete"})
	var created documentResponse
	decodeBody(t, rec, &created)

	rec = doRequest(t, handler, http.MethodDelete, "/documents/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp deleteResponse
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Error("expected success=true for existing document")
	}

	// Not-found reports success=false with a 200, never a 404.
	rec = doRequest(t, handler, http.MethodDelete, "/documents/doc_999", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for missing id, got %d", rec.Code)
	}
	decodeBody(t, rec, &resp)
	if resp.Success {
		t.Error("expected success=false for missing document")
	}
}

func TestResetAndStats(t *testing.T) {
	handler := newTestServer(t, nil).Handler()

	doRequest(t, handler, http.MethodPost, "/documents", map[string]any{"text": "a"})
	doRequest(t, handler, http.MethodPost, "/documents", map[string]any{"text": "b"})

	rec := doRequest(t, handler, http.MethodGet, "/stats", nil)
	var stats statsResponse
	decodeBody(t, rec, &stats)
	if stats.TotalDocuments != 2 {
		t.Errorf("expected 2 documents, got %d", stats.TotalDocuments)
	}
	if stats.CollectionName == "" || stats.EmbeddingModel == "" {
		t.Errorf("incomplete stats: %+v", stats)
	}

	rec = doRequest(t, handler, http.MethodPost, "/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp deleteResponse
	decodeBody(t, rec, &resp)
	if !resp.Success {
		t.Error("expected reset success")
	}

	rec = doRequest(t, handler, http.MethodGet, "/stats", nil)
	decodeBody(t, rec, &stats)
	if stats.TotalDocuments != 0 {
		t.Errorf("expected 0 documents after reset, got %d", stats.TotalDocuments)
	}
}

func TestChatUnavailableWithoutGenerator(t *testing.T) {
	handler := newTestServer(t, nil).Handler()

	rec := doRequest(t, handler, http.MethodPost, "/chat", map[string]any{"query": "hello"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without generator, got %d", rec.Code)
	}
}

func TestChatValidation(t *testing.T) {
	// Validation fires before the availability check, so no generator needed.
	handler := newTestServer(t, nil).Handler()

	cases := []map[string]any{
		{"query": ""},
		{"query": "ok", "top_k": 0},
		{"query": "ok", "top_k": 11},
		{"query": "ok", "temperature": -0.1},
		{"query": "ok", "temperature": 1.5},
		{"query": "ok", "max_tokens": 49},
		{"query": "ok", "max_tokens": 2049},
	}
	for _, body := range cases {
		rec := doRequest(t, handler, http.MethodPost, "/chat", body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("body %v: expected 422, got %d", body, rec.Code)
		}
	}
}

func TestChatSuccess(t *testing.T) {
	generator := usecase.NewGenerator(&fakeLLM{response: "grounded answer"})
	srv := newTestServer(t, generator)
	handler := srv.Handler()

	doRequest(t, handler, http.MethodPost, "/documents", map[string]any{
		"text":     "context doc",
		"metadata": map[string]any{"source": "ctx.txt"},
	})

	rec := doRequest(t, handler, http.MethodPost, "/chat", map[string]any{
		"query":       "context doc",
		"top_k":       1,
		"temperature": 0.5,
		"max_tokens":  100,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp chatResponse
	decodeBody(t, rec, &resp)
	if resp.Response != "grounded answer" {
		t.Errorf("unexpected response: %q", resp.Response)
	}
	if resp.Model != "fake-model" {
		t.Errorf("unexpected model: %q", resp.Model)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].Text != "context doc" {
		t.Errorf("unexpected sources: %+v", resp.Sources)
	}
}

func TestChatBackendFailure(t *testing.T) {
	generator := usecase.NewGenerator(&fakeLLM{err: fmt.Errorf("model exploded")})
	handler := newTestServer(t, generator).Handler()

	rec := doRequest(t, handler, http.MethodPost, "/chat", map[string]any{"query": "hello"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on generic backend failure, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestServer(t, nil).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/documents", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS allow-origin header")
	}
}
