package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/capdrop/capdrop/pkg/cache"
	"github.com/capdrop/capdrop/pkg/captions"
	"github.com/capdrop/capdrop/pkg/runs"
)

// newTestServer builds a server over a temp caption tree and a file-backed
// run store.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("cat.txt", "a cat, a hat, outdoors")
	write("dogs/dog.caption", "a dog, a log")
	write("notes.md", "not a caption")

	source, err := captions.NewSource(dir)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	store, err := runs.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return New(Config{Source: source, Store: store})
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding %s %s response: %v", method, target, err)
		}
	}
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestListCaptions(t *testing.T) {
	h := newTestServer(t).Handler()

	var resp struct {
		Files []captions.File `json:"files"`
		Count int             `json:"count"`
	}
	rec := doJSON(t, h, http.MethodGet, "/api/captions", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2 (md file must be skipped)", resp.Count)
	}
	if resp.Files[0].FileName != "cat.txt" {
		t.Errorf("first file = %q, want cat.txt", resp.Files[0].FileName)
	}
}

func TestListCaptionsCached(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a, b"), 0o644); err != nil {
		t.Fatal(err)
	}
	source, err := captions.NewSource(dir)
	if err != nil {
		t.Fatal(err)
	}
	c := cache.NewMemoryCache()
	h := New(Config{Source: source, Cache: c}).Handler()

	doJSON(t, h, http.MethodGet, "/api/captions", nil, nil)
	if c.Len() != 1 {
		t.Fatalf("cache entries = %d after listing, want 1", c.Len())
	}

	var resp struct {
		Count int `json:"count"`
	}
	rec := doJSON(t, h, http.MethodGet, "/api/captions", nil, &resp)
	if rec.Code != http.StatusOK || resp.Count != 1 {
		t.Fatalf("cached listing: status %d count %d", rec.Code, resp.Count)
	}
}

func TestCaptionContent(t *testing.T) {
	h := newTestServer(t).Handler()

	var resp struct {
		Caption string `json:"caption"`
	}
	rec := doJSON(t, h, http.MethodGet, "/api/caption-content?path=cat.txt", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if resp.Caption != "a cat, a hat, outdoors" {
		t.Errorf("caption = %q", resp.Caption)
	}
}

func TestCaptionContentTraversalRejected(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := doJSON(t, h, http.MethodGet, "/api/caption-content?path=../../etc/passwd", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTransform(t *testing.T) {
	h := newTestServer(t).Handler()

	var resp struct {
		Result string `json:"result"`
	}
	rec := doJSON(t, h, http.MethodPost, "/api/transform", map[string]any{
		"caption":      "a, b, c",
		"operation":    "dropout",
		"dropout_rate": 0.0,
	}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if resp.Result != "a, b, c" {
		t.Errorf("result = %q, want unchanged caption at rate 0", resp.Result)
	}
}

func TestTransformUnknownOperation(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := doJSON(t, h, http.MethodPost, "/api/transform", map[string]any{
		"caption":   "a, b",
		"operation": "reverse",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "INVALID_OPERATION" {
		t.Errorf("code = %q, want INVALID_OPERATION", body.Error.Code)
	}
}

func TestSimulateRecordsRun(t *testing.T) {
	h := newTestServer(t).Handler()

	var resp struct {
		Steps []string `json:"steps"`
		RunID string   `json:"run_id"`
	}
	rec := doJSON(t, h, http.MethodPost, "/api/simulate", map[string]any{
		"caption":   "a, b, c",
		"operation": "shuffle",
		"use_seed":  true,
		"seed":      42,
		"steps":     10,
	}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if len(resp.Steps) != 10 {
		t.Fatalf("len(steps) = %d, want 10", len(resp.Steps))
	}
	if resp.RunID == "" {
		t.Fatal("simulate did not record a run")
	}

	var run runs.Run
	rec = doJSON(t, h, http.MethodGet, "/api/runs/"+resp.RunID, nil, &run)
	if rec.Code != http.StatusOK {
		t.Fatalf("get run status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if run.Operation != "shuffle" {
		t.Errorf("run operation = %q, want shuffle", run.Operation)
	}
	if run.Options.StepCount != 10 {
		t.Errorf("run step count = %d, want 10", run.Options.StepCount)
	}

	var list struct {
		Count int `json:"count"`
	}
	rec = doJSON(t, h, http.MethodGet, "/api/runs", nil, &list)
	if rec.Code != http.StatusOK {
		t.Fatalf("list runs status = %d: %s", rec.Code, rec.Body)
	}
	if list.Count != 1 {
		t.Errorf("run count = %d, want 1", list.Count)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/runs/"+resp.RunID, nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete run status = %d, want 204", rec.Code)
	}
}

func TestGetRunNotFound(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := doJSON(t, h, http.MethodGet, "/api/runs/no-such-run", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body)
	}
}

func TestRunsDisabledWithoutStore(t *testing.T) {
	source, err := captions.NewSource(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := New(Config{Source: source}).Handler()
	rec := doJSON(t, h, http.MethodGet, "/api/runs", nil, nil)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501: %s", rec.Code, rec.Body)
	}
}
