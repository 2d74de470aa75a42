package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbedder_Encode(t *testing.T) {
	var gotPath string
	var gotReq embedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(embedResponse{
			Embeddings: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		})
	}))
	defer server.Close()

	e := NewEmbedder(server.URL, "test-model", nil)
	vectors, err := e.Encode(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/embed" {
		t.Fatalf("expected /api/embed, got %s", gotPath)
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("expected model test-model, got %s", gotReq.Model)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if vectors[0][1] != 0.2 {
		t.Fatalf("expected 0.2, got %v", vectors[0][1])
	}
}

func TestEmbedder_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	e := NewEmbedder(server.URL, "test-model", nil)
	if _, err := e.Encode(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestEmbedder_Unreachable(t *testing.T) {
	e := NewEmbedder("http://127.0.0.1:1", "test-model", nil)
	if _, err := e.Encode(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error when endpoint is unreachable")
	}
}
