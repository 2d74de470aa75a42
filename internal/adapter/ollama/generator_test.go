package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"finrag-orchestrator/internal/domain"
)

func TestGenerator_Generate(t *testing.T) {
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		resp := chatResponse{Done: true}
		resp.Message.Content = "  You spent 350.00 last month.  "
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	g := NewGenerator(server.URL, "test-model", nil)
	text, err := g.Generate(context.Background(), "system rules", "question", domain.GenerateOptions{
		Temperature: 0.2,
		MaxTokens:   768,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "You spent 350.00 last month." {
		t.Fatalf("unexpected text: %q", text)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "system rules" {
		t.Fatalf("unexpected system message: %+v", gotReq.Messages[0])
	}
	if gotReq.Messages[1].Role != "user" || gotReq.Messages[1].Content != "question" {
		t.Fatalf("unexpected user message: %+v", gotReq.Messages[1])
	}
	if gotReq.Options["temperature"] != 0.2 {
		t.Fatalf("expected temperature 0.2, got %v", gotReq.Options["temperature"])
	}
	if gotReq.Options["num_predict"] != float64(768) {
		t.Fatalf("expected num_predict 768, got %v", gotReq.Options["num_predict"])
	}
}

func TestGenerator_OmitsTokenCapWhenUnset(t *testing.T) {
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(chatResponse{Done: true})
	}))
	defer server.Close()

	g := NewGenerator(server.URL, "test-model", nil)
	_, err := g.Generate(context.Background(), "s", "u", domain.GenerateOptions{Temperature: 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := gotReq.Options["num_predict"]; ok {
		t.Fatal("num_predict should be omitted when MaxTokens is zero")
	}
}

func TestGenerator_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	g := NewGenerator(server.URL, "test-model", nil)
	if _, err := g.Generate(context.Background(), "s", "u", domain.GenerateOptions{}); err == nil {
		t.Fatal("expected error on 502 response")
	}
}
