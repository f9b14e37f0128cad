package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaRequiresEndpoint(t *testing.T) {
	if _, err := NewOllama(Settings{}); err == nil {
		t.Error("expected error without endpoint")
	}
}

func TestOllamaExtractEventInfo(t *testing.T) {
	var gotReq ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(ollamaResponse{
			Response: `{"title": "Weinfest", "location": {"name": "Marktplatz Selb"}}`,
		})
	}))
	defer srv.Close()

	p, err := NewOllama(Settings{Endpoint: srv.URL, Model: "test-model"})
	if err != nil {
		t.Fatal(err)
	}

	info, err := p.ExtractEventInfo(context.Background(), "Weinfest am Samstag in Selb", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Title != "Weinfest" {
		t.Errorf("unexpected title: %q", info.Title)
	}
	if info.Location == nil || info.Location.Name != "Marktplatz Selb" {
		t.Errorf("unexpected location: %+v", info.Location)
	}

	if gotReq.Model != "test-model" {
		t.Errorf("unexpected model: %q", gotReq.Model)
	}
	if gotReq.Format != "json" || gotReq.Stream {
		t.Errorf("expected non-streaming JSON mode, got %+v", gotReq)
	}
	if !strings.Contains(gotReq.Prompt, "Weinfest am Samstag") {
		t.Error("expected context text in prompt")
	}
	if !strings.Contains(gotReq.Prompt, "return ONLY JSON") {
		t.Error("expected default extraction prompt")
	}
}

func TestOllamaServerErrorIsExtractionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p, err := NewOllama(Settings{Endpoint: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.ExtractEventInfo(context.Background(), "text", ""); err == nil {
		t.Error("expected error on server failure")
	}
}
