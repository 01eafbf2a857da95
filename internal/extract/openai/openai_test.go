package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/api"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/store"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

func extractorFor(t *testing.T, srv *httptest.Server) *OpenAIExtractor {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg := &store.Config{}
	cfg.Extractor.Model = "gpt-4.1-nano-2025-04-14"
	cfg.Extractor.MaxTokens = 256
	e := NewOpenAIExtractor(cfg)
	e.api = api.NewClient(api.WithBaseURL(srv.URL))
	return e
}

func completionResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestExtractParsesModelAnswer(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(completionResponse(
			`{"symbol":"SPY","strike":"400","option_type":"Calls","expiration":"3/15","price":"1.25"}`))
	}))
	defer srv.Close()

	q, err := extractorFor(t, srv).Extract(context.Background(), "$SPY 400 Calls 3/15 $1.25")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if q == nil {
		t.Fatal("Expected a quote")
	}
	if q.Underlying != "SPY" || q.Kind != types.Call || q.Month != 3 || q.Day != 15 {
		t.Errorf("Unexpected quote %+v", q)
	}
	if q.Price.String() != "1.25" {
		t.Errorf("Expected price 1.25, got %s", q.Price)
	}

	if gotPath != "/v1/chat/completions" {
		t.Errorf("Unexpected path %s", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotBody["temperature"] != 0.0 {
		t.Errorf("Expected temperature 0, got %v", gotBody["temperature"])
	}
}

func TestExtractModelSaysNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(completionResponse("null"))
	}))
	defer srv.Close()

	q, err := extractorFor(t, srv).Extract(context.Background(), "good morning everyone")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if q != nil {
		t.Errorf("Expected no quote, got %+v", q)
	}
}

func TestExtractSkipsPercentMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Percent messages must not reach the model")
	}))
	defer srv.Close()

	q, err := extractorFor(t, srv).Extract(context.Background(), "$SPY up 25% from entry!")
	if err != nil || q != nil {
		t.Errorf("Expected nil, nil for a running update, got %+v, %v", q, err)
	}
}

func TestExtractHTTPErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := extractorFor(t, srv).Extract(context.Background(), "$SPY 400 Calls 3/15 $1.25"); err == nil {
		t.Fatal("Expected an error for a non-2xx model answer")
	}
}

func TestExtractMissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := &store.Config{}
	if _, err := NewOpenAIExtractor(cfg).Extract(context.Background(), "$SPY 400 Calls 3/15 $1.25"); err == nil {
		t.Fatal("Expected an error without an API key")
	}
}
