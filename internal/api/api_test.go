package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func fastRetry(attempts int) *RetryConfig {
	return &RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     2 * time.Millisecond,
	}
}

func TestDoWithRetryRecoversFromServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm failed: %v", err)
		}
		if got := r.PostForm.Get("class"); got != "otoco" {
			t.Errorf("Retried request lost its body, class = %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	form := url.Values{"class": {"otoco"}}
	req := NewRequest(http.MethodPost, "/orders").WithContext(context.Background()).WithForm(form)

	resp, err := c.DoWithRetry(req, fastRetry(3))
	if err != nil {
		t.Fatalf("DoWithRetry failed after recovery: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
}

func TestDoWithRetryDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":{"error":"stop price invalid"}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	req := NewRequest(http.MethodPost, "/orders").WithContext(context.Background()).WithForm(url.Values{})

	resp, err := c.DoWithRetry(req, fastRetry(3))
	if err == nil {
		t.Fatal("Expected an error for a 400 answer")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected the 400 response back, got %+v", resp)
	}
	if calls != 1 {
		t.Errorf("Client errors must not be retried, got %d attempts", calls)
	}
}

func TestDoWithRetryExhaustionReturnsLastResponse(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	req := NewRequest(http.MethodGet, "/quote").WithContext(context.Background())

	resp, err := c.DoWithRetry(req, fastRetry(2))
	if err == nil {
		t.Fatal("Expected an exhaustion error")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("Expected the last 503 response, got %+v", resp)
	}
	if calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", calls)
	}
}
