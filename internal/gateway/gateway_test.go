// ABOUTME: Tests for the chat-completion gateway
// ABOUTME: Runs against a local httptest server speaking the OpenAI wire format
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL+"/v1", "sk-test", 5*time.Second)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv, client
}

func completionJSON(content string) string {
	resp := map[string]any{
		"id":      "cmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New("https://example.com/v1", "", time.Second); err == nil {
		t.Error("Expected error for empty API key")
	}
}

func TestComplete_ReturnsContent(t *testing.T) {
	var gotBody map[string]any
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionJSON("generated text")))
	})

	got, err := client.Complete(context.Background(), Request{
		Messages:    []Message{{Role: "user", Content: "prompt"}},
		Model:       "test-model",
		Temperature: 0.2,
		MaxTokens:   100,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "generated text" {
		t.Errorf("Complete() = %q", got)
	}

	if gotBody["model"] != "test-model" {
		t.Errorf("request model = %v", gotBody["model"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("request carried %d messages, want 1", len(msgs))
	}
}

func TestComplete_NonSuccessStatus(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit_error"}}`))
	})

	_, err := client.Complete(context.Background(), Request{Model: "m"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusTooManyRequests {
		t.Errorf("Code = %d, want 429", statusErr.Code)
	}
	if !strings.Contains(statusErr.Body, "rate limited") {
		t.Errorf("Body = %q, want upstream message", statusErr.Body)
	}
}

func TestComplete_TruncatesErrorBody(t *testing.T) {
	long := strings.Repeat("x", 5000)
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error": {"message": "` + long + `"}}`))
	})

	_, err := client.Complete(context.Background(), Request{Model: "m"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if len(statusErr.Body) > maxErrorBody {
		t.Errorf("Body length = %d, want <= %d", len(statusErr.Body), maxErrorBody)
	}
}

func TestComplete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(completionJSON("late")))
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL+"/v1", "sk-test", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.Complete(context.Background(), Request{Model: "m"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","choices":[]}`))
	})

	if _, err := client.Complete(context.Background(), Request{Model: "m"}); err == nil {
		t.Error("Expected error for empty choices")
	}
}

func TestStatusError_Message(t *testing.T) {
	err := &StatusError{Code: 503, Body: "overloaded"}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "overloaded") {
		t.Errorf("Error() = %q", err.Error())
	}
}
