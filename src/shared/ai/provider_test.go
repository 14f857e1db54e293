package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompleteRetriesRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"shouldApprove\": true}"}}]}`))
	}))
	defer srv.Close()

	c := newOpenAIClient(FactoryConfig{OpenAIKey: "test-key"})
	c.baseURL = srv.URL

	out, err := c.Complete(context.Background(), "some post", Options{})
	require.NoError(t, err)
	assert.Contains(t, out, "shouldApprove")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "429 must be retried")
}

func TestOpenAICompleteHardErrorIsTerminal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	c := newOpenAIClient(FactoryConfig{OpenAIKey: "bad-key"})
	c.baseURL = srv.URL

	_, err := c.Complete(context.Background(), "some post", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "auth failures must not be retried")
}

func TestClaudeCompleteRetriesServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"text":"{\"shouldApprove\": false, \"flagReason\": \"spam\"}"}]}`))
	}))
	defer srv.Close()

	c := newClaudeClient(FactoryConfig{Provider: "claude", ClaudeKey: "test-key"})
	c.baseURL = srv.URL

	out, err := c.Complete(context.Background(), "buy now!!!", Options{})
	require.NoError(t, err)
	assert.Contains(t, out, "spam")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "503 must be retried")
}
