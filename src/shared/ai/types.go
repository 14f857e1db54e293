package ai

import (
	"context"
	"time"
)

// Upstream judge calls retry transient failures (429/5xx) a couple of times
// before giving up; the gateway's fail-open handling takes over after that.
const (
	judgeAttempts   = 3
	judgeRetryDelay = 500 * time.Millisecond
)

// Options influence a single completion call. Zero values fall back to the
// client defaults configured at construction time.
type Options struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// Client is a provider-agnostic text judge. Complete sends the system policy
// plus user content and returns the raw model output.
type Client interface {
	Complete(ctx context.Context, content string, opts Options) (string, error)
}

func valueOrDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orFloat(v, def float64) float64 {
	if v != 0 {
		return v
	}
	return def
}

func orInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}
