package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openhalls/campuswatch/src/shared/webclient"
)

type openAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	defaults   Options
}

func newOpenAIClient(cfg FactoryConfig) *openAIClient {
	return &openAIClient{
		apiKey:     cfg.OpenAIKey,
		baseURL:    "https://api.openai.com/v1/chat/completions",
		httpClient: webclient.NewDefault(60 * time.Second),
		defaults: Options{
			Model:        valueOrDefault(cfg.Model, "gpt-4o-mini"),
			Temperature:  orFloat(cfg.Temperature, 0.1),
			MaxTokens:    orInt(cfg.MaxTokens, 200),
			SystemPrompt: cfg.SystemPrompt,
		},
	}
}

func (c *openAIClient) Complete(ctx context.Context, content string, opts Options) (string, error) {
	merged := c.merge(opts)
	messages := []map[string]string{
		{"role": "system", "content": merged.SystemPrompt},
		{"role": "user", "content": content},
	}
	reqBody := map[string]interface{}{
		"model":           merged.Model,
		"messages":        messages,
		"temperature":     merged.Temperature,
		"max_tokens":      merged.MaxTokens,
		"response_format": map[string]string{"type": "json_object"},
	}
	b, _ := json.Marshal(reqBody)
	status, body, err := webclient.DoWithRetry(ctx, judgeAttempts, judgeRetryDelay, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(b))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return 0, nil, err
		}
		return resp.StatusCode, raw, nil
	})
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("openAI API error (%d): %s", status, string(body))
	}
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return result.Choices[0].Message.Content, nil
}

func (c *openAIClient) merge(opts Options) Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxTokens != 0 {
		out.MaxTokens = opts.MaxTokens
	}
	if opts.SystemPrompt != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	return out
}
