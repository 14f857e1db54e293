package ai

// Factory inputs to construct a client without leaking provider details.
type FactoryConfig struct {
	Provider     string // "openai" or "claude"
	OpenAIKey    string
	ClaudeKey    string
	SystemPrompt string
	// Defaults
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewClient returns a provider-agnostic AI client.
func NewClient(cfg FactoryConfig) Client {
	switch cfg.Provider {
	case "claude":
		return newClaudeClient(cfg)
	default:
		return newOpenAIClient(cfg)
	}
}

// HasCredentials reports whether the config carries a usable API key for the
// selected provider.
func (cfg FactoryConfig) HasCredentials() bool {
	if cfg.Provider == "claude" {
		return cfg.ClaudeKey != ""
	}
	return cfg.OpenAIKey != ""
}
