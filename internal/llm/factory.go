package llm

import (
	"fmt"
	"strings"

	"github.com/rubrica/rubrica/internal/model"
)

// NewProvider creates an LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - feedback disabled
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:         mc.Provider,
		Model:            mc.Model,
		APIKey:           mc.APIKey,
		BaseURL:          mc.BaseURL,
		Timeout:          mc.Timeout,
		StrictReferences: mc.StrictReferences,
		MaxTokens:        mc.MaxTokens,
		HTTPProxy:        mc.HTTPProxy,
		HTTPSProxy:       mc.HTTPSProxy,
		NoProxy:          mc.NoProxy,
	}
}
