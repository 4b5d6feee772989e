// Package proofread asks a language model to review transcript cues:
// terminology extraction, polished regeneration and free-form chat.
// Parsing of anything the model returns goes back through the subtitle
// package, so model output obeys the same lenient rules as user files.
package proofread

import (
	"context"
	"fmt"
	"strings"
)

// Model is a single-turn text completion backend.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// language model service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// ParseProvider validates a provider name from flags or config.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported provider %q: use gemini, openai, or anthropic", s)
	}
}

// EnvVar names the environment variable holding the provider API key.
func (p Provider) EnvVar() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "API_KEY"
	}
}

type Options struct {
	Model     string
	MaxTokens int64 // only used by providers that require it
}

// creates Model based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Model, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiModel(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAIModel(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicModel(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
