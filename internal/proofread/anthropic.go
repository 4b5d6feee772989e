package proofread

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 8192

// implements Model using Anthropic Claude
type AnthropicModel struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func NewAnthropicModel(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*AnthropicModel, error) {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &AnthropicModel{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (m *AnthropicModel) Name() string {
	return string(ProviderAnthropic) + "/" + string(m.model)
}

func (m *AnthropicModel) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := m.client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:     m.model,
			MaxTokens: m.maxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(prompt),
				),
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	if message == nil || len(message.Content) == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	if responseText == "" {
		return "", fmt.Errorf("no text in Anthropic response")
	}
	return responseText, nil
}
