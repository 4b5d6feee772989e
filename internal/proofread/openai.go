package proofread

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Model using OpenAI Chat Completions
type OpenAIModel struct {
	client openai.Client
	model  string
}

func NewOpenAIModel(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAIModel, error) {
	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "gpt-5-mini"
	}

	return &OpenAIModel{
		client: client,
		model:  model,
	}, nil
}

func (m *OpenAIModel) Name() string {
	return string(ProviderOpenAI) + "/" + m.model
}

func (m *OpenAIModel) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := m.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			Model: m.model,
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	responseText := completion.Choices[0].Message.Content
	if responseText == "" {
		return "", fmt.Errorf("no text in OpenAI response")
	}
	return responseText, nil
}
