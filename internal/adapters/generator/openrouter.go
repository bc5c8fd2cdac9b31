package generator

import (
	"bridgebot/internal/core/domain"
	"context"
	"errors"
	"fmt"

	"github.com/revrost/go-openrouter"
)

var errNoChoices = errors.New("openrouter returned no choices")

type OpenRouterClient interface {
	CreateChatCompletion(ctx context.Context,
		ccr openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error)
}

type OpenRouter struct {
	client       OpenRouterClient
	model        string
	systemPrompt string
}

func NewOpenRouter(apiKey, model, systemPrompt string) *OpenRouter {
	return &OpenRouter{
		model:        model,
		systemPrompt: systemPrompt,
		client: openrouter.NewClient(
			apiKey,
			openrouter.WithXTitle("bridgebot"),
		),
	}
}

func (c *OpenRouter) GenerateFromPrompt(ctx context.Context, prompts []domain.Prompt) (string, error) {
	if len(prompts) == 0 {
		return "", domain.ErrEmptyPrompt
	}

	messages := make([]openrouter.ChatCompletionMessage, 0, len(prompts)+1)
	if c.systemPrompt != "" {
		messages = append(messages, openrouter.ChatCompletionMessage{
			Role: openrouter.ChatMessageRoleSystem,
			Content: openrouter.Content{
				Text: c.systemPrompt,
			},
		})
	}

	for _, prompt := range prompts {
		role := openrouter.ChatMessageRoleUser
		if prompt.Author == domain.AuthorAssistant {
			role = openrouter.ChatMessageRoleAssistant
		}

		messages = append(messages, openrouter.ChatCompletionMessage{
			Role: role,
			Content: openrouter.Content{
				Text: prompt.Prompt,
			},
		})
	}

	ccr := openrouter.ChatCompletionRequest{
		Messages: messages,
		Model:    c.model,
	}

	resp, err := c.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return "", fmt.Errorf("openrouter API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}

	return resp.Choices[0].Message.Content.Text, nil
}
