package port

import (
	"bridgebot/internal/core/domain"
	"context"
)

type TextGenerator interface {
	GenerateFromPrompt(ctx context.Context, prompts []domain.Prompt) (string, error)
}
