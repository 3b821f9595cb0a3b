package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/llm"
	"github.com/agentciril/portfolio-chat/models"
)

// Low-randomness decoding keeps the persona factual; the token limit bounds
// answer length.
const (
	generationTemperature = 0.3
	generationMaxTokens   = 500
)

// User-facing fallbacks, one per failure category.
const (
	apologyService     = "I'm sorry, I couldn't generate a response at the moment due to an API error. Please try again later."
	apologyConnection  = "I'm sorry, I couldn't connect to the response service. Please check your internet connection and try again."
	apologyRateLimited = "I'm sorry, the service is currently experiencing high demand. Please try again in a few moments."
	apologyGeneric     = "I'm sorry, I couldn't generate a response at the moment. Please try again later."
	apologyEmpty       = "I apologize, but I couldn't formulate a proper response. Could we try a different question?"
)

// GenerateService produces the persona-constrained answer for a visitor
// query. It always returns displayable text; language-model failures are
// mapped to apology messages rather than propagated.
type GenerateService interface {
	GenerateResponse(ctx context.Context, query string, pc models.PromptContext) string
}

type generateServiceImpl struct {
	client llm.Client
	logger *zap.Logger
}

func NewGenerateService(client llm.Client, logger *zap.Logger) GenerateService {
	return &generateServiceImpl{client: client, logger: logger}
}

func (g *generateServiceImpl) GenerateResponse(ctx context.Context, query string, pc models.PromptContext) string {
	systemPrompt := BuildSystemPrompt(pc)
	answer, err := g.client.Complete(ctx, systemPrompt, query, generationTemperature, generationMaxTokens)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrRateLimited):
			g.logger.Warn("language model rate limited", zap.Error(err))
			return apologyRateLimited
		case errors.Is(err, llm.ErrConnection):
			g.logger.Error("language model connection failed", zap.Error(err))
			return apologyConnection
		case errors.Is(err, llm.ErrService):
			g.logger.Error("language model service error", zap.Error(err))
			return apologyService
		default:
			g.logger.Error("failed to generate response", zap.Error(err))
			return apologyGeneric
		}
	}
	if strings.TrimSpace(answer) == "" {
		g.logger.Warn("language model returned an empty answer")
		return apologyEmpty
	}
	return answer
}
