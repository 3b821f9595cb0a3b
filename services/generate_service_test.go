package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/llm"
	"github.com/agentciril/portfolio-chat/models"
)

func testPromptContext() models.PromptContext {
	return models.PromptContext{
		PersonaName:  "Grace",
		ProfileBlock: "NAME: Grace",
		HistoryBlock: "",
		ContextBlock: "BIO: Writes compilers.",
	}
}

func TestGenerateResponseReturnsModelAnswer(t *testing.T) {
	client := &fakeLLM{answer: "I mostly work on compilers."}
	svc := NewGenerateService(client, zap.NewNop())

	answer := svc.GenerateResponse(context.Background(), "What do you do?", testPromptContext())
	require.Equal(t, "I mostly work on compilers.", answer)
	require.Equal(t, "What do you do?", client.lastUser)
	require.True(t, strings.Contains(client.lastSystem, "Grace"))
	require.True(t, strings.Contains(client.lastSystem, "BIO: Writes compilers."))
}

func TestGenerateResponseRateLimitApology(t *testing.T) {
	client := &fakeLLM{completeErr: fmt.Errorf("chat completion: %w", llm.ErrRateLimited)}
	svc := NewGenerateService(client, zap.NewNop())

	answer := svc.GenerateResponse(context.Background(), "hi", testPromptContext())
	require.Equal(t, "I'm sorry, the service is currently experiencing high demand. Please try again in a few moments.", answer)
}

func TestGenerateResponseConnectionApology(t *testing.T) {
	client := &fakeLLM{completeErr: fmt.Errorf("chat completion: %w", llm.ErrConnection)}
	svc := NewGenerateService(client, zap.NewNop())

	answer := svc.GenerateResponse(context.Background(), "hi", testPromptContext())
	require.Equal(t, "I'm sorry, I couldn't connect to the response service. Please check your internet connection and try again.", answer)
}

func TestGenerateResponseServiceApology(t *testing.T) {
	client := &fakeLLM{completeErr: fmt.Errorf("chat completion: %w", llm.ErrService)}
	svc := NewGenerateService(client, zap.NewNop())

	answer := svc.GenerateResponse(context.Background(), "hi", testPromptContext())
	require.Equal(t, "I'm sorry, I couldn't generate a response at the moment due to an API error. Please try again later.", answer)
}

func TestGenerateResponseGenericApology(t *testing.T) {
	client := &fakeLLM{completeErr: fmt.Errorf("something unexpected")}
	svc := NewGenerateService(client, zap.NewNop())

	answer := svc.GenerateResponse(context.Background(), "hi", testPromptContext())
	require.Equal(t, "I'm sorry, I couldn't generate a response at the moment. Please try again later.", answer)
}

func TestGenerateResponseEmptyAnswerApology(t *testing.T) {
	client := &fakeLLM{answer: "  \n "}
	svc := NewGenerateService(client, zap.NewNop())

	answer := svc.GenerateResponse(context.Background(), "hi", testPromptContext())
	require.Equal(t, "I apologize, but I couldn't formulate a proper response. Could we try a different question?", answer)
}
