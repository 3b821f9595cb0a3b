package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiChatModel  = "gemini-2.5-flash"
	defaultGeminiEmbedModel = "text-embedding-004"
)

type geminiClient struct {
	client     *genai.Client
	chatModel  string
	embedModel string
}

func newGeminiClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = defaultGeminiChatModel
	}
	embedModel := cfg.EmbedModel
	if embedModel == "" {
		embedModel = defaultGeminiEmbedModel
	}
	return &geminiClient{
		client:     client,
		chatModel:  chatModel,
		embedModel: embedModel,
	}, nil
}

func (c *geminiClient) Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: int32(maxTokens),
	}
	if contents := genai.Text(system); len(contents) > 0 {
		config.SystemInstruction = contents[0]
	}
	result, err := c.client.Models.GenerateContent(ctx, c.chatModel, genai.Text(user), config)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: response has no candidates", ErrService)
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

func (c *geminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	result, err := c.client.Models.EmbedContent(ctx, c.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, classifyGeminiError(err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embedding data returned", ErrService)
	}
	return result.Embeddings[0].Values, nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return fmt.Errorf("%w: %v", ErrService, err)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}

func init() {
	Register("gemini", newGeminiClient)
}
