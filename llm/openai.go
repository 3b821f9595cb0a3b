package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIChatModel  = openai.GPT4Turbo
	defaultOpenAIEmbedModel = "text-embedding-3-small"
)

type openAIClient struct {
	client     *openai.Client
	chatModel  string
	embedModel string
}

func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = defaultOpenAIChatModel
	}
	embedModel := cfg.EmbedModel
	if embedModel == "" {
		embedModel = defaultOpenAIEmbedModel
	}
	return &openAIClient{
		client:     openai.NewClient(cfg.APIKey),
		chatModel:  chatModel,
		embedModel: embedModel,
	}, nil
}

func (c *openAIClient) Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrService)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *openAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.embedModel),
		Input: []string{text},
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embedding data returned", ErrService)
	}
	raw := resp.Data[0].Embedding
	out := make([]float32, len(raw))
	for i := range raw {
		out[i] = float32(raw[i])
	}
	return out, nil
}

// classifyOpenAIError maps go-openai errors onto the package error
// categories. Anything that did not come back as an API-level error is
// treated as a connection failure.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return fmt.Errorf("%w: %v", ErrService, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return fmt.Errorf("%w: %v", ErrService, err)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}

func init() {
	Register("openai", newOpenAIClient)
}
