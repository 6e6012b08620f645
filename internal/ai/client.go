// Package ai talks to a language-model collaborator. A failed or empty
// reply is an error value; callers treat it as "no opinion", never as a
// reason to abort a run.
package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mwessel/papertrader/internal/config"
	"github.com/mwessel/papertrader/internal/logger"
)

// Client generates free text from a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// OpenAIClient is the production Client over any OpenAI-compatible API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	cfg    *config.Config
	logger *logger.Logger
}

func NewOpenAIClient(cfg *config.Config, log *logger.Logger) *OpenAIClient {
	ocfg := openai.DefaultConfig(cfg.AI.APIKey)
	if cfg.AI.BaseURL != "" {
		ocfg.BaseURL = cfg.AI.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(ocfg),
		model:  cfg.AI.Model,
		cfg:    cfg,
		logger: log,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.AITimeout())
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("model returned no text")
	}

	text := resp.Choices[0].Message.Content
	c.logger.Debug("AI response", "length", len(text))
	return text, nil
}
