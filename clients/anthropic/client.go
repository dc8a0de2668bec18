// Package anthropic implements the clients.AnthropicClient interface using
// the official Anthropic SDK.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/chrisw-xceleration/rewardstation-poc/clients"
)

type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicClient creates a Claude Messages API client
func NewAnthropicClient(apiKey, model string) clients.AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

// CreateMessage sends a single-turn prompt and returns the text response
func (c *AnthropicClient) CreateMessage(ctx context.Context, prompt string, maxTokens int) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(0.7),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude message creation failed: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude returned empty content")
	}

	return message.Content[0].Text, nil
}
