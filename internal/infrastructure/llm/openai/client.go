// Package openai provides a Detector implementation using OpenAI chat completions.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/ports"
	"github.com/ersonp/deckcheck/internal/infrastructure/config"
	"github.com/ersonp/deckcheck/internal/infrastructure/llm"
)

// Name is the backend identifier reported in analysis results.
const Name = config.ProviderOpenAI

// Client implements ports.Detector using OpenAI.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

var _ ports.Detector = (*Client)(nil)

// NewClient creates a new OpenAI detector.
func NewClient(cfg config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.TimeoutSeconds > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}

	model := config.DefaultModel(config.ProviderOpenAI)
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
	}, nil
}

// Name returns the backend identifier.
func (c *Client) Name() string {
	return Name
}

// Detect asks the model for inconsistencies across the slides.
func (c *Client) Detect(ctx context.Context, slides []entities.SlideContent) ([]entities.Inconsistency, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: llm.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: llm.BuildPrompt(slides),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	findings, err := llm.ParseFindings(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("OpenAI response: %w", err)
	}
	return findings, nil
}
