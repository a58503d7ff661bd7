// Package gemini provides a Detector implementation using the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/ports"
	"github.com/ersonp/deckcheck/internal/infrastructure/config"
	"github.com/ersonp/deckcheck/internal/infrastructure/llm"
)

// Name is the backend identifier reported in analysis results.
const Name = config.ProviderGemini

// Client implements ports.Detector using Gemini.
type Client struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

var _ ports.Detector = (*Client)(nil)

// NewClient creates a new Gemini detector.
func NewClient(ctx context.Context, cfg config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	if cfg.TimeoutSeconds > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := config.DefaultModel(config.ProviderGemini)
	if cfg.Model != "" {
		model = cfg.Model
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(cfg.Temperature)),
		ResponseMIMEType:  "application/json",
	}
	if cfg.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(cfg.MaxTokens)
	}

	return &Client{
		client: client,
		model:  model,
		config: genCfg,
	}, nil
}

// Name returns the backend identifier.
func (c *Client) Name() string {
	return Name
}

// Detect asks the model for inconsistencies across the slides.
func (c *Client) Detect(ctx context.Context, slides []entities.SlideContent) ([]entities.Inconsistency, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(llm.BuildPrompt(slides)), c.config)
	if err != nil {
		return nil, fmt.Errorf("calling Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, errors.New("no response from Gemini")
	}

	findings, err := llm.ParseFindings(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("Gemini response: %w", err)
	}
	return findings, nil
}
