package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"

	"scent-enricher/backend/internal/config"
)

// GeminiClient is a Gemini implementation of the TextGenerator interface.
type GeminiClient struct {
	client   *genai.Client
	model    string
	generate *genai.GenerateContentConfig
	timeout  time.Duration
}

// NewGeminiClient creates a new GeminiClient.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, &ProviderError{Op: "configure", Err: errors.New("api key is required")}
	}
	if cfg.Model == "" {
		return nil, &ProviderError{Op: "configure", Err: errors.New("model is required")}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ProviderError{Op: "configure", Err: err}
	}

	return &GeminiClient{
		client: client,
		model:  cfg.Model,
		generate: &genai.GenerateContentConfig{
			Temperature: ptrFloat32(float32(cfg.Temperature)),
		},
		timeout: cfg.Timeout(),
	}, nil
}

// Generate sends prompt to the model and returns its trimmed text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.generate)
	if err != nil {
		return "", &ProviderError{Op: "generate", Err: err}
	}
	if resp == nil {
		return "", &ProviderError{Op: "generate", Err: ErrEmptyResponse}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &ProviderError{Op: "generate", Err: ErrEmptyResponse}
	}
	return text, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}

func ptrFloat32(v float32) *float32 {
	return &v
}
