package services

import "context"

// TextGenerator is the generative text model the requester talks to.
type TextGenerator interface {
	// Generate returns the model's text for prompt, or a *ProviderError.
	Generate(ctx context.Context, prompt string) (string, error)
}
