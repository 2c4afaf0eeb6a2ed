package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("empty model response")
	// ErrGeneratorUnavailable is returned by operations that need a text
	// generator when none is configured.
	ErrGeneratorUnavailable = errors.New("text generator not configured")
)

// ProviderError reports a failed call to the text generation provider.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
