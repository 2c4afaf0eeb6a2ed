package services

import (
	"context"

	"scent-enricher/backend/internal/logging"
	"scent-enricher/backend/internal/repository"
)

// Claimer peeks at the next unprocessed substance. It does not lock the
// row, so it is only safe with a single caller.
type Claimer struct {
	store repository.SubstanceStore
	log   *logging.Logger
}

// NewClaimer creates a new Claimer.
func NewClaimer(store repository.SubstanceStore, log *logging.Logger) *Claimer {
	return &Claimer{store: store, log: log}
}

// Next returns one unprocessed name. ok is false when none remain or the
// store could not be queried.
func (c *Claimer) Next(ctx context.Context) (name string, ok bool) {
	name, ok, err := c.store.FetchOneUnprocessed(ctx)
	if err != nil {
		c.log.Error("fetching unprocessed substance failed", "error", err)
		return "", false
	}
	return name, ok
}
