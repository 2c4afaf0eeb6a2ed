package services

import (
	"context"
	"strings"

	"scent-enricher/backend/internal/enrich"
	"scent-enricher/backend/internal/logging"
)

// Requester asks the text generator about a single substance.
type Requester struct {
	gen     TextGenerator
	log     *logging.Logger
	metrics *Metrics
}

// NewRequester creates a new Requester.
func NewRequester(gen TextGenerator, log *logging.Logger, metrics *Metrics) *Requester {
	return &Requester{gen: gen, log: log, metrics: metrics}
}

// Request returns the model's trimmed text for name. Any provider failure is
// logged and yields "", which parses to no fields. There is no retry.
func (r *Requester) Request(ctx context.Context, name string) string {
	text, err := r.gen.Generate(ctx, enrich.BuildPrompt(name))
	if err != nil {
		r.metrics.recordProviderFailure(ctx)
		r.log.Error("text generation failed", "substance", name, "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}
