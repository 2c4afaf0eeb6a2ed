package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "scent-enricher/backend/services"

// Metrics holds the enrichment counters. A nil *Metrics records nothing.
type Metrics struct {
	updates          metric.Int64Counter
	providerFailures metric.Int64Counter
	runs             metric.Int64Counter
}

// NewMetrics registers the counters on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	updates, err := meter.Int64Counter("enricher.updates",
		metric.WithDescription("Updater calls by outcome"))
	if err != nil {
		return nil, err
	}
	providerFailures, err := meter.Int64Counter("enricher.provider.failures",
		metric.WithDescription("Text generation calls that degraded to an empty result"))
	if err != nil {
		return nil, err
	}
	runs, err := meter.Int64Counter("enricher.runs",
		metric.WithDescription("Auto-process runs started"))
	if err != nil {
		return nil, err
	}
	return &Metrics{updates: updates, providerFailures: providerFailures, runs: runs}, nil
}

// NewGlobalMetrics registers the counters on the global meter provider.
func NewGlobalMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(instrumentationName))
}

func (m *Metrics) recordUpdate(ctx context.Context, outcome Outcome) {
	if m == nil {
		return
	}
	m.updates.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))
}

func (m *Metrics) recordProviderFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.providerFailures.Add(ctx, 1)
}

func (m *Metrics) recordRun(ctx context.Context) {
	if m == nil {
		return
	}
	m.runs.Add(ctx, 1)
}
