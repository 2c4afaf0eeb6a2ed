package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"scent-enricher/backend/internal/enrich"
	"scent-enricher/backend/internal/logging"
	"scent-enricher/backend/internal/repository"
	"scent-enricher/backend/pkg/models"
)

// maxAttemptsPerRun bounds how often one substance is tried in a single run.
const maxAttemptsPerRun = 3

// EnrichmentService drives the claim, request, parse and update cycle.
type EnrichmentService struct {
	store     repository.SubstanceStore
	claimer   *Claimer
	requester *Requester
	updater   *Updater
	metrics   *Metrics
	log       *logging.Logger
}

// NewEnrichmentService creates a new EnrichmentService. gen may be nil, in
// which case only the operations that do not call the model are available.
func NewEnrichmentService(store repository.SubstanceStore, gen TextGenerator, log *logging.Logger, metrics *Metrics) *EnrichmentService {
	s := &EnrichmentService{
		store:   store,
		claimer: NewClaimer(store, log),
		updater: NewUpdater(store, log, metrics),
		metrics: metrics,
		log:     log,
	}
	if gen != nil {
		s.requester = NewRequester(gen, log, metrics)
	}
	return s
}

// AutoProcess enriches unprocessed substances until none remain. A failing
// row never stops the run: the claimer hands it back and it is tried again.
// The loop ends early when ctx is done, or when one substance has failed
// maxAttemptsPerRun times in this run.
func (s *EnrichmentService) AutoProcess(ctx context.Context) (*models.RunReport, error) {
	if s.requester == nil {
		return nil, ErrGeneratorUnavailable
	}

	report := &models.RunReport{
		RunID:   uuid.New().String(),
		Results: []models.EnrichmentResult{},
	}
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "enrichment.auto_process")
	defer span.End()
	s.metrics.recordRun(ctx)

	log := s.log.With("run_id", report.RunID)
	log.Info("auto-process started")

	attempts := 0
	failures := make(map[string]int)
	for {
		if err := ctx.Err(); err != nil {
			log.Warn("auto-process interrupted", "error", err)
			report.Interrupted = true
			break
		}

		name, ok := s.claimer.Next(ctx)
		if !ok {
			log.Info("no more unprocessed substances")
			break
		}
		if failures[name] >= maxAttemptsPerRun {
			log.Error("substance keeps failing, stopping", "substance", name, "attempts", failures[name])
			report.Interrupted = true
			break
		}
		if failures[name] > 0 {
			log.Warn("retrying substance", "substance", name, "previous_failures", failures[name])
		}

		attempts++
		log.Debug("processing substance", "substance", name)
		result, outcome := s.enrich(ctx, name)
		if !outcome.Success() {
			failures[name]++
			continue
		}
		delete(failures, name)
		report.Processed++
		report.Results = append(report.Results, result)
	}

	report.Message = fmt.Sprintf(
		"Processed unprocessed substances found during the run. Successfully updated %d records.",
		report.Processed)
	span.SetAttributes(
		attribute.Int("enrichment.attempted", attempts),
		attribute.Int("enrichment.processed", report.Processed),
	)
	log.Info("auto-process finished", "attempted", attempts, "processed", report.Processed)
	return report, nil
}

// EnrichOne runs request, parse and update for a single named substance.
func (s *EnrichmentService) EnrichOne(ctx context.Context, name string) (models.EnrichmentResult, Outcome, error) {
	if s.requester == nil {
		return models.EnrichmentResult{}, OutcomeFailed, ErrGeneratorUnavailable
	}
	result, outcome := s.enrich(ctx, strings.TrimSpace(name))
	return result, outcome, nil
}

func (s *EnrichmentService) enrich(ctx context.Context, name string) (models.EnrichmentResult, Outcome) {
	fields := enrich.ParseResponse(s.requester.Request(ctx, name))
	outcome := s.updater.Update(ctx, name, fields)
	return models.EnrichmentResult{
		Name:  name,
		Note:  fields.Note,
		Odour: fields.Odour,
		PH:    fields.PH,
	}, outcome
}

// BulkSave applies user-edited rows through the updater. Values are trimmed
// and blanks become absent; rows without a name are skipped.
func (s *EnrichmentService) BulkSave(ctx context.Context, batch models.Batch) *models.SaveReport {
	rows := batch.Rows()
	report := &models.SaveReport{Rows: rows}

	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			s.log.Warn("skipping row with missing substance name", "row", i)
			report.Skipped++
			continue
		}

		outcome := s.updater.Update(ctx, name, models.Fields{
			Note:  models.Optional(row.Note),
			Odour: models.Optional(row.Odour),
			PH:    models.Optional(row.PH),
		})
		if outcome.Success() {
			report.Saved++
		}
	}

	if report.Saved > 0 {
		report.Message = fmt.Sprintf("Successfully saved data for %d substances to the database.", report.Saved)
	} else {
		report.Message = fmt.Sprintf("Save operation completed. %d records were processed.", report.Saved)
	}
	return report
}

// GetSubstance returns the stored record for name.
func (s *EnrichmentService) GetSubstance(ctx context.Context, name string) (*models.Substance, error) {
	return s.store.GetRecord(ctx, strings.TrimSpace(name))
}
