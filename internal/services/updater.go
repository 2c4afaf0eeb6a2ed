package services

import (
	"context"
	"errors"

	"scent-enricher/backend/internal/logging"
	"scent-enricher/backend/internal/repository"
	"scent-enricher/backend/pkg/models"
)

// Outcome is the result of one Updater call.
type Outcome int

const (
	// OutcomeFailed means the store could not be read or written.
	OutcomeFailed Outcome = iota
	// OutcomeNotFound means no record has the name.
	OutcomeNotFound
	// OutcomeAlreadyProcessed means the record was done before; nothing was written.
	OutcomeAlreadyProcessed
	// OutcomeMarkedProcessed means no field was filled but the record is now done.
	OutcomeMarkedProcessed
	// OutcomeUpdated means at least one empty field was filled and the record is done.
	OutcomeUpdated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "not_found"
	case OutcomeAlreadyProcessed:
		return "already_processed"
	case OutcomeMarkedProcessed:
		return "marked_processed"
	case OutcomeUpdated:
		return "updated"
	default:
		return "failed"
	}
}

// Success reports whether the call changed the record.
func (o Outcome) Success() bool {
	return o == OutcomeUpdated || o == OutcomeMarkedProcessed
}

// Updater fills empty fields of a record and marks it processed.
type Updater struct {
	store   repository.SubstanceStore
	log     *logging.Logger
	metrics *Metrics
}

// NewUpdater creates a new Updater.
func NewUpdater(store repository.SubstanceStore, log *logging.Logger, metrics *Metrics) *Updater {
	return &Updater{store: store, log: log, metrics: metrics}
}

// Update applies candidates to the named record. Stored non-empty values
// are never replaced, and a record already processed is left untouched.
// Otherwise exactly one write is issued: the staged fields plus the
// processed flag, or the flag alone when nothing was staged.
func (u *Updater) Update(ctx context.Context, name string, candidates models.Fields) Outcome {
	outcome := u.update(ctx, name, candidates)
	u.metrics.recordUpdate(ctx, outcome)
	return outcome
}

func (u *Updater) update(ctx context.Context, name string, candidates models.Fields) Outcome {
	current, err := u.store.GetRecord(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		u.log.Warn("substance not found", "substance", name)
		return OutcomeNotFound
	}
	if err != nil {
		u.log.Error("reading substance failed", "substance", name, "error", err)
		return OutcomeFailed
	}

	if current.Processed {
		u.log.Info("substance already processed, skipping", "substance", name)
		return OutcomeAlreadyProcessed
	}

	staged := stage(current, candidates)
	if err := u.store.UpdateRecord(ctx, name, staged, true); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			u.log.Warn("substance disappeared before update", "substance", name)
			return OutcomeNotFound
		}
		u.log.Error("updating substance failed", "substance", name, "error", err)
		return OutcomeFailed
	}

	if staged.Empty() {
		u.log.Info("no new data, marked processed", "substance", name)
		return OutcomeMarkedProcessed
	}
	u.log.Info("updated substance and marked processed", "substance", name)
	return OutcomeUpdated
}

// stage picks the candidates that may fill empty stored fields.
func stage(current *models.Substance, candidates models.Fields) models.FieldSet {
	var staged models.FieldSet
	if !models.HasValue(current.Note) && models.HasValue(candidates.Note) {
		staged.Note = candidates.Note
	}
	if !models.HasValue(current.Odour) && models.HasValue(candidates.Odour) {
		staged.Odour = candidates.Odour
	}
	if !models.HasValue(current.PH) && models.HasValue(candidates.PH) {
		staged.PH = candidates.PH
	}
	return staged
}
