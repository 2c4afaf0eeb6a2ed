package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scent-enricher/backend/internal/logging"
	"scent-enricher/backend/pkg/models"
)

func TestAutoProcessExhaustion(t *testing.T) {
	const n = 4
	store := new(MockStore)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("substance-%d", i)
		store.On("FetchOneUnprocessed", mock.Anything).Return(name, true, nil).Once()
		store.On("GetRecord", mock.Anything, name).Return(&models.Substance{Name: name}, nil).Once()
		store.On("UpdateRecord", mock.Anything, name, mock.Anything, true).Return(nil).Once()
	}
	store.On("FetchOneUnprocessed", mock.Anything).Return("", false, nil).Once()

	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(response("Middle", "green", "6"), nil)

	svc := NewEnrichmentService(store, gen, logging.NewNop(), nil)
	report, err := svc.AutoProcess(context.Background())
	require.NoError(t, err)

	gen.AssertNumberOfCalls(t, "Generate", n)
	store.AssertNumberOfCalls(t, "FetchOneUnprocessed", n+1)
	store.AssertNumberOfCalls(t, "UpdateRecord", n)
	assert.Equal(t, n, report.Processed)
	assert.Len(t, report.Results, n)
	assert.False(t, report.Interrupted)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "Processed unprocessed substances found during the run. Successfully updated 4 records.", report.Message)
}

func TestAutoProcessEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t, "Linalool", "Vanillin", "Galaxolide")
	require.NoError(t, store.UpdateRecord(ctx, "Vanillin", models.FieldSet{Note: strPtr("Base")}, false))

	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, "'Linalool'") })).
		Return(response("Top", "floral", "7"), nil)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, "'Vanillin'") })).
		Return(response("Top", "gourmand", ""), nil)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool { return strings.Contains(p, "'Galaxolide'") })).
		Return("", &ProviderError{Op: "generate", Err: assert.AnError})

	svc := NewEnrichmentService(store, gen, logging.NewNop(), nil)
	report, err := svc.AutoProcess(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Processed, "a failed model call still marks the record processed")
	_, ok, err := store.FetchOneUnprocessed(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	linalool, err := store.GetRecord(ctx, "Linalool")
	require.NoError(t, err)
	assert.Equal(t, "Top", models.Deref(linalool.Note))
	assert.Equal(t, "floral", models.Deref(linalool.Odour))
	assert.Equal(t, "7", models.Deref(linalool.PH))

	vanillin, err := store.GetRecord(ctx, "Vanillin")
	require.NoError(t, err)
	assert.Equal(t, "Base", models.Deref(vanillin.Note))
	assert.Equal(t, "gourmand", models.Deref(vanillin.Odour))
	assert.Nil(t, vanillin.PH)

	galaxolide, err := store.GetRecord(ctx, "Galaxolide")
	require.NoError(t, err)
	assert.True(t, galaxolide.Processed)
	assert.Nil(t, galaxolide.Note)

	again, err := svc.AutoProcess(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Processed)
	assert.Empty(t, again.Results)
}

func TestAutoProcessStopsWhenSubstanceKeepsFailing(t *testing.T) {
	store := new(MockStore)
	store.On("FetchOneUnprocessed", mock.Anything).Return("Stuck", true, nil)
	store.On("GetRecord", mock.Anything, "Stuck").Return(&models.Substance{Name: "Stuck"}, nil)
	store.On("UpdateRecord", mock.Anything, "Stuck", mock.Anything, true).Return(assert.AnError)

	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(response("Top", "citrus", "3"), nil)

	svc := NewEnrichmentService(store, gen, logging.NewNop(), nil)
	report, err := svc.AutoProcess(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Interrupted)
	assert.Equal(t, 0, report.Processed)
	gen.AssertNumberOfCalls(t, "Generate", maxAttemptsPerRun)
}

func TestAutoProcessRetriesTransientFailure(t *testing.T) {
	store := new(MockStore)
	store.On("FetchOneUnprocessed", mock.Anything).Return("Linalool", true, nil).Twice()
	store.On("FetchOneUnprocessed", mock.Anything).Return("Vanillin", true, nil).Once()
	store.On("FetchOneUnprocessed", mock.Anything).Return("", false, nil).Once()
	store.On("GetRecord", mock.Anything, "Linalool").Return(&models.Substance{Name: "Linalool"}, nil)
	store.On("GetRecord", mock.Anything, "Vanillin").Return(&models.Substance{Name: "Vanillin"}, nil)
	store.On("UpdateRecord", mock.Anything, "Linalool", mock.Anything, true).Return(assert.AnError).Once()
	store.On("UpdateRecord", mock.Anything, "Linalool", mock.Anything, true).Return(nil).Once()
	store.On("UpdateRecord", mock.Anything, "Vanillin", mock.Anything, true).Return(nil).Once()

	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(response("Top", "floral", "7"), nil)

	svc := NewEnrichmentService(store, gen, logging.NewNop(), nil)
	report, err := svc.AutoProcess(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Interrupted)
	assert.Equal(t, 2, report.Processed)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "Linalool", report.Results[0].Name)
	assert.Equal(t, "Vanillin", report.Results[1].Name)
	gen.AssertNumberOfCalls(t, "Generate", 3)
	store.AssertExpectations(t)
}

func TestAutoProcessHonoursCancellation(t *testing.T) {
	store := new(MockStore)
	gen := new(MockGenerator)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewEnrichmentService(store, gen, logging.NewNop(), nil)
	report, err := svc.AutoProcess(ctx)
	require.NoError(t, err)

	assert.True(t, report.Interrupted)
	store.AssertNotCalled(t, "FetchOneUnprocessed", mock.Anything)
}

func TestAutoProcessClaimErrorEndsRun(t *testing.T) {
	store := new(MockStore)
	store.On("FetchOneUnprocessed", mock.Anything).Return("", false, assert.AnError).Once()
	gen := new(MockGenerator)

	svc := NewEnrichmentService(store, gen, logging.NewNop(), nil)
	report, err := svc.AutoProcess(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAutoProcessWithoutGenerator(t *testing.T) {
	svc := NewEnrichmentService(new(MockStore), nil, logging.NewNop(), nil)
	_, err := svc.AutoProcess(context.Background())
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)

	_, _, err = svc.EnrichOne(context.Background(), "Linalool")
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)
}

func TestEnrichOne(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t, "Hedione")
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(response("Middle", "floral, jasmine", "5.5"), nil)

	svc := NewEnrichmentService(store, gen, logging.NewNop(), nil)
	result, outcome, err := svc.EnrichOne(ctx, " Hedione ")
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, "Hedione", result.Name)
	assert.Equal(t, "floral, jasmine", models.Deref(result.Odour))

	_, outcome, err = svc.EnrichOne(ctx, "Hedione")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyProcessed, outcome)
}

func TestBulkSaveSkipsMissingNames(t *testing.T) {
	store := new(MockStore)
	store.On("GetRecord", mock.Anything, "Linalool").Return(&models.Substance{Name: "Linalool"}, nil)
	store.On("UpdateRecord", mock.Anything, "Linalool",
		models.FieldSet{Note: strPtr("Top"), PH: strPtr("7")}, true).Return(nil).Once()
	store.On("GetRecord", mock.Anything, "Vanillin").Return(&models.Substance{Name: "Vanillin"}, nil)
	store.On("UpdateRecord", mock.Anything, "Vanillin",
		models.FieldSet{Odour: strPtr("gourmand")}, true).Return(nil).Once()

	svc := NewEnrichmentService(store, nil, logging.NewNop(), nil)
	report := svc.BulkSave(context.Background(), models.Batch{
		Names:  []string{"Linalool", "", "  ", "Vanillin"},
		Notes:  []string{" Top ", "Base", "Base", ""},
		Odours: []string{"", "woody", "woody", " gourmand"},
		PHs:    []string{"7", "", "", "   "},
	})

	assert.Equal(t, 2, report.Saved)
	assert.Equal(t, 2, report.Skipped)
	assert.Len(t, report.Rows, 4)
	assert.Equal(t, "Successfully saved data for 2 substances to the database.", report.Message)
	store.AssertNumberOfCalls(t, "GetRecord", 2)
	store.AssertExpectations(t)
}

func TestBulkSaveNothingSaved(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t, "Linalool")
	require.NoError(t, store.UpdateRecord(ctx, "Linalool", models.FieldSet{}, true))

	svc := NewEnrichmentService(store, nil, logging.NewNop(), nil)
	report := svc.BulkSave(ctx, models.Batch{
		Names: []string{"Linalool", "Unknown"},
		Notes: []string{"Top", "Top"},
	})

	assert.Equal(t, 0, report.Saved)
	assert.Equal(t, "Save operation completed. 0 records were processed.", report.Message)
}

func TestGetSubstance(t *testing.T) {
	store := newSQLiteStore(t, "Linalool")
	svc := NewEnrichmentService(store, nil, logging.NewNop(), nil)

	sub, err := svc.GetSubstance(context.Background(), "Linalool ")
	require.NoError(t, err)
	assert.Equal(t, "Linalool", sub.Name)
}
