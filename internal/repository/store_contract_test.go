package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scent-enricher/backend/pkg/models"
)

func strPtr(s string) *string { return &s }

// runStoreContract exercises the behaviour both stores must share.
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.EnsureSchema(ctx), "schema creation is repeatable")

	inserted, err := store.InsertNames(ctx, []string{"Linalool", "Vanillin"})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = store.InsertNames(ctx, []string{"Vanillin", "Iso E Super"})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	t.Run("GetRecord", func(t *testing.T) {
		sub, err := store.GetRecord(ctx, "Linalool")
		require.NoError(t, err)
		assert.Equal(t, "Linalool", sub.Name)
		assert.Nil(t, sub.Note)
		assert.Nil(t, sub.Odour)
		assert.Nil(t, sub.PH)
		assert.False(t, sub.Processed)

		_, err = store.GetRecord(ctx, "Unobtainium")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UpdateRecord", func(t *testing.T) {
		err := store.UpdateRecord(ctx, "Linalool", models.FieldSet{Note: strPtr("Top"), PH: strPtr("6.5")}, true)
		require.NoError(t, err)

		sub, err := store.GetRecord(ctx, "Linalool")
		require.NoError(t, err)
		assert.Equal(t, "Top", models.Deref(sub.Note))
		assert.Nil(t, sub.Odour)
		assert.Equal(t, "6.5", models.Deref(sub.PH))
		assert.True(t, sub.Processed)

		assert.NoError(t, store.UpdateRecord(ctx, "Vanillin", models.FieldSet{}, false), "nothing staged is a no-op")
		sub, err = store.GetRecord(ctx, "Vanillin")
		require.NoError(t, err)
		assert.False(t, sub.Processed)

		err = store.UpdateRecord(ctx, "Unobtainium", models.FieldSet{}, true)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("FetchOneUnprocessed drains", func(t *testing.T) {
		seen := map[string]bool{}
		for {
			name, ok, err := store.FetchOneUnprocessed(ctx)
			require.NoError(t, err)
			if !ok {
				break
			}
			require.False(t, seen[name], "claimed %q twice", name)
			seen[name] = true
			require.NoError(t, store.UpdateRecord(ctx, name, models.FieldSet{}, true))
		}
		assert.Equal(t, map[string]bool{"Vanillin": true, "Iso E Super": true}, seen)
	})
}
