package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scent-enricher/backend/internal/repository"
	"scent-enricher/backend/pkg/models"
)

func TestReadBatch(t *testing.T) {
	input := "chemical_name,note,odour,pH\nLinalool,Top,floral,7\n,Base,,\nVanillin, Base\n"
	batch, err := readBatch(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Linalool", "", "Vanillin"}, batch.Names)
	assert.Equal(t, []string{"Top", "Base", "Base"}, batch.Notes)
	assert.Equal(t, []string{"floral", "", ""}, batch.Odours)
	assert.Equal(t, []string{"7", "", ""}, batch.PHs)
}

func TestReadNames(t *testing.T) {
	names, err := readNames(strings.NewReader("# catalogue\nLinalool\n\n  Vanillin  \nLinalool\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Linalool", "Vanillin"}, names)
}

func TestRenderRunReport(t *testing.T) {
	var buf bytes.Buffer
	note := "Top"
	renderRunReport(&buf, &models.RunReport{
		Processed:   1,
		Results:     []models.EnrichmentResult{{Name: "Linalool", Note: &note}},
		Message:     "done",
		Interrupted: true,
	})
	out := buf.String()
	assert.Contains(t, out, "Linalool")
	assert.Contains(t, out, "Odour Class")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "Run stopped")
}

func TestSeedAndSaveCommands(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cli.db")
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("db:\n  driver: sqlite\n  path: "+dbPath+"\nlog:\n  level: error\n"), 0o600))
	namesPath := filepath.Join(dir, "names.txt")
	require.NoError(t, os.WriteFile(namesPath, []byte("Linalool\nVanillin\n"), 0o600))
	csvPath := filepath.Join(dir, "rows.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Linalool,Top,floral,7\n,Base,,\n"), 0o600))

	run := func(args ...string) string {
		var out bytes.Buffer
		cmd := newRootCommand()
		cmd.SetOut(&out)
		cmd.SetArgs(append([]string{"--config", configPath}, args...))
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	assert.Contains(t, run("seed", namesPath), "Inserted 2 of 2 substances.")
	out := run("save", csvPath)
	assert.Contains(t, out, "Skipped 1 rows")
	assert.Contains(t, out, "Successfully saved data for 1 substances to the database.")

	store, err := repository.OpenSQLite(context.Background(), dbPath)
	require.NoError(t, err)
	defer store.Close()
	sub, err := store.GetRecord(context.Background(), "Linalool")
	require.NoError(t, err)
	assert.Equal(t, "floral", models.Deref(sub.Odour))
	assert.True(t, sub.Processed)
}

func TestProcessCommandRequiresGenerator(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("db:\n  driver: sqlite\n  path: "+filepath.Join(dir, "cli.db")+"\nlog:\n  level: error\n"), 0o600))
	t.Setenv("ENRICHER_GEMINI_API_KEY", "")

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", configPath, "process"})
	assert.ErrorContains(t, cmd.Execute(), "text generator not configured")
}
