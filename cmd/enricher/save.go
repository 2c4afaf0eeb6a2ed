package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scent-enricher/backend/pkg/models"
)

func newSaveCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "save <file.csv>",
		Short: "Bulk-save edited rows from a CSV file (name,note,odour,pH)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			batch, err := readBatch(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			ctx := commandContext(cmd)
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			report := a.service.BulkSave(ctx, batch)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			renderSaveReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

// readBatch reads name,note,odour,pH rows. Short rows are padded with empty
// values and a header row naming the first column is skipped.
func readBatch(r io.Reader) (models.Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var batch models.Batch
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return batch, err
		}
		if first {
			first = false
			switch strings.ToLower(strings.TrimSpace(record[0])) {
			case "name", "chemical_name":
				continue
			}
		}
		for len(record) < 4 {
			record = append(record, "")
		}
		batch.Names = append(batch.Names, record[0])
		batch.Notes = append(batch.Notes, record[1])
		batch.Odours = append(batch.Odours, record[2])
		batch.PHs = append(batch.PHs, record[3])
	}
	return batch, nil
}
