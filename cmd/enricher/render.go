package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"scent-enricher/backend/pkg/models"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderRunReport(w io.Writer, report *models.RunReport) {
	if len(report.Results) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Substance", "Note", "Odour Class", "pH"})
		for _, r := range report.Results {
			t.AppendRow(table.Row{r.Name, models.Deref(r.Note), models.Deref(r.Odour), models.Deref(r.PH)})
		}
		t.Render()
	}
	fmt.Fprintln(w, report.Message)
	if report.Interrupted {
		fmt.Fprintln(w, "Run stopped before all substances were processed.")
	}
}

func renderSaveReport(w io.Writer, report *models.SaveReport) {
	if report.Skipped > 0 {
		fmt.Fprintf(w, "Skipped %d rows without a substance name.\n", report.Skipped)
	}
	fmt.Fprintln(w, report.Message)
}
