// Package models defines the domain models for the enrichment service
package models

import (
	"strings"
)

// Substance is a persisted catalogue entry.
type Substance struct {
	Name      string  `json:"name" db:"name"`
	Note      *string `json:"note,omitempty" db:"note"`
	Odour     *string `json:"odour,omitempty" db:"odour"`
	PH        *string `json:"ph,omitempty" db:"ph"`
	Processed bool    `json:"processed" db:"processed"`
}

// Fields carries candidate values for the three enrichable columns.
// A nil pointer means the value is absent.
type Fields struct {
	Note  *string `json:"note,omitempty"`
	Odour *string `json:"odour,omitempty"`
	PH    *string `json:"ph,omitempty"`
}

// FieldSet is the subset of columns staged for a single write.
type FieldSet struct {
	Note  *string
	Odour *string
	PH    *string
}

// Empty reports whether no column is staged.
func (f FieldSet) Empty() bool {
	return f.Note == nil && f.Odour == nil && f.PH == nil
}

// EnrichmentResult is one successfully updated substance in a run.
type EnrichmentResult struct {
	Name  string  `json:"name"`
	Note  *string `json:"note"`
	Odour *string `json:"odour"`
	PH    *string `json:"ph"`
}

// RunReport summarises an auto-process run.
type RunReport struct {
	RunID     string             `json:"run_id"`
	Processed int                `json:"processed"`
	Results   []EnrichmentResult `json:"results"`
	Message   string             `json:"message"`
	// Interrupted is set when the run stopped before the catalogue was exhausted.
	Interrupted bool `json:"interrupted,omitempty"`
}

// BatchRow is one user-edited row of a bulk save.
type BatchRow struct {
	Name  string `json:"name"`
	Note  string `json:"note"`
	Odour string `json:"odour"`
	PH    string `json:"ph"`
}

// Batch holds the parallel sequences submitted by an edit form.
type Batch struct {
	Names  []string `json:"names" form:"chemical_name"`
	Notes  []string `json:"notes" form:"note"`
	Odours []string `json:"odours" form:"odour"`
	PHs    []string `json:"phs" form:"pH"`
}

// Rows zips the parallel sequences by index. Names drive the row count; a
// missing entry in a shorter sequence is treated as an empty value.
func (b Batch) Rows() []BatchRow {
	rows := make([]BatchRow, len(b.Names))
	for i, name := range b.Names {
		rows[i] = BatchRow{
			Name:  name,
			Note:  at(b.Notes, i),
			Odour: at(b.Odours, i),
			PH:    at(b.PHs, i),
		}
	}
	return rows
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// SaveReport summarises a bulk save.
type SaveReport struct {
	Saved   int        `json:"saved"`
	Skipped int        `json:"skipped"`
	Rows    []BatchRow `json:"rows"`
	Message string     `json:"message"`
}

// Optional trims s and returns nil when nothing is left.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// HasValue reports whether p points at a non-blank string.
func HasValue(p *string) bool {
	return p != nil && strings.TrimSpace(*p) != ""
}

// Deref returns the pointed-to string or "".
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
