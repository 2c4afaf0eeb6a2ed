// Package enrich holds the prompt and response format shared with the text
// generation model.
package enrich

import (
	"strings"

	"scent-enricher/backend/pkg/models"
)

// Response line labels, matched as exact case-sensitive line prefixes.
const (
	LabelNote  = "Top/Middle/Base Note:"
	LabelOdour = "Odour Class:"
	LabelPH    = "pH value:"
)

// ParseResponse extracts the note, odour class and pH from a model response.
// Labels not present leave the field nil. When a label repeats, the last
// line wins. A label followed only by whitespace yields a pointer to "".
func ParseResponse(text string) models.Fields {
	var fields models.Fields
	if text == "" {
		return fields
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, LabelNote):
			fields.Note = value(line, LabelNote)
		case strings.HasPrefix(line, LabelOdour):
			fields.Odour = value(line, LabelOdour)
		case strings.HasPrefix(line, LabelPH):
			fields.PH = value(line, LabelPH)
		}
	}
	return fields
}

func value(line, label string) *string {
	v := strings.TrimSpace(line[len(label):])
	return &v
}
