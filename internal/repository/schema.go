package repository

import (
	"fmt"
	"strings"

	"scent-enricher/backend/pkg/models"
)

const tableName = "substances"

// buildUpdate renders the UPDATE statement for the staged columns. The
// placeholder func formats the n-th (1-based) bind parameter for the driver.
// It returns an empty query when there is nothing to write.
func buildUpdate(name string, fields models.FieldSet, markProcessed bool, placeholder func(int) string) (string, []any) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = %s", column, placeholder(len(args))))
	}
	if fields.Note != nil {
		add("note", *fields.Note)
	}
	if fields.Odour != nil {
		add("odour", *fields.Odour)
	}
	if fields.PH != nil {
		add("ph", *fields.PH)
	}
	if markProcessed {
		sets = append(sets, "processed = TRUE")
	}
	if len(sets) == 0 {
		return "", nil
	}
	args = append(args, name)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE name = %s",
		tableName, strings.Join(sets, ", "), placeholder(len(args)))
	return query, args
}

func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func questionPlaceholder(int) string { return "?" }
