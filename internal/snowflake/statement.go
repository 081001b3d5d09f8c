package snowflake

import (
	"strings"
)

// Statement is a single SQL statement ready for execution, tagged with the
// operation that produced it.
type Statement struct {
	Kind   Kind
	Op     string
	Target string
	SQL    string
}

func requireText(kind Kind, op, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(kind, op, field, value, "%s is required", field)
	}
	return nil
}

// RequireQualifiedTable checks that table is database.schema.table.
func RequireQualifiedTable(kind Kind, op, field, table string) error {
	if !isQualified(table, 3) {
		return invalid(kind, op, field, table,
			"table name must be fully qualified as database.schema.table")
	}
	return nil
}

func isQualified(name string, parts int) bool {
	split := strings.Split(name, ".")
	if len(split) != parts {
		return false
	}
	for _, p := range split {
		if strings.TrimSpace(p) == "" {
			return false
		}
	}
	return true
}

func requireColumns(kind Kind, op, field string, columns []string, values []Value) error {
	if len(columns) == 0 {
		return invalid(kind, op, field, "", "at least one column is required")
	}
	if len(columns) != len(values) {
		return invalid(kind, op, field, strings.Join(columns, ", "),
			"column count %d does not match value count %d", len(columns), len(values))
	}
	for _, c := range columns {
		if strings.TrimSpace(c) == "" {
			return invalid(kind, op, field, "", "column names must not be empty")
		}
	}
	return nil
}

func formatValues(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Format(v)
	}
	return strings.Join(parts, ", ")
}

func formatAssignments(columns []string, values []Value) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " = " + Format(values[i])
	}
	return strings.Join(parts, ", ")
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
