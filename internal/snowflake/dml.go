package snowflake

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

const (
	OpSelect  = "SELECT"
	OpInsert  = "INSERT"
	OpUpdate  = "UPDATE"
	OpDelete  = "DELETE"
	OpMerge   = "MERGE"
	OpExecute = "EXECUTE"
)

// SelectRequest describes a query against one qualified table.
type SelectRequest struct {
	Table   string
	Columns []string
	Where   string
	OrderBy []string
	Limit   *int
	Offset  *int
}

// BuildSelect appends WHERE, ORDER BY, LIMIT and OFFSET in that order, each
// only when supplied.
func BuildSelect(r SelectRequest) (Statement, error) {
	if err := RequireQualifiedTable(KindDML, OpSelect, "table_name", r.Table); err != nil {
		return Statement{}, err
	}
	cols := "*"
	if len(r.Columns) > 0 {
		cols = strings.Join(r.Columns, ", ")
	}
	var b strings.Builder
	b.WriteString("SELECT " + cols + " FROM " + r.Table)
	if w := strings.TrimSpace(r.Where); w != "" {
		b.WriteString(" WHERE " + w)
	}
	if len(r.OrderBy) > 0 {
		b.WriteString(" ORDER BY " + strings.Join(r.OrderBy, ", "))
	}
	if r.Limit != nil {
		if *r.Limit < 0 {
			return Statement{}, invalid(KindDML, OpSelect, "limit", strconv.Itoa(*r.Limit), "limit must not be negative")
		}
		b.WriteString(" LIMIT " + strconv.Itoa(*r.Limit))
	}
	if r.Offset != nil {
		if *r.Offset < 0 {
			return Statement{}, invalid(KindDML, OpSelect, "offset", strconv.Itoa(*r.Offset), "offset must not be negative")
		}
		b.WriteString(" OFFSET " + strconv.Itoa(*r.Offset))
	}
	return Statement{Kind: KindDML, Op: OpSelect, Target: r.Table, SQL: b.String()}, nil
}

// InsertRequest is one row to insert, as parallel column and value lists.
type InsertRequest struct {
	Table   string
	Columns []string
	Values  []Value
}

// BuildInsert emits a single-row INSERT with formatted literals.
func BuildInsert(r InsertRequest) (Statement, error) {
	if err := RequireQualifiedTable(KindDML, OpInsert, "table_name", r.Table); err != nil {
		return Statement{}, err
	}
	if err := requireColumns(KindDML, OpInsert, "data", r.Columns, r.Values); err != nil {
		return Statement{}, err
	}
	sql := "INSERT INTO " + r.Table +
		" (" + strings.Join(r.Columns, ", ") + ")" +
		" VALUES (" + formatValues(r.Values) + ")"
	return Statement{Kind: KindDML, Op: OpInsert, Target: r.Table, SQL: sql}, nil
}

// UpdateRequest sets either Columns/Values or a raw SetClause.
// Where is not checked for emptiness.
type UpdateRequest struct {
	Table     string
	Columns   []string
	Values    []Value
	SetClause string
	Where     string
}

// BuildUpdate emits UPDATE ... SET ... WHERE from assignments or a raw SET clause.
func BuildUpdate(r UpdateRequest) (Statement, error) {
	if err := RequireQualifiedTable(KindDML, OpUpdate, "table_name", r.Table); err != nil {
		return Statement{}, err
	}
	var set string
	switch {
	case len(r.Columns) > 0 || len(r.Values) > 0:
		if strings.TrimSpace(r.SetClause) != "" {
			return Statement{}, invalid(KindDML, OpUpdate, "set_clause", r.SetClause,
				"set_clause and data are mutually exclusive")
		}
		if err := requireColumns(KindDML, OpUpdate, "data", r.Columns, r.Values); err != nil {
			return Statement{}, err
		}
		set = formatAssignments(r.Columns, r.Values)
	default:
		if err := requireText(KindDML, OpUpdate, "set_clause", r.SetClause); err != nil {
			return Statement{}, err
		}
		set = strings.TrimSpace(r.SetClause)
	}
	sql := "UPDATE " + r.Table + " SET " + set + " WHERE " + strings.TrimSpace(r.Where)
	return Statement{Kind: KindDML, Op: OpUpdate, Target: r.Table, SQL: sql}, nil
}

// DeleteRequest deletes the rows of Table matching Where.
type DeleteRequest struct {
	Table string
	Where string
}

// BuildDelete refuses an empty WHERE clause so a whole table is never deleted.
func BuildDelete(r DeleteRequest) (Statement, error) {
	if err := RequireQualifiedTable(KindDML, OpDelete, "table_name", r.Table); err != nil {
		return Statement{}, err
	}
	where := strings.TrimSpace(r.Where)
	if where == "" {
		return Statement{}, invalid(KindDML, OpDelete, "where_clause", r.Where,
			"WHERE clause is required for DELETE operations to prevent deleting all rows")
	}
	sql := "DELETE FROM " + r.Table + " WHERE " + where
	return Statement{Kind: KindDML, Op: OpDelete, Target: r.Table, SQL: sql}, nil
}

// BuildRawDML passes statement through unchanged.
func BuildRawDML(statement string) (Statement, error) {
	if err := requireText(KindDML, OpExecute, "dml_statement", statement); err != nil {
		return Statement{}, err
	}
	return Statement{Kind: KindDML, Op: OpExecute, SQL: statement}, nil
}

// SplitRow turns a column-to-value mapping into parallel column and value
// lists. order fixes the column order and must name exactly the keys of data;
// without it columns are sorted by name.
func SplitRow(op string, data map[string]any, order []string) ([]string, []Value, error) {
	if len(data) == 0 {
		return nil, nil, invalid(KindDML, op, "data", "", "at least one column is required")
	}
	columns := order
	if len(columns) == 0 {
		columns = slices.Sorted(maps.Keys(data))
	} else {
		if len(columns) != len(data) {
			return nil, nil, invalid(KindDML, op, "columns", strings.Join(columns, ", "),
				"column count %d does not match value count %d", len(columns), len(data))
		}
		seen := make(map[string]bool, len(columns))
		for _, c := range columns {
			if _, ok := data[c]; !ok || seen[c] {
				return nil, nil, invalid(KindDML, op, "columns", c, "column must appear exactly once in data")
			}
			seen[c] = true
		}
	}
	values := make([]Value, len(columns))
	for i, c := range columns {
		v, err := ValueOf(data[c])
		if err != nil {
			return nil, nil, invalid(KindDML, op, "data", c, "%v", err)
		}
		values[i] = v
	}
	return columns, values, nil
}
