package snowflake

import (
	"fmt"
	"strings"
)

// MatchedAction is a WHEN MATCHED clause: MatchedUpdate or MatchedDelete.
type MatchedAction interface {
	matchedClause() (string, error)
}

// NotMatchedAction is a WHEN NOT MATCHED clause: NotMatchedInsert.
type NotMatchedAction interface {
	notMatchedClause() (string, error)
}

// MatchedUpdate sets columns on matched rows.
type MatchedUpdate struct {
	Columns []string
	Values  []Value
}

// MatchedDelete deletes matched rows.
type MatchedDelete struct{}

// NotMatchedInsert inserts a row for each unmatched source row.
type NotMatchedInsert struct {
	Columns []string
	Values  []Value
}

func (a MatchedUpdate) matchedClause() (string, error) {
	if err := requireColumns(KindDML, OpMerge, "match_actions", a.Columns, a.Values); err != nil {
		return "", err
	}
	return "WHEN MATCHED THEN UPDATE SET " + formatAssignments(a.Columns, a.Values), nil
}

func (MatchedDelete) matchedClause() (string, error) {
	return "WHEN MATCHED THEN DELETE", nil
}

func (a NotMatchedInsert) notMatchedClause() (string, error) {
	if err := requireColumns(KindDML, OpMerge, "not_match_actions", a.Columns, a.Values); err != nil {
		return "", err
	}
	return "WHEN NOT MATCHED THEN INSERT (" + strings.Join(a.Columns, ", ") + ") VALUES (" + formatValues(a.Values) + ")", nil
}

// ActionEntry is the caller-facing shape of a merge action.
type ActionEntry struct {
	Action  string   `json:"action" jsonschema:"update or delete for matched rows, insert for unmatched rows"`
	Columns []string `json:"columns,omitempty"`
	Values  []any    `json:"values,omitempty"`
}

// ParseMatchedActions rejects any entry whose tag is not update or delete.
func ParseMatchedActions(entries []ActionEntry) ([]MatchedAction, error) {
	actions := make([]MatchedAction, 0, len(entries))
	for i, e := range entries {
		field := fmt.Sprintf("match_actions[%d].action", i)
		switch strings.ToLower(strings.TrimSpace(e.Action)) {
		case "update":
			values, err := ValuesOf(e.Values)
			if err != nil {
				return nil, invalid(KindDML, OpMerge, fmt.Sprintf("match_actions[%d].values", i), "", "%v", err)
			}
			actions = append(actions, MatchedUpdate{Columns: e.Columns, Values: values})
		case "delete":
			actions = append(actions, MatchedDelete{})
		default:
			return nil, invalid(KindDML, OpMerge, field, e.Action, "matched actions must be update or delete")
		}
	}
	return actions, nil
}

// ParseNotMatchedActions rejects any entry whose tag is not insert.
func ParseNotMatchedActions(entries []ActionEntry) ([]NotMatchedAction, error) {
	actions := make([]NotMatchedAction, 0, len(entries))
	for i, e := range entries {
		if strings.ToLower(strings.TrimSpace(e.Action)) != "insert" {
			return nil, invalid(KindDML, OpMerge, fmt.Sprintf("not_match_actions[%d].action", i), e.Action,
				"not matched actions must be insert")
		}
		values, err := ValuesOf(e.Values)
		if err != nil {
			return nil, invalid(KindDML, OpMerge, fmt.Sprintf("not_match_actions[%d].values", i), "", "%v", err)
		}
		actions = append(actions, NotMatchedInsert{Columns: e.Columns, Values: values})
	}
	return actions, nil
}

// MergeRequest merges Source into Target on Condition.
type MergeRequest struct {
	Target     string
	Source     string
	Condition  string
	Matched    []MatchedAction
	NotMatched []NotMatchedAction
}

// BuildMerge emits one WHEN MATCHED line per matched action followed by one
// WHEN NOT MATCHED line per not-matched action.
func BuildMerge(r MergeRequest) (Statement, error) {
	if err := RequireQualifiedTable(KindDML, OpMerge, "target_table", r.Target); err != nil {
		return Statement{}, err
	}
	if err := RequireQualifiedTable(KindDML, OpMerge, "source_table", r.Source); err != nil {
		return Statement{}, err
	}
	if err := requireText(KindDML, OpMerge, "merge_condition", r.Condition); err != nil {
		return Statement{}, err
	}
	if len(r.Matched) == 0 {
		return Statement{}, invalid(KindDML, OpMerge, "match_actions", "", "at least one matched action is required")
	}

	lines := []string{
		"MERGE INTO " + r.Target + " AS target USING " + r.Source + " AS source ON " + strings.TrimSpace(r.Condition),
	}
	for _, a := range r.Matched {
		clause, err := a.matchedClause()
		if err != nil {
			return Statement{}, err
		}
		lines = append(lines, clause)
	}
	for _, a := range r.NotMatched {
		clause, err := a.notMatchedClause()
		if err != nil {
			return Statement{}, err
		}
		lines = append(lines, clause)
	}
	return Statement{Kind: KindDML, Op: OpMerge, Target: r.Target, SQL: strings.Join(lines, "\n")}, nil
}
