package server

import (
	"errors"

	"github.com/malbeclabs/snowflake-mcp/internal/response"
	"github.com/malbeclabs/snowflake-mcp/internal/snowflake"
)

const defaultQueryLimit = 100

type InsertDataInput struct {
	TableName string         `json:"table_name" jsonschema:"fully qualified database.schema.table"`
	Data      map[string]any `json:"data" jsonschema:"column name to value; arrays and objects are stored as JSON text"`
	Columns   []string       `json:"columns,omitempty" jsonschema:"optional column order; defaults to sorted column names"`
}

type QueryDataInput struct {
	TableName   string   `json:"table_name" jsonschema:"fully qualified database.schema.table"`
	Columns     []string `json:"columns,omitempty" jsonschema:"columns to select; all columns when omitted"`
	WhereClause string   `json:"where_clause,omitempty"`
	OrderBy     []string `json:"order_by,omitempty"`
	Limit       *int     `json:"limit,omitempty" jsonschema:"maximum rows to return, 100 when omitted"`
	Offset      *int     `json:"offset,omitempty"`
}

type UpdateDataInput struct {
	TableName   string         `json:"table_name" jsonschema:"fully qualified database.schema.table"`
	SetClause   string         `json:"set_clause,omitempty" jsonschema:"raw SET clause, e.g. name = 'x'"`
	Data        map[string]any `json:"data,omitempty" jsonschema:"column name to new value, used instead of set_clause"`
	WhereClause string         `json:"where_clause"`
}

type DeleteDataInput struct {
	TableName   string `json:"table_name" jsonschema:"fully qualified database.schema.table"`
	WhereClause string `json:"where_clause" jsonschema:"required; an empty clause is rejected"`
}

type ExecuteDMLInput struct {
	DMLStatement string `json:"dml_statement" jsonschema:"DML statement to execute as given"`
}

type MergeDataInput struct {
	TargetTable     string                  `json:"target_table" jsonschema:"fully qualified database.schema.table"`
	SourceTable     string                  `json:"source_table" jsonschema:"fully qualified database.schema.table"`
	MergeCondition  string                  `json:"merge_condition" jsonschema:"ON condition, using the aliases target and source"`
	MatchActions    []snowflake.ActionEntry `json:"match_actions" jsonschema:"WHEN MATCHED actions: update with columns and values, or delete"`
	NotMatchActions []snowflake.ActionEntry `json:"not_match_actions,omitempty" jsonschema:"WHEN NOT MATCHED actions: insert with columns and values"`
}

func buildInsert(in InsertDataInput) (snowflake.Statement, error) {
	if err := snowflake.RequireQualifiedTable(snowflake.KindDML, snowflake.OpInsert, "table_name", in.TableName); err != nil {
		return snowflake.Statement{}, err
	}
	columns, values, err := snowflake.SplitRow(snowflake.OpInsert, in.Data, in.Columns)
	if err != nil {
		return snowflake.Statement{}, err
	}
	return snowflake.BuildInsert(snowflake.InsertRequest{Table: in.TableName, Columns: columns, Values: values})
}

func buildQuery(in QueryDataInput) (snowflake.Statement, error) {
	limit := in.Limit
	if limit == nil {
		l := defaultQueryLimit
		limit = &l
	}
	return snowflake.BuildSelect(snowflake.SelectRequest{
		Table:   in.TableName,
		Columns: in.Columns,
		Where:   in.WhereClause,
		OrderBy: in.OrderBy,
		Limit:   limit,
		Offset:  in.Offset,
	})
}

func buildUpdate(in UpdateDataInput) (snowflake.Statement, error) {
	req := snowflake.UpdateRequest{Table: in.TableName, SetClause: in.SetClause, Where: in.WhereClause}
	if len(in.Data) > 0 {
		if err := snowflake.RequireQualifiedTable(snowflake.KindDML, snowflake.OpUpdate, "table_name", in.TableName); err != nil {
			return snowflake.Statement{}, err
		}
		columns, values, err := snowflake.SplitRow(snowflake.OpUpdate, in.Data, nil)
		if err != nil {
			return snowflake.Statement{}, err
		}
		req.Columns, req.Values = columns, values
	}
	return snowflake.BuildUpdate(req)
}

func buildMerge(in MergeDataInput) (snowflake.Statement, error) {
	matched, err := snowflake.ParseMatchedActions(in.MatchActions)
	if err != nil {
		return snowflake.Statement{}, err
	}
	notMatched, err := snowflake.ParseNotMatchedActions(in.NotMatchActions)
	if err != nil {
		return snowflake.Statement{}, err
	}
	return snowflake.BuildMerge(snowflake.MergeRequest{
		Target:     in.TargetTable,
		Source:     in.SourceTable,
		Condition:  in.MergeCondition,
		Matched:    matched,
		NotMatched: notMatched,
	})
}

func (s *Server) registerDMLTools() error {
	return errors.Join(
		addTool(s, "insert_data", "Insert one row into a table.",
			statementTool(s, buildInsert, response.NewDML)),
		addTool(s, "query_data", "Select rows from a table. Returns at most 100 rows unless limit is set.",
			statementTool(s, buildQuery, response.NewDML)),
		addTool(s, "update_data", "Update rows in a table.",
			statementTool(s, buildUpdate, response.NewDML)),
		addTool(s, "delete_data", "Delete rows from a table. A WHERE clause is required.",
			statementTool(s, func(in DeleteDataInput) (snowflake.Statement, error) {
				return snowflake.BuildDelete(snowflake.DeleteRequest{Table: in.TableName, Where: in.WhereClause})
			}, response.NewDML)),
		addTool(s, "execute_dml_statement", "Execute an arbitrary DML statement.",
			statementTool(s, func(in ExecuteDMLInput) (snowflake.Statement, error) {
				return snowflake.BuildRawDML(in.DMLStatement)
			}, response.NewDML)),
		addTool(s, "merge_data", "Merge a source table into a target table.",
			statementTool(s, buildMerge, response.NewDML)),
	)
}
