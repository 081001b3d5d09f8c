package server

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malbeclabs/snowflake-mcp/internal/snowflake"
)

func TestSnowflakeMCP_Server_Tools_BuildSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantSQL string
	}{
		{
			name:    "insert sorts columns and does not escape quotes",
			tool:    "insert_data",
			args:    map[string]any{"table_name": "db.sch.tbl", "data": map[string]any{"name": "Jo'hn", "id": 1}},
			wantSQL: "INSERT INTO db.sch.tbl (id, name) VALUES (1, 'Jo'hn')",
		},
		{
			name: "insert with column order and json value",
			tool: "insert_data",
			args: map[string]any{
				"table_name": "db.sch.tbl",
				"data":       map[string]any{"id": 2, "tags": []any{"a"}, "active": true},
				"columns":    []any{"id", "tags", "active"},
			},
			wantSQL: `INSERT INTO db.sch.tbl (id, tags, active) VALUES (2, '["a"]', TRUE)`,
		},
		{
			name:    "query default limit",
			tool:    "query_data",
			args:    map[string]any{"table_name": "db.sch.tbl"},
			wantSQL: "SELECT * FROM db.sch.tbl LIMIT 100",
		},
		{
			name:    "update with set clause",
			tool:    "update_data",
			args:    map[string]any{"table_name": "db.sch.tbl", "set_clause": "name = 'x'", "where_clause": "id = 1"},
			wantSQL: "UPDATE db.sch.tbl SET name = 'x' WHERE id = 1",
		},
		{
			name:    "delete",
			tool:    "delete_data",
			args:    map[string]any{"table_name": "db.sch.tbl", "where_clause": "id = 1"},
			wantSQL: "DELETE FROM db.sch.tbl WHERE id = 1",
		},
		{
			name:    "create database",
			tool:    "create_database",
			args:    map[string]any{"database_name": "SALES"},
			wantSQL: "CREATE DATABASE SALES",
		},
		{
			name:    "drop with cascade",
			tool:    "drop_database_object",
			args:    map[string]any{"object_type": "schema", "object_name": "SALES.RAW", "cascade": true},
			wantSQL: "DROP SCHEMA SALES.RAW CASCADE",
		},
		{
			name:    "grant from comma separated string",
			tool:    "grant_privileges",
			args:    map[string]any{"privileges": "select, insert", "on_type": "table", "on_name": "db.sch.tbl", "to_type": "role", "to_name": "ANALYST"},
			wantSQL: "GRANT SELECT, INSERT ON TABLE db.sch.tbl TO ROLE ANALYST",
		},
		{
			name:    "revoke from list",
			tool:    "revoke_privileges",
			args:    map[string]any{"privileges": []any{"usage"}, "on_type": "warehouse", "on_name": "WH", "from_type": "role", "from_name": "ANALYST"},
			wantSQL: "REVOKE USAGE ON WAREHOUSE WH FROM ROLE ANALYST",
		},
		{
			name:    "set context",
			tool:    "set_context",
			args:    map[string]any{"context_type": "warehouse", "context_name": "COMPUTE_WH"},
			wantSQL: "USE WAREHOUSE COMPUTE_WH",
		},
		{
			name:    "execute ddl statement",
			tool:    "execute_ddl_statement",
			args:    map[string]any{"ddl_statement": "CREATE VIEW db.sch.v AS SELECT 1"},
			wantSQL: "CREATE VIEW db.sch.v AS SELECT 1",
		},
		{
			name:    "create schema if not exists",
			tool:    "create_schema",
			args:    map[string]any{"database_name": "SALES", "schema_name": "RAW", "if_not_exists": true},
			wantSQL: "CREATE SCHEMA IF NOT EXISTS SALES.RAW",
		},
		{
			name: "create table",
			tool: "create_table",
			args: map[string]any{
				"database_name": "SALES",
				"schema_name":   "RAW",
				"table_name":    "ORDERS",
				"columns": []any{
					map[string]any{"name": "id", "type": "NUMBER(38,0)"},
					map[string]any{"name": "note", "type": "VARCHAR"},
				},
			},
			wantSQL: "CREATE TABLE SALES.RAW.ORDERS (id NUMBER(38,0), note VARCHAR)",
		},
		{
			name:    "alter table modify column",
			tool:    "alter_table",
			args:    map[string]any{"table_name": "db.sch.tbl", "alter_type": "modify", "column_name": "c", "data_type": "INT", "not_null": true},
			wantSQL: "ALTER TABLE db.sch.tbl ALTER COLUMN c SET DATA TYPE INT, COLUMN c SET NOT NULL",
		},
		{
			name:    "alter schema rename",
			tool:    "alter_schema",
			args:    map[string]any{"schema_name": "SALES.RAW", "new_name": "STAGING"},
			wantSQL: "ALTER SCHEMA SALES.RAW RENAME TO SALES.STAGING",
		},
		{
			name:    "alter database rename",
			tool:    "alter_database",
			args:    map[string]any{"database_name": "SALES", "new_name": "SALES_OLD"},
			wantSQL: "ALTER DATABASE SALES RENAME TO SALES_OLD",
		},
		{
			name:    "execute dml statement",
			tool:    "execute_dml_statement",
			args:    map[string]any{"dml_statement": "DELETE FROM db.sch.tbl WHERE id = 1"},
			wantSQL: "DELETE FROM db.sch.tbl WHERE id = 1",
		},
		{
			name: "merge update and insert",
			tool: "merge_data",
			args: map[string]any{
				"target_table":    "db.sch.t",
				"source_table":    "db.sch.s",
				"merge_condition": "target.id = source.id",
				"match_actions": []any{
					map[string]any{"action": "update", "columns": []any{"name"}, "values": []any{"new"}},
				},
				"not_match_actions": []any{
					map[string]any{"action": "insert", "columns": []any{"id", "name"}, "values": []any{1, "new"}},
				},
			},
			wantSQL: "MERGE INTO db.sch.t AS target USING db.sch.s AS source ON target.id = source.id\n" +
				"WHEN MATCHED THEN UPDATE SET name = 'new'\n" +
				"WHEN NOT MATCHED THEN INSERT (id, name) VALUES (1, 'new')",
		},
		{
			name:    "execute sql query",
			tool:    "execute_sql_query",
			args:    map[string]any{"query": "SELECT CURRENT_ROLE()"},
			wantSQL: "SELECT CURRENT_ROLE()",
		},
		{
			name:    "show objects like",
			tool:    "show_database_objects",
			args:    map[string]any{"object_type": "databases", "pattern": "SALES%"},
			wantSQL: "SHOW DATABASES LIKE 'SALES%'",
		},
		{
			name:    "describe with type",
			tool:    "describe_database_object",
			args:    map[string]any{"object_name": "db.sch.v", "object_type": "view"},
			wantSQL: "DESCRIBE VIEW db.sch.v",
		},
		{
			name:    "alter warehouse",
			tool:    "alter_warehouse",
			args:    map[string]any{"warehouse_name": "COMPUTE_WH", "size": "small", "auto_suspend": 300, "auto_resume": true},
			wantSQL: "ALTER WAREHOUSE COMPUTE_WH SET WAREHOUSE_SIZE = SMALL AUTO_SUSPEND = 300 AUTO_RESUME = TRUE",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			exec := &fakeExecutor{}
			session := connect(t, newTestServer(t, exec))

			res := callTool(t, session, test.tool, test.args)
			require.False(t, res.IsError, resultText(t, res))

			stmts := exec.Statements()
			require.Len(t, stmts, 1)
			require.Equal(t, test.wantSQL, stmts[0].SQL)
			require.Contains(t, resultText(t, res), "SQL: "+test.wantSQL+"\n")
		})
	}
}

func TestSnowflakeMCP_Server_Tools_ValidationNeverExecutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		tool      string
		args      map[string]any
		wantError string
	}{
		{
			name:      "insert with unqualified table",
			tool:      "insert_data",
			args:      map[string]any{"table_name": "tbl", "data": map[string]any{"id": 1}},
			wantError: "Validation error: DML INSERT: invalid table_name",
		},
		{
			name:      "insert with column order not matching data",
			tool:      "insert_data",
			args:      map[string]any{"table_name": "db.sch.tbl", "data": map[string]any{"id": 1, "name": "a"}, "columns": []any{"id"}},
			wantError: "Validation error:",
		},
		{
			name:      "delete with blank where clause",
			tool:      "delete_data",
			args:      map[string]any{"table_name": "db.sch.tbl", "where_clause": "  "},
			wantError: "WHERE clause is required for DELETE operations to prevent deleting all rows",
		},
		{
			name: "merge with unknown action",
			tool: "merge_data",
			args: map[string]any{
				"target_table":    "db.sch.t",
				"source_table":    "db.sch.s",
				"merge_condition": "target.id = source.id",
				"match_actions":   []any{map[string]any{"action": "upsert"}},
			},
			wantError: "match_actions[0].action",
		},
		{
			name:      "alter warehouse without parameters",
			tool:      "alter_warehouse",
			args:      map[string]any{"warehouse_name": "WH"},
			wantError: "No warehouse parameters specified",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			exec := &fakeExecutor{}
			session := connect(t, newTestServer(t, exec))

			res := callTool(t, session, test.tool, test.args)
			require.True(t, res.IsError)
			require.Contains(t, resultText(t, res), test.wantError)
			require.Empty(t, exec.Statements())
		})
	}
}

func TestSnowflakeMCP_Server_Tools_ErrorCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		tool       string
		args       map[string]any
		wantPrefix string
	}{
		{
			name:       "missing credentials",
			err:        &snowflake.MissingArgumentsError{Missing: []string{"account_identifier (or SNOWFLAKE_ACCOUNT env var)"}},
			tool:       "execute_sql_query",
			args:       map[string]any{"query": "SELECT 1"},
			wantPrefix: "Missing arguments: missing required arguments: account_identifier",
		},
		{
			name:       "ddl failure",
			err:        &snowflake.StatementError{Kind: snowflake.KindDDL, Op: "CREATE DATABASE", Target: "X", Statement: "CREATE DATABASE X", Code: 2002, Err: errors.New("already exists")},
			tool:       "create_database",
			args:       map[string]any{"database_name": "X"},
			wantPrefix: "DDL operation failed: DDL CREATE DATABASE failed on X: already exists (Code: 2002)",
		},
		{
			name:       "dml failure",
			err:        &snowflake.StatementError{Kind: snowflake.KindDML, Op: "DML", Statement: "DELETE", Err: errors.New("boom")},
			tool:       "execute_dml_statement",
			args:       map[string]any{"dml_statement": "DELETE FROM db.s.t WHERE 1 = 1"},
			wantPrefix: "DML operation failed:",
		},
		{
			name:       "unexpected",
			err:        errors.New("socket closed"),
			tool:       "show_database_objects",
			args:       map[string]any{"object_type": "tables"},
			wantPrefix: "Unexpected error during show_database_objects: socket closed",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			session := connect(t, newTestServer(t, &fakeExecutor{err: test.err}))
			res := callTool(t, session, test.tool, test.args)
			require.True(t, res.IsError)
			require.True(t, strings.HasPrefix(resultText(t, res), test.wantPrefix), resultText(t, res))
		})
	}
}

func TestSnowflakeMCP_Server_Tools_QueryRendersTable(t *testing.T) {
	t.Parallel()

	affected := int64(2)
	exec := &fakeExecutor{result: &snowflake.RawResult{
		Success:      true,
		Message:      "DML operation executed successfully",
		Results:      []string{`{"id":1,"name":"a"}`, `{"id":2,"name":"b"}`},
		RowsAffected: &affected,
		Columns:      []string{"id", "name"},
		Rows:         [][]string{{"1", "a"}, {"2", "b"}},
	}}
	session := connect(t, newTestServer(t, exec))

	res := callTool(t, session, "query_data", map[string]any{"table_name": "db.sch.tbl", "limit": 2})
	require.False(t, res.IsError)

	text := resultText(t, res)
	require.True(t, strings.HasPrefix(text, "SELECT db.sch.tbl: DML operation executed successfully (2 rows affected)\n"), text)
	require.Contains(t, text, "| id | name |")
	require.Contains(t, text, "(2 rows)\n")

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, structured["success"])
	require.EqualValues(t, 2, structured["rows_affected"])
	require.Len(t, structured["results"], 2)
}

func TestSnowflakeMCP_Server_Tools_TestConnection(t *testing.T) {
	t.Parallel()

	t.Run("failure is reported in the result", func(t *testing.T) {
		t.Parallel()

		exec := &fakeExecutor{err: &snowflake.ConnectionError{Message: "failed to connect to snowflake", Err: errors.New("390100")}}
		session := connect(t, newTestServer(t, exec))

		res := callTool(t, session, "test_snowflake_connection", nil)
		require.False(t, res.IsError)
		require.Equal(t, "Snowflake connection test FAILED\nfailed to connect to snowflake: 390100\n", resultText(t, res))

		structured, ok := res.StructuredContent.(map[string]any)
		require.True(t, ok)
		require.Equal(t, false, structured["success"])
		require.Equal(t, "Connection test failed: failed to connect to snowflake: 390100", structured["message"])
	})

	t.Run("success reports session info", func(t *testing.T) {
		t.Parallel()

		affected := int64(1)
		exec := &fakeExecutor{result: &snowflake.RawResult{
			Success:      true,
			Message:      "Operation executed successfully",
			Results:      []string{`{"USER":"ALICE","ACCOUNT":"XY12345"}`},
			RowsAffected: &affected,
			Columns:      []string{"USER", "ACCOUNT"},
			Rows:         [][]string{{"ALICE", "XY12345"}},
		}}
		session := connect(t, newTestServer(t, exec))

		res := callTool(t, session, "test_snowflake_connection", nil)
		require.False(t, res.IsError)
		require.Equal(t, "Snowflake connection test PASSED\nuser: ALICE\naccount: XY12345\n", resultText(t, res))

		stmts := exec.Statements()
		require.Len(t, stmts, 1)
		require.Equal(t, snowflake.ConnectionTestSQL, stmts[0].SQL)
	})
}

func TestSnowflakeMCP_Server_Tools_UnsuccessfulResultIsStatementError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tool       string
		args       map[string]any
		wantPrefix string
	}{
		{
			name:       "dml",
			tool:       "delete_data",
			args:       map[string]any{"table_name": "db.sch.tbl", "where_clause": "id = 1"},
			wantPrefix: "DML operation failed: DML DELETE failed on db.sch.tbl: statement rejected",
		},
		{
			name:       "ddl",
			tool:       "create_database",
			args:       map[string]any{"database_name": "SALES"},
			wantPrefix: "DDL operation failed: DDL CREATE DATABASE failed on SALES: statement rejected",
		},
		{
			name:       "operations",
			tool:       "execute_sql_query",
			args:       map[string]any{"query": "SELECT 1"},
			wantPrefix: "Operations operation failed:",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			affected := int64(0)
			exec := &fakeExecutor{result: &snowflake.RawResult{
				Success:      false,
				Message:      "statement rejected",
				Results:      []string{},
				RowsAffected: &affected,
			}}
			session := connect(t, newTestServer(t, exec))

			res := callTool(t, session, test.tool, test.args)
			require.True(t, res.IsError)
			text := resultText(t, res)
			require.True(t, strings.HasPrefix(text, test.wantPrefix), text)
			require.Contains(t, text, "statement rejected")
			require.Len(t, exec.Statements(), 1)
		})
	}
}

func TestSnowflakeMCP_Server_Tools_AlterTableSummary(t *testing.T) {
	t.Parallel()

	session := connect(t, newTestServer(t, &fakeExecutor{}))
	res := callTool(t, session, "alter_table", map[string]any{
		"table_name": "db.sch.tbl", "alter_type": "drop", "column_name": "c",
	})
	require.False(t, res.IsError)
	require.True(t, strings.HasPrefix(resultText(t, res), "ALTER TABLE db.sch.tbl: "), resultText(t, res))
}
