package server

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malbeclabs/snowflake-mcp/internal/response"
	"github.com/malbeclabs/snowflake-mcp/internal/snowflake"
)

func TestSnowflakeMCP_Server_Summarize(t *testing.T) {
	t.Parallel()

	t.Run("statement without rows", func(t *testing.T) {
		t.Parallel()

		stmt := snowflake.Statement{Kind: snowflake.KindDDL, Op: "CREATE DATABASE", Target: "SALES", SQL: "CREATE DATABASE SALES"}
		raw := &snowflake.RawResult{Success: true, Message: "DDL operation executed successfully", Results: []string{}}
		env, err := response.NewDDL(raw)
		require.NoError(t, err)

		require.Equal(t,
			"CREATE DATABASE SALES: DDL operation executed successfully\nSQL: CREATE DATABASE SALES\n",
			summarize(stmt, raw, env))
	})

	t.Run("raw statement has no target", func(t *testing.T) {
		t.Parallel()

		stmt := snowflake.Statement{Kind: snowflake.KindOperations, Op: "QUERY", SQL: "SELECT 1"}
		raw := &snowflake.RawResult{Success: true, Message: "Operation executed successfully"}
		env, err := operationEnvelope(raw)
		require.NoError(t, err)

		require.Equal(t, "QUERY: Operation executed successfully\nSQL: SELECT 1\n", summarize(stmt, raw, env))
	})
}

func TestSnowflakeMCP_Server_RenderTable(t *testing.T) {
	t.Parallel()

	out := renderTable([]string{"id", "name"}, [][]string{{"1", "a"}})
	require.Contains(t, out, "| id | name |")
	require.Contains(t, out, "| 1  | a    |")
}

func TestSnowflakeMCP_Server_PrivilegeList(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"select", "insert"}, privilegeList("select, insert"))
	require.Equal(t, []string{"SELECT", "USAGE"}, privilegeList([]any{"SELECT", 7, "USAGE"}))
	require.Equal(t, []string{"OWNERSHIP"}, privilegeList([]string{"OWNERSHIP"}))
	require.Nil(t, privilegeList(42))
}

func TestSnowflakeMCP_Server_ToolError(t *testing.T) {
	t.Parallel()

	validation := &snowflake.ValidationError{Kind: snowflake.KindDML, Op: "DELETE", Field: "where_clause", Message: "required"}

	tests := []struct {
		name     string
		err      error
		category string
	}{
		{name: "validation", err: validation, category: "Validation error"},
		{name: "wrapped validation", err: fmt.Errorf("build: %w", validation), category: "Validation error"},
		{name: "missing arguments", err: &snowflake.MissingArgumentsError{Missing: []string{"x"}}, category: "Missing arguments"},
		{name: "connection", err: &snowflake.ConnectionError{Message: "failed"}, category: "Connection error"},
		{name: "operations statement", err: &snowflake.StatementError{Kind: snowflake.KindOperations}, category: "Operations operation failed"},
		{name: "other", err: errors.New("boom"), category: "Unexpected error during grant_privileges"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			err := toolError("grant_privileges", test.err)
			var toolErr *ToolError
			require.ErrorAs(t, err, &toolErr)
			require.Equal(t, test.category, toolErr.Category)
			require.ErrorIs(t, err, test.err)
		})
	}
}
