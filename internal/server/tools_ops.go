package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/malbeclabs/snowflake-mcp/internal/response"
	"github.com/malbeclabs/snowflake-mcp/internal/snowflake"
)

type ExecuteSQLInput struct {
	Query string `json:"query" jsonschema:"SQL to execute as given"`
}

type ShowObjectsInput struct {
	ObjectType string `json:"object_type" jsonschema:"object type to list, e.g. DATABASES, SCHEMAS, TABLES or WAREHOUSES"`
	Pattern    string `json:"pattern,omitempty" jsonschema:"LIKE pattern, e.g. SALES%"`
}

type DescribeObjectInput struct {
	ObjectName string `json:"object_name"`
	ObjectType string `json:"object_type,omitempty" jsonschema:"optional object type, e.g. TABLE or VIEW"`
}

type SetContextInput struct {
	ContextType string `json:"context_type" jsonschema:"one of DATABASE, SCHEMA, WAREHOUSE or ROLE"`
	ContextName string `json:"context_name"`
}

type AlterWarehouseInput struct {
	WarehouseName string `json:"warehouse_name"`
	Size          string `json:"size,omitempty" jsonschema:"warehouse size, e.g. XSMALL, SMALL or MEDIUM"`
	AutoSuspend   *int   `json:"auto_suspend,omitempty" jsonschema:"seconds of inactivity before suspending"`
	AutoResume    *bool  `json:"auto_resume,omitempty"`
}

// privilegeList accepts either a comma separated string or a list.
func privilegeList(v any) []string {
	switch v := v.(type) {
	case string:
		return snowflake.SplitPrivileges(v)
	case []any:
		var out []string
		for _, p := range v {
			if s, ok := p.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}

type GrantInput struct {
	Privileges any    `json:"privileges" jsonschema:"privileges to grant as a list or a comma separated string"`
	OnType     string `json:"on_type"`
	OnName     string `json:"on_name"`
	ToType     string `json:"to_type"`
	ToName     string `json:"to_name"`
}

type RevokeInput struct {
	Privileges any    `json:"privileges" jsonschema:"privileges to revoke as a list or a comma separated string"`
	OnType     string `json:"on_type"`
	OnName     string `json:"on_name"`
	FromType   string `json:"from_type"`
	FromName   string `json:"from_name"`
}

type TestConnectionInput struct{}

func (s *Server) registerOperationTools() error {
	return errors.Join(
		addTool(s, "execute_sql_query", "Execute an arbitrary SQL query and return its rows.",
			statementTool(s, func(in ExecuteSQLInput) (snowflake.Statement, error) {
				return snowflake.BuildRawQuery(in.Query)
			}, operationEnvelope)),
		addTool(s, "show_database_objects", "List objects of a type, optionally filtered by a LIKE pattern.",
			statementTool(s, func(in ShowObjectsInput) (snowflake.Statement, error) {
				return snowflake.BuildShow(snowflake.ShowRequest{ObjectType: in.ObjectType, Pattern: in.Pattern})
			}, operationEnvelope)),
		addTool(s, "describe_database_object", "Describe the structure of a database object.",
			statementTool(s, func(in DescribeObjectInput) (snowflake.Statement, error) {
				return snowflake.BuildDescribe(snowflake.DescribeRequest{ObjectType: in.ObjectType, Name: in.ObjectName})
			}, operationEnvelope)),
		addTool(s, "set_context", "Switch the session database, schema, warehouse or role.",
			statementTool(s, func(in SetContextInput) (snowflake.Statement, error) {
				return snowflake.BuildUse(snowflake.UseRequest{ContextType: in.ContextType, Name: in.ContextName})
			}, operationEnvelope)),
		addTool(s, "alter_warehouse", "Change the size or suspend settings of a warehouse.",
			statementTool(s, func(in AlterWarehouseInput) (snowflake.Statement, error) {
				return snowflake.BuildAlterWarehouse(snowflake.AlterWarehouseRequest{
					Name:        in.WarehouseName,
					Size:        in.Size,
					AutoSuspend: in.AutoSuspend,
					AutoResume:  in.AutoResume,
				})
			}, operationEnvelope)),
		addTool(s, "grant_privileges", "Grant privileges on an object to a role or user.",
			statementTool(s, func(in GrantInput) (snowflake.Statement, error) {
				return snowflake.BuildGrant(snowflake.PrivilegeRequest{
					Privileges:  privilegeList(in.Privileges),
					OnType:      in.OnType,
					OnName:      in.OnName,
					GranteeType: in.ToType,
					GranteeName: in.ToName,
				})
			}, operationEnvelope)),
		addTool(s, "revoke_privileges", "Revoke privileges on an object from a role or user.",
			statementTool(s, func(in RevokeInput) (snowflake.Statement, error) {
				return snowflake.BuildRevoke(snowflake.PrivilegeRequest{
					Privileges:  privilegeList(in.Privileges),
					OnType:      in.OnType,
					OnName:      in.OnName,
					GranteeType: in.FromType,
					GranteeName: in.FromName,
				})
			}, operationEnvelope)),
		addTool(s, "test_snowflake_connection", "Check that Snowflake is reachable with the configured credentials.",
			s.testConnection),
	)
}

// testConnection reports failures in its result rather than as a tool error.
func (s *Server) testConnection(ctx context.Context, _ TestConnectionInput) (response.OperationResponse, string, error) {
	stmt := snowflake.BuildConnectionTest()
	raw, err := s.cfg.Executor.Execute(ctx, stmt)
	if err != nil {
		s.log.Warn("server: connection test failed", "error", err)
		env := response.OperationResponse{Success: false, Message: "Connection test failed: " + err.Error()}
		return env, "Snowflake connection test FAILED\n" + err.Error() + "\n", nil
	}

	info := map[string]any{}
	if len(raw.Rows) > 0 {
		for i, col := range raw.Columns {
			info[strings.ToLower(col)] = raw.Rows[0][i]
		}
	}
	env, err := response.NewOperation(raw, info)
	if err != nil {
		return response.OperationResponse{}, "", err
	}
	env.Message = "Connection test passed"

	var b strings.Builder
	b.WriteString("Snowflake connection test PASSED\n")
	for _, key := range []string{"user", "account", "region", "version", "timestamp"} {
		if v, ok := info[key]; ok {
			fmt.Fprintf(&b, "%s: %v\n", key, v)
		}
	}
	return env, b.String(), nil
}
