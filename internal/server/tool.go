package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olekukonko/tablewriter"

	"github.com/malbeclabs/snowflake-mcp/internal/pipeline"
	"github.com/malbeclabs/snowflake-mcp/internal/response"
	"github.com/malbeclabs/snowflake-mcp/internal/snowflake"
)

// toolFunc returns the structured output and a human-readable summary.
type toolFunc[In, Out any] func(ctx context.Context, in In) (Out, string, error)

type toolResult[Out any] struct {
	out     Out
	summary string
}

// addTool registers a tool whose handler runs inside the request pipeline.
func addTool[In, Out any](s *Server, name, description string, fn toolFunc[In, Out]) error {
	in, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("failed to create %s input schema: %w", name, err)
	}
	out, err := jsonschema.For[Out](nil)
	if err != nil {
		return fmt.Errorf("failed to create %s output schema: %w", name, err)
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:         name,
		Description:  description,
		InputSchema:  in,
		OutputSchema: out,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, req In) (*mcp.CallToolResult, Out, error) {
		var zero Out
		call := &pipeline.Call{Tool: name, Args: toArgs(req)}
		res, err := s.pipeline.Run(ctx, call, func(ctx context.Context, _ *pipeline.Call) (any, error) {
			out, summary, err := fn(ctx, req)
			if err != nil {
				return nil, err
			}
			return toolResult[Out]{out: out, summary: summary}, nil
		})
		if err != nil {
			return nil, zero, toolError(name, err)
		}
		r := res.(toolResult[Out])
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: r.summary}},
		}, r.out, nil
	})
	s.tools = append(s.tools, name)
	return nil
}

// toArgs flattens a decoded request back into its argument mapping.
func toArgs(req any) map[string]any {
	data, err := json.Marshal(req)
	if err != nil {
		return nil
	}
	var args map[string]any
	if err := json.Unmarshal(data, &args); err != nil {
		return nil
	}
	return args
}

// statementTool builds, executes and normalizes a single statement. A result
// that reports failure becomes a statement error.
func statementTool[In any, Out response.Envelope](
	s *Server,
	build func(In) (snowflake.Statement, error),
	normalize func(*snowflake.RawResult) (Out, error),
) toolFunc[In, Out] {
	return func(ctx context.Context, in In) (Out, string, error) {
		var zero Out
		stmt, err := build(in)
		if err != nil {
			return zero, "", err
		}
		raw, err := s.cfg.Executor.Execute(ctx, stmt)
		if err != nil {
			return zero, "", err
		}
		env, err := normalize(raw)
		if err != nil {
			return zero, "", err
		}
		if !env.IsSuccess() {
			return zero, "", &snowflake.StatementError{
				Kind:      stmt.Kind,
				Op:        stmt.Op,
				Target:    stmt.Target,
				Statement: stmt.SQL,
				Err:       errors.New(raw.Message),
			}
		}
		return env, summarize(stmt, raw, env), nil
	}
}

func operationEnvelope(raw *snowflake.RawResult) (response.OperationResponse, error) {
	if raw == nil {
		return response.NewOperation(nil, nil)
	}
	return response.NewOperation(raw, raw.Results)
}

func summarize(stmt snowflake.Statement, raw *snowflake.RawResult, env response.Envelope) string {
	var b strings.Builder
	b.WriteString(stmt.Op)
	if stmt.Target != "" {
		b.WriteString(" " + stmt.Target)
	}
	b.WriteString(": " + env.Summary() + "\n")
	b.WriteString("SQL: " + stmt.SQL + "\n")
	if len(raw.Columns) > 0 && len(raw.Rows) > 0 {
		b.WriteString("\n")
		b.WriteString(renderTable(raw.Columns, raw.Rows))
		fmt.Fprintf(&b, "(%d rows)\n", len(raw.Rows))
	}
	return b.String()
}

func renderTable(columns []string, rows [][]string) string {
	var b strings.Builder
	table := tablewriter.NewWriter(&b)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(columns)
	table.AppendBulk(rows)
	table.Render()
	return b.String()
}
