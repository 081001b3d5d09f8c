package server

import (
	"errors"

	"github.com/malbeclabs/snowflake-mcp/internal/snowflake"
)

// ToolError is the caller-visible form of a failed tool call. Category
// prefixes the message so callers can tell failures apart.
type ToolError struct {
	Tool     string
	Category string
	Err      error
}

func (e *ToolError) Error() string {
	return e.Category + ": " + e.Err.Error()
}

func (e *ToolError) Unwrap() error { return e.Err }

func toolError(tool string, err error) error {
	var (
		validationErr *snowflake.ValidationError
		missingErr    *snowflake.MissingArgumentsError
		connErr       *snowflake.ConnectionError
		stmtErr       *snowflake.StatementError
	)
	switch {
	case errors.As(err, &validationErr):
		return &ToolError{Tool: tool, Category: "Validation error", Err: err}
	case errors.As(err, &missingErr):
		return &ToolError{Tool: tool, Category: "Missing arguments", Err: err}
	case errors.As(err, &connErr):
		return &ToolError{Tool: tool, Category: "Connection error", Err: err}
	case errors.As(err, &stmtErr):
		return &ToolError{Tool: tool, Category: string(stmtErr.Kind) + " operation failed", Err: err}
	default:
		return &ToolError{Tool: tool, Category: "Unexpected error during " + tool, Err: err}
	}
}
