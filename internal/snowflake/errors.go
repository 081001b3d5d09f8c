package snowflake

import (
	"fmt"
	"strings"
)

// Kind is the statement family an operation belongs to.
type Kind string

const (
	KindDDL        Kind = "DDL"
	KindDML        Kind = "DML"
	KindOperations Kind = "Operations"
)

// MissingArgumentsError lists every required credential or parameter that
// was not supplied.
type MissingArgumentsError struct {
	Missing []string
}

func (e *MissingArgumentsError) Error() string {
	return "missing required arguments: " + strings.Join(e.Missing, ", ")
}

// ValidationError is a structural precondition failure detected before any
// SQL is sent to Snowflake.
type ValidationError struct {
	Kind    Kind
	Op      string
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Kind != "" {
		fmt.Fprintf(&b, "%s %s: ", e.Kind, e.Op)
	}
	fmt.Fprintf(&b, "invalid %s", e.Field)
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// ConnectionError reports a failure to establish a Snowflake session.
type ConnectionError struct {
	Message string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatementError reports that a built statement failed in Snowflake.
type StatementError struct {
	Kind      Kind
	Op        string
	Target    string
	Statement string
	// Code is the Snowflake error number, zero when the driver did not report one.
	Code int
	Err  error
}

func (e *StatementError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Kind, e.Op)
	if e.Target != "" {
		msg += " on " + e.Target
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Code != 0 {
		msg += fmt.Sprintf(" (Code: %d)", e.Code)
	}
	return msg + " [statement: " + e.Statement + "]"
}

func (e *StatementError) Unwrap() error { return e.Err }

func invalid(kind Kind, op, field, value, format string, args ...any) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Op:      op,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}
