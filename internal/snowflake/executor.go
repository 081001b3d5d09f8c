package snowflake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/malbeclabs/snowflake-mcp/config"
	"github.com/malbeclabs/snowflake-mcp/internal/metrics"
)

// RawResult is the uniform outcome of one executed statement. Results holds
// one JSON object per row with keys in column order.
type RawResult struct {
	Success      bool
	Message      string
	Results      []string
	RowsAffected *int64

	Columns []string
	Rows    [][]string
}

// ExecutorConfig configures an Executor.
type ExecutorConfig struct {
	Logger    *slog.Logger
	Connector Connector
	Clock     clockwork.Clock

	// Credentials given here take precedence over the environment.
	Credentials config.Credentials
	Options     config.Options
	Lookup      config.LookupFunc
}

func (c *ExecutorConfig) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Connector == nil {
		return fmt.Errorf("connector is required")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Lookup == nil {
		c.Lookup = config.OSLookup
	}
	return nil
}

// Executor runs each statement on its own session.
type Executor struct {
	log *slog.Logger
	cfg ExecutorConfig
}

// NewExecutor validates cfg and returns an Executor.
func NewExecutor(cfg ExecutorConfig) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate executor config: %w", err)
	}
	return &Executor{log: cfg.Logger, cfg: cfg}, nil
}

// Credentials resolves credentials against the current environment.
func (e *Executor) Credentials() (config.Credentials, error) {
	creds, missing := config.ResolveCredentials(e.cfg.Credentials, e.cfg.Lookup)
	if len(missing) > 0 {
		return config.Credentials{}, &MissingArgumentsError{Missing: missing}
	}
	return creds, nil
}

// Execute opens a session, runs stmt and closes the session on every path.
func (e *Executor) Execute(ctx context.Context, stmt Statement) (*RawResult, error) {
	creds, err := e.Credentials()
	if err != nil {
		return nil, err
	}

	conn, err := e.cfg.Connector.Connect(ctx, creds, e.cfg.Options)
	if err != nil {
		metrics.DatabaseConnectionsTotal.WithLabelValues("error").Inc()
		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			err = &ConnectionError{Message: "failed to connect to snowflake", Err: err}
		}
		return nil, err
	}
	metrics.DatabaseConnectionsTotal.WithLabelValues("success").Inc()
	defer func() {
		if err := conn.Close(); err != nil {
			e.log.Warn("snowflake: failed to close connection", "error", err)
		}
	}()

	e.log.Debug("snowflake: executing statement", "kind", stmt.Kind, "op", stmt.Op, "sql", stmt.SQL)

	kind := string(stmt.Kind)
	start := e.cfg.Clock.Now()
	rs, err := conn.Execute(ctx, stmt.SQL)
	metrics.DatabaseQueryDuration.WithLabelValues(kind).Observe(e.cfg.Clock.Since(start).Seconds())
	if err != nil {
		metrics.DatabaseQueriesTotal.WithLabelValues(kind, "error").Inc()
		return nil, &StatementError{
			Kind:      stmt.Kind,
			Op:        stmt.Op,
			Target:    stmt.Target,
			Statement: stmt.SQL,
			Code:      snowflakeCode(err),
			Err:       err,
		}
	}
	metrics.DatabaseQueriesTotal.WithLabelValues(kind, "success").Inc()

	return newRawResult(stmt.Kind, rs), nil
}

func successMessage(kind Kind) string {
	if kind == KindOperations {
		return "Operation executed successfully"
	}
	return string(kind) + " operation executed successfully"
}

func newRawResult(kind Kind, rs *RowSet) *RawResult {
	affected := rs.RowsAffected
	res := &RawResult{
		Success:      true,
		Message:      successMessage(kind),
		Results:      make([]string, 0, len(rs.Rows)),
		RowsAffected: &affected,
		Columns:      rs.Columns,
		Rows:         make([][]string, 0, len(rs.Rows)),
	}
	for _, row := range rs.Rows {
		res.Results = append(res.Results, rowJSON(rs.Columns, row))
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellText(v)
		}
		res.Rows = append(res.Rows, cells)
	}
	return res
}

// rowJSON renders a row as a JSON object whose keys follow column order.
func rowJSON(columns []string, row []any) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, col := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(col)
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(row[i])
		if err != nil {
			val, _ = json.Marshal(fmt.Sprint(row[i]))
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.String()
}

func cellText(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}
