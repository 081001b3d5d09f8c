package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/malbeclabs/snowflake-mcp/internal/metrics"
)

// Validation is a hook for request checks; it currently only forwards.
type Validation struct {
	log *slog.Logger
}

func NewValidation(log *slog.Logger) *Validation { return &Validation{log: log} }

func (v *Validation) Name() string { return "validation" }

func (v *Validation) Intercept(ctx context.Context, call *Call, next Handler) (any, error) {
	v.log.Debug("pipeline: validating request", "tool", call.Tool)
	return next(ctx, call)
}

// SQLArgumentNames are the arguments scanned for sensitive keywords.
var SQLArgumentNames = []string{"ddl_statement", "dml_statement", "sql_statement", "query", "statement"}

// SensitiveKeywords are matched case-insensitively as substrings.
var SensitiveKeywords = []string{
	"drop database",
	"drop warehouse",
	"truncate",
	"delete from",
	"alter user",
	"create user",
	"drop user",
	"grant",
	"revoke",
}

// Security warns about sensitive keywords in SQL arguments. It never blocks.
type Security struct {
	log *slog.Logger
}

func NewSecurity(log *slog.Logger) *Security { return &Security{log: log} }

func (s *Security) Name() string { return "security" }

func (s *Security) Intercept(ctx context.Context, call *Call, next Handler) (any, error) {
	for _, field := range SQLArgumentNames {
		text, ok := call.Args[field].(string)
		if !ok || text == "" {
			continue
		}
		if keyword := findKeyword(text); keyword != "" {
			s.log.Warn("pipeline: sensitive SQL keyword detected",
				"tool", call.Tool,
				"field", field,
				"keyword", keyword,
			)
			metrics.SecurityWarningsTotal.WithLabelValues(call.Tool, keyword).Inc()
			call.Warnings = append(call.Warnings, field+": "+keyword)
		}
	}
	return next(ctx, call)
}

func findKeyword(text string) string {
	lower := strings.ToLower(text)
	for _, keyword := range SensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return keyword
		}
	}
	return ""
}

// Logging records start, elapsed time and outcome of every call.
type Logging struct {
	log   *slog.Logger
	clock clockwork.Clock
}

func NewLogging(log *slog.Logger, clock clockwork.Clock) *Logging {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Logging{log: log, clock: clock}
}

func (l *Logging) Name() string { return "logging" }

func (l *Logging) Intercept(ctx context.Context, call *Call, next Handler) (any, error) {
	call.Start = l.clock.Now()
	l.log.Info("pipeline: tool call started", "tool", call.Tool)

	res, err := next(ctx, call)

	call.Elapsed = l.clock.Since(call.Start)
	call.Err = err
	metrics.ToolCallDuration.WithLabelValues(call.Tool).Observe(call.Elapsed.Seconds())
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues(call.Tool, "error").Inc()
		l.log.Error("pipeline: tool call failed",
			"tool", call.Tool,
			"elapsed", call.Elapsed.Round(time.Millisecond),
			"error", err,
		)
		return res, err
	}
	metrics.ToolCallsTotal.WithLabelValues(call.Tool, "success").Inc()
	l.log.Info("pipeline: tool call completed",
		"tool", call.Tool,
		"elapsed", call.Elapsed.Round(time.Millisecond),
	)
	return res, nil
}

// ConnectionHealth is reserved for connection diagnostics; it currently
// only forwards.
type ConnectionHealth struct {
	log *slog.Logger
}

func NewConnectionHealth(log *slog.Logger) *ConnectionHealth { return &ConnectionHealth{log: log} }

func (h *ConnectionHealth) Name() string { return "connection_health" }

func (h *ConnectionHealth) Intercept(ctx context.Context, call *Call, next Handler) (any, error) {
	h.log.Debug("pipeline: checking connection health", "tool", call.Tool)
	return next(ctx, call)
}
