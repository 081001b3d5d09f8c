package server

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/malbeclabs/snowflake-mcp/config"
	"github.com/malbeclabs/snowflake-mcp/internal/snowflake"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	level := slog.LevelWarn
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// fakeExecutor records statements instead of sending them to Snowflake.
type fakeExecutor struct {
	mu         sync.Mutex
	statements []snowflake.Statement

	result   *snowflake.RawResult
	err      error
	credsErr error
}

func (f *fakeExecutor) Execute(_ context.Context, stmt snowflake.Statement) (*snowflake.RawResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statements = append(f.statements, stmt)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	affected := int64(1)
	return &snowflake.RawResult{
		Success:      true,
		Message:      string(stmt.Kind) + " operation executed successfully",
		Results:      []string{},
		RowsAffected: &affected,
	}, nil
}

func (f *fakeExecutor) Credentials() (config.Credentials, error) {
	if f.credsErr != nil {
		return config.Credentials{}, f.credsErr
	}
	return config.Credentials{Account: "acct", User: "user", Secret: "secret"}, nil
}

func (f *fakeExecutor) Statements() []snowflake.Statement {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]snowflake.Statement(nil), f.statements...)
}

func newTestServer(t *testing.T, exec *fakeExecutor) *Server {
	t.Helper()
	s, err := New(Config{
		Logger:   testLogger(t),
		Executor: exec,
		Clock:    clockwork.NewFakeClock(),
		Version:  "test",
	})
	require.NoError(t, err)
	return s
}

// connect returns a client session wired to s over in-memory transports.
func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := t.Context()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.MCP().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := session.CallTool(t.Context(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}
