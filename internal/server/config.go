package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/malbeclabs/snowflake-mcp/config"
	"github.com/malbeclabs/snowflake-mcp/internal/snowflake"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 5 * time.Second
)

// Executor runs statements against Snowflake.
type Executor interface {
	Execute(ctx context.Context, stmt snowflake.Statement) (*snowflake.RawResult, error)
	Credentials() (config.Credentials, error)
}

type Config struct {
	Logger   *slog.Logger
	Executor Executor
	Clock    clockwork.Clock

	Version           string
	Transport         string
	ListenAddr        string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	AllowedTokens     []string // Bearer tokens allowed for MCP endpoint authentication
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Executor == nil {
		return fmt.Errorf("executor is required")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Transport == "" {
		c.Transport = TransportStdio
	}
	switch c.Transport {
	case TransportStdio:
	case TransportHTTP:
		if c.ListenAddr == "" {
			return fmt.Errorf("listen address is required for http transport")
		}
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	return nil
}
