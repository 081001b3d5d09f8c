package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Call is the per-invocation record threaded through every interceptor.
type Call struct {
	Tool string
	Args map[string]any

	Start   time.Time
	Elapsed time.Duration
	Err     error

	// Warnings collects observations made by interceptors; they never block the call.
	Warnings []string
}

func (c *Call) Succeeded() bool { return c.Err == nil }

// Handler runs the tool itself, or the remainder of the chain.
type Handler func(ctx context.Context, call *Call) (any, error)

// Interceptor wraps a Handler. Implementations must return the result and
// error of next unchanged.
type Interceptor interface {
	Name() string
	Intercept(ctx context.Context, call *Call, next Handler) (any, error)
}

// Pipeline is an immutable ordered chain. The first interceptor is the
// outermost: it is entered first and exited last.
type Pipeline struct {
	interceptors []Interceptor
}

func New(interceptors ...Interceptor) *Pipeline {
	return &Pipeline{interceptors: append([]Interceptor(nil), interceptors...)}
}

// Default builds the standard chain: validation, security, logging and
// connection health.
func Default(log *slog.Logger, clock clockwork.Clock) *Pipeline {
	return New(
		NewValidation(log),
		NewSecurity(log),
		NewLogging(log, clock),
		NewConnectionHealth(log),
	)
}

func (p *Pipeline) Names() []string {
	names := make([]string, len(p.interceptors))
	for i, in := range p.interceptors {
		names[i] = in.Name()
	}
	return names
}

// Run executes handler inside the chain exactly once.
func (p *Pipeline) Run(ctx context.Context, call *Call, handler Handler) (any, error) {
	next := handler
	for i := len(p.interceptors) - 1; i >= 0; i-- {
		in, inner := p.interceptors[i], next
		next = func(ctx context.Context, call *Call) (any, error) {
			return in.Intercept(ctx, call, inner)
		}
	}
	return next(ctx, call)
}
