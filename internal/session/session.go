package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/weekfn/internal/column"
	"github.com/roach88/weekfn/internal/function"
	"github.com/roach88/weekfn/internal/plan"
	"github.com/roach88/weekfn/internal/types"
)

// Session executes week function calls under one set of settings.
//
// Thread-safety: all methods are safe for concurrent use. Bindings are
// cached by fingerprint; function instances are immutable.
type Session struct {
	id       string
	settings function.Settings
	registry *function.Registry
	logger   *slog.Logger
	clock    *Clock

	mu       sync.Mutex
	bindings map[string]*plan.Binding
	trace    []Event
}

// Event records one executed batch.
type Event struct {
	Seq         int64  `json:"seq"`
	QueryID     string `json:"query_id"`
	Function    string `json:"function"`
	Fingerprint string `json:"fingerprint"`
	Path        string `json:"path"`
	Rows        int    `json:"rows"`
	Error       string `json:"error,omitempty"`
}

// Option configures a Session.
type Option func(*Session)

// WithIDGenerator sets the query id source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) {
		s.id = g.Generate()
	}
}

// WithLogger sets the session logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// New creates a session. Settings are captured now; every function the
// session builds sees these values.
func New(settings function.Settings, registry *function.Registry, opts ...Option) *Session {
	s := &Session{
		settings: settings,
		registry: registry,
		logger:   slog.Default(),
		clock:    NewClock(),
		bindings: make(map[string]*plan.Binding),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = UUIDv7Generator{}.Generate()
	}
	s.logger = s.logger.With("query_id", s.id)
	return s
}

// QueryID returns the session's query id.
func (s *Session) QueryID() string { return s.id }

// Settings returns the captured settings.
func (s *Session) Settings() function.Settings { return s.settings }

// Bind validates a call signature and resolves its return type.
// Contract errors are returned as *function.ArityError or
// *function.TypeError.
func (s *Session) Bind(name string, argTypes []types.DataType) (*plan.Binding, error) {
	entry, ok := s.registry.Lookup(name)
	if !ok {
		return nil, &Error{
			Code:     ErrCodeUnknownFunction,
			Message:  fmt.Sprintf("function %q is not registered", name),
			QueryID:  s.id,
			Function: name,
		}
	}

	fp, err := plan.Fingerprint(entry.Name, argTypes, s.settings)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.bindings[fp]; ok {
		return b, nil
	}

	fn := entry.Factory(s.settings)
	b, err := plan.Bind(fn, argTypes, s.settings)
	if err != nil {
		s.logger.Warn("binding rejected",
			"function", entry.Name,
			"error", err)
		return nil, err
	}
	s.bindings[fp] = b

	s.logger.Debug("binding resolved",
		"function", entry.Name,
		"return_type", b.ReturnType.Name(),
		"fingerprint", fp)
	return b, nil
}

// Call binds and executes one batch.
func (s *Session) Call(ctx context.Context, name string, args []function.Argument) (column.Column, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := s.Bind(name, function.TypesOf(args))
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, b, args)
}

// Execute runs a bound function over one batch and checks that the
// produced column has the bound return type.
func (s *Session) Execute(ctx context.Context, b *plan.Binding, args []function.Argument) (column.Column, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := b.Function.Name()
	ev := Event{
		Seq:         s.clock.Next(),
		QueryID:     s.id,
		Function:    name,
		Fingerprint: b.Fingerprint,
	}
	if len(args) > 0 && args[0].Column != nil {
		ev.Rows = args[0].Column.Len()
		if p, ok := b.Function.(Planner); ok {
			if path, err := p.Plan(args[0].Column.Type()); err == nil {
				ev.Path = path.String()
			}
		}
	}

	out, err := b.Function.Execute(args, b.ReturnType, ev.Rows)
	if err == nil && !types.Equal(out.Type(), b.ReturnType) {
		err = &Error{
			Code:     ErrCodeResolverMismatch,
			Message:  fmt.Sprintf("executed column is %s, bound return type is %s", out.Type().Name(), b.ReturnType.Name()),
			QueryID:  s.id,
			Function: name,
		}
	}
	if err != nil {
		ev.Error = err.Error()
		s.record(ev)
		s.logger.Error("execution failed",
			"function", name,
			"path", ev.Path,
			"error", err)
		if function.IsTypeError(err) || IsResolverMismatch(err) {
			return nil, err
		}
		return nil, &Error{
			Code:     ErrCodeExecution,
			Message:  "batch execution failed",
			QueryID:  s.id,
			Function: name,
			Err:      err,
		}
	}

	s.record(ev)
	s.logger.Debug("batch executed",
		"function", name,
		"path", ev.Path,
		"rows", ev.Rows)
	return out, nil
}

// Run executes a bound function over several batches in order. It stops
// at the first failure or when ctx is cancelled between batches.
func (s *Session) Run(ctx context.Context, b *plan.Binding, batches [][]function.Argument) ([]column.Column, error) {
	out := make([]column.Column, 0, len(batches))
	for i, args := range batches {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("batch %d: %w", i, err)
		}
		col, err := s.Execute(ctx, b, args)
		if err != nil {
			return out, fmt.Errorf("batch %d: %w", i, err)
		}
		out = append(out, col)
	}
	return out, nil
}

// Trace returns the executed batches in order.
func (s *Session) Trace() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.trace...)
}

// BindingCount returns the number of cached bindings.
func (s *Session) BindingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bindings)
}

// Planner is implemented by functions that expose their kernel choice.
type Planner interface {
	Plan(input types.DataType) (function.Path, error)
}

func (s *Session) record(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trace = append(s.trace, ev)
}
