package dql

import (
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrNoRenderer is returned when rendering on an engine without a renderer.
	ErrNoRenderer = fmt.Errorf("%w: no renderer configured", ErrConfiguration)
	// ErrNoQuerier is returned when fetching results on an engine without a querier.
	ErrNoQuerier = fmt.Errorf("%w: no querier configured", ErrConfiguration)
)

// Engine creates queries over one entity metadata provider. It holds no
// per-query state and may be shared; the queries it creates may not.
type Engine struct {
	provider      Provider
	renderer      Renderer
	querier       Querier
	logger        *slog.Logger
	slowThreshold time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithRenderer sets the dialect renderer used by Render and the result methods.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// WithQuerier sets the executor used by the result methods.
func WithQuerier(q Querier) Option {
	return func(e *Engine) {
		e.querier = q
	}
}

// WithLogger sets the logger. Compilation and execution are logged at
// debug level. Default is a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSlowQueryThreshold logs executions slower than d at warn level.
// Zero disables the check, which is the default.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(e *Engine) {
		e.slowThreshold = d
	}
}

// New creates an engine.
//
// Example:
//
//	registry := schema.NewRegistry()
//	_ = schema.Inspect[Book](registry)
//	engine, _ := dql.New(registry,
//	    dql.WithRenderer(postgres.New()),
//	    dql.WithQuerier(db),
//	)
//	books, err := engine.Query().
//	    Select("b").
//	    From("Book", "b").
//	    Where("b.title = %s", "The Hobbit").
//	    Entities(ctx)
func New(provider Provider, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is required", ErrConfiguration)
	}
	e := &Engine{
		provider: provider,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// MustNew is like New but panics on error.
func MustNew(provider Provider, opts ...Option) *Engine {
	e, err := New(provider, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Query starts a new query.
func (e *Engine) Query() *Query {
	return newQuery(e)
}

// Provider returns the engine's entity metadata provider.
func (e *Engine) Provider() Provider {
	return e.provider
}

func (e *Engine) render(stmt *Statement, count bool) (*QueryResult, error) {
	if e.renderer == nil {
		return nil, ErrNoRenderer
	}
	var (
		res *QueryResult
		err error
	)
	if count {
		res, err = e.renderer.RenderCount(stmt)
	} else {
		res, err = e.renderer.Render(stmt)
	}
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return res, nil
}

func (e *Engine) warnSlow(res *QueryResult, d time.Duration) {
	if e.slowThreshold > 0 && d > e.slowThreshold {
		e.logger.Warn("slow query detected", "duration", d, "query", res.SQL, "args", len(res.Args))
	}
}
