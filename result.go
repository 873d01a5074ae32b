package dql

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/dql/hydrate"
)

// Graph executes the query and returns the hydrated result of every alias
// in ResultAliases. The graph is cached until the query changes.
func (q *Query) Graph(ctx context.Context) (*hydrate.Graph, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.graph != nil {
		return q.graph, nil
	}
	stmt, err := q.Compile()
	if err != nil {
		return nil, err
	}
	if q.engine.querier == nil {
		return nil, ErrNoQuerier
	}
	res, err := q.engine.render(stmt, false)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := q.engine.querier.QueryContext(ctx, res.SQL, res.Args...)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	defer rows.Close()

	flat, err := hydrate.Scan(rows)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	elapsed := time.Since(start)
	q.engine.logger.Debug("query executed",
		"sql", res.SQL,
		"args", len(res.Args),
		"rows", len(flat),
		"duration", elapsed,
	)
	q.engine.warnSlow(res, elapsed)

	graph, err := hydrate.Build(flat, q.meta, q.ResultAliases())
	if err != nil {
		return nil, fmt.Errorf("hydrate: %w", err)
	}
	if root, ok := graph.Result(q.from.Alias); ok && root.Skipped() > 0 {
		q.engine.logger.Warn("rows without primary key skipped",
			"alias", q.from.Alias,
			"skipped", root.Skipped(),
		)
	}
	q.graph = graph
	return graph, nil
}

// Result executes the query and returns the deduplicated rows of alias.
func (q *Query) Result(ctx context.Context, alias string) (*hydrate.Result, error) {
	graph, err := q.Graph(ctx)
	if err != nil {
		return nil, err
	}
	r, ok := graph.Result(alias)
	if !ok {
		return nil, &UnknownResultError{Alias: alias, Available: graph.Aliases()}
	}
	return r, nil
}

// Entities returns the rows of the FROM alias keyed by primary key, in
// first-seen order.
func (q *Query) Entities(ctx context.Context) ([]hydrate.Row, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.entities != nil {
		return q.entities, nil
	}
	r, err := q.Result(ctx, q.from.Alias)
	if err != nil {
		return nil, err
	}
	q.entities = r.Rows()
	return q.entities, nil
}

// Entity returns the first row of the FROM alias, or nil when there is none.
func (q *Query) Entity(ctx context.Context) (hydrate.Row, error) {
	rows, err := q.Entities(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
