package dql

import (
	"context"
	"database/sql"

	"github.com/zoobzio/dql/internal/types"
)

// Renderer defines the interface for SQL dialect-specific rendering.
// Implementations convert a compiled statement to SQL with positional
// parameters in the dialect's placeholder syntax.
type Renderer interface {
	// Render converts a statement to a QueryResult.
	Render(stmt *types.Statement) (*types.QueryResult, error)

	// RenderCount converts a statement to a query counting its rows.
	RenderCount(stmt *types.Statement) (*types.QueryResult, error)
}

// Querier executes rendered statements. *sql.DB, *sql.Tx and *sql.Conn
// satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
