// Package sqlite provides the SQLite dialect renderer for dql.
package sqlite

import (
	"strconv"
	"strings"

	"github.com/zoobzio/dql/internal/render"
	"github.com/zoobzio/dql/internal/types"
)

// maxParameters is SQLITE_MAX_VARIABLE_NUMBER of current builds.
const maxParameters = 32766

// Renderer implements the SQLite dialect renderer.
type Renderer struct{}

// New creates a new SQLite renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render converts a statement to a QueryResult with SQLite SQL.
// Parameters use ? placeholders.
func (r *Renderer) Render(stmt *types.Statement) (*types.QueryResult, error) {
	return render.Statement(r, stmt)
}

// RenderCount converts a statement to a query counting its rows.
func (r *Renderer) RenderCount(stmt *types.Statement) (*types.QueryResult, error) {
	return render.Count(r, stmt)
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return "SQLite"
}

// QuoteIdentifier quotes with double quotes, doubling embedded ones.
func (r *Renderer) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

// Placeholder returns ?.
func (r *Renderer) Placeholder(int) string {
	return "?"
}

// LimitOffset renders LIMIT and OFFSET. SQLite only accepts OFFSET after
// LIMIT, so an offset alone is paired with LIMIT -1.
func (r *Renderer) LimitOffset(limit, offset int) string {
	var sql strings.Builder
	switch {
	case limit > 0:
		sql.WriteString(" LIMIT ")
		sql.WriteString(strconv.Itoa(limit))
	case offset > 0:
		sql.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		sql.WriteString(" OFFSET ")
		sql.WriteString(strconv.Itoa(offset))
	}
	return sql.String()
}

// Capabilities returns the SQL features supported by SQLite.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		MaxParameters: maxParameters,
	}
}
