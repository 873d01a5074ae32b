// Package postgres provides the PostgreSQL dialect renderer for dql.
package postgres

import (
	"strconv"
	"strings"

	"github.com/zoobzio/dql/internal/render"
	"github.com/zoobzio/dql/internal/types"
)

// maxParameters is the wire protocol limit on bind parameters.
const maxParameters = 65535

// Renderer implements the PostgreSQL dialect renderer.
type Renderer struct{}

// New creates a new PostgreSQL renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render converts a statement to a QueryResult with PostgreSQL SQL.
// Parameters use $1, $2, ... placeholders.
func (r *Renderer) Render(stmt *types.Statement) (*types.QueryResult, error) {
	return render.Statement(r, stmt)
}

// RenderCount converts a statement to a query counting its rows.
func (r *Renderer) RenderCount(stmt *types.Statement) (*types.QueryResult, error) {
	return render.Count(r, stmt)
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return "PostgreSQL"
}

// QuoteIdentifier quotes with double quotes, doubling embedded ones.
func (r *Renderer) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

// Placeholder returns $n.
func (r *Renderer) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// LimitOffset renders LIMIT and OFFSET.
func (r *Renderer) LimitOffset(limit, offset int) string {
	var sql strings.Builder
	if limit > 0 {
		sql.WriteString(" LIMIT ")
		sql.WriteString(strconv.Itoa(limit))
	}
	if offset > 0 {
		sql.WriteString(" OFFSET ")
		sql.WriteString(strconv.Itoa(offset))
	}
	return sql.String()
}

// Capabilities returns the SQL features supported by PostgreSQL.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		MaxParameters: maxParameters,
	}
}
