// Package mysql provides the MySQL dialect renderer for dql.
package mysql

import (
	"strconv"
	"strings"

	"github.com/zoobzio/dql/internal/render"
	"github.com/zoobzio/dql/internal/types"
)

// maxRows stands in for a missing LIMIT when only OFFSET is set.
const maxRows = "18446744073709551615"

// maxParameters is the prepared statement placeholder limit.
const maxParameters = 65535

// Renderer implements the MySQL dialect renderer.
type Renderer struct{}

// New creates a new MySQL renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render converts a statement to a QueryResult with MySQL SQL.
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
	return "MySQL"
}

// QuoteIdentifier quotes with backticks, doubling embedded ones.
func (r *Renderer) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, "`", "``")
	return "`" + escaped + "`"
}

// Placeholder returns ?.
func (r *Renderer) Placeholder(int) string {
	return "?"
}

// LimitOffset renders LIMIT and OFFSET. OFFSET is only valid after LIMIT.
func (r *Renderer) LimitOffset(limit, offset int) string {
	var sql strings.Builder
	switch {
	case limit > 0:
		sql.WriteString(" LIMIT ")
		sql.WriteString(strconv.Itoa(limit))
	case offset > 0:
		sql.WriteString(" LIMIT ")
		sql.WriteString(maxRows)
	}
	if offset > 0 {
		sql.WriteString(" OFFSET ")
		sql.WriteString(strconv.Itoa(offset))
	}
	return sql.String()
}

// Capabilities returns the SQL features supported by MySQL.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		MaxParameters: maxParameters,
	}
}
