// Package mssql provides the SQL Server dialect renderer for dql.
package mssql

import (
	"strconv"
	"strings"

	"github.com/zoobzio/dql/internal/render"
	"github.com/zoobzio/dql/internal/types"
)

// maxParameters is the RPC parameter limit of SQL Server.
const maxParameters = 2100

// Renderer implements the SQL Server dialect renderer.
type Renderer struct{}

// New creates a new SQL Server renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render converts a statement to a QueryResult with T-SQL.
// Parameters use @p1, @p2, ... placeholders.
func (r *Renderer) Render(stmt *types.Statement) (*types.QueryResult, error) {
	return render.Statement(r, stmt)
}

// RenderCount converts a statement to a query counting its rows.
func (r *Renderer) RenderCount(stmt *types.Statement) (*types.QueryResult, error) {
	return render.Count(r, stmt)
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return "SQL Server"
}

// QuoteIdentifier quotes with brackets, doubling embedded closing brackets.
func (r *Renderer) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, "]", "]]")
	return "[" + escaped + "]"
}

// Placeholder returns @pN.
func (r *Renderer) Placeholder(n int) string {
	return "@p" + strconv.Itoa(n)
}

// LimitOffset renders OFFSET ... FETCH NEXT. SQL Server has no LIMIT, and
// FETCH needs an OFFSET, so a limit alone is rendered with OFFSET 0.
func (r *Renderer) LimitOffset(limit, offset int) string {
	if limit <= 0 && offset <= 0 {
		return ""
	}
	var sql strings.Builder
	sql.WriteString(" OFFSET ")
	sql.WriteString(strconv.Itoa(max(offset, 0)))
	sql.WriteString(" ROWS")
	if limit > 0 {
		sql.WriteString(" FETCH NEXT ")
		sql.WriteString(strconv.Itoa(limit))
		sql.WriteString(" ROWS ONLY")
	}
	return sql.String()
}

// Capabilities returns the SQL features supported by SQL Server.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		OffsetRequiresOrderBy: true,
		MaxParameters:         maxParameters,
	}
}
