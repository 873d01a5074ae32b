// Package mariadb provides the MariaDB dialect renderer for dql.
// MariaDB shares MySQL syntax; only the reported name differs.
package mariadb

import (
	"github.com/zoobzio/dql/internal/render"
	"github.com/zoobzio/dql/internal/types"
	"github.com/zoobzio/dql/mysql"
)

// Renderer implements the MariaDB dialect renderer.
type Renderer struct {
	*mysql.Renderer
}

// New creates a new MariaDB renderer.
func New() *Renderer {
	return &Renderer{Renderer: mysql.New()}
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return "MariaDB"
}

// Render converts a statement to a QueryResult with MariaDB SQL.
func (r *Renderer) Render(stmt *types.Statement) (*types.QueryResult, error) {
	return render.Statement(r, stmt)
}

// RenderCount converts a statement to a query counting its rows.
func (r *Renderer) RenderCount(stmt *types.Statement) (*types.QueryResult, error) {
	return render.Count(r, stmt)
}
