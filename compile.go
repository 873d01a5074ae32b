package dql

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zoobzio/dql/hydrate"
	"github.com/zoobzio/dql/internal/types"
)

// projectionColumn is the template of one projected column.
const projectionColumn = "%n.%n AS %n"

// Compile builds the statement for the current state of the query. The
// statement is cached and returned again until the query changes.
//
// Clauses come in this order: one projection per selected alias (plus the
// association columns of many-valued joins), native SELECT, FROM, joins,
// WHERE, OrderBy terms, native GROUP BY, native HAVING, native ORDER BY,
// OFFSET and LIMIT.
func (q *Query) Compile() (*Statement, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.stmt != nil {
		return q.stmt, nil
	}

	var missing []string
	if len(q.selected) == 0 {
		missing = append(missing, "SELECT")
	}
	if q.fromEntity == "" {
		missing = append(missing, "FROM")
	}
	if len(missing) > 0 {
		return nil, &IncompleteQueryError{Missing: missing}
	}

	stmt := &types.Statement{
		From:    q.from,
		FromKey: q.fromKey,
	}
	for _, alias := range q.selected {
		projection, err := q.projection(alias)
		if err != nil {
			return nil, err
		}
		stmt.Select = append(stmt.Select, projection)
		if p, ok := q.meta.Association(alias); ok {
			stmt.Select = append(stmt.Select, project(p.Alias, p.Columns()))
		}
	}
	stmt.Select = append(stmt.Select, cloneFragments(q.sqlSelect)...)

	stmt.Joins = make([]types.Join, len(q.joins))
	for i, j := range q.joins {
		j.On = slices.Clone(j.On)
		j.Extra = slices.Clone(j.Extra)
		stmt.Joins[i] = j
	}
	stmt.Where = slices.Clone(q.where)
	stmt.Ordering = slices.Clone(q.ordering)
	stmt.GroupBy = cloneFragments(q.groupBy)
	stmt.Having = cloneFragments(q.having)
	stmt.SQLOrderBy = cloneFragments(q.sqlOrderBy)
	if q.offset > 0 {
		offset := q.offset
		stmt.Offset = &offset
	}
	if q.limit > 0 {
		limit := q.limit
		stmt.Limit = &limit
	}

	q.engine.logger.Debug("query compiled",
		"from", q.fromEntity,
		"aliases", strings.Join(q.selected, ","),
		"joins", len(stmt.Joins),
		"where", len(stmt.Where),
	)
	q.stmt = stmt
	return stmt, nil
}

// projection selects every mapped column of the entity bound to alias,
// primary key first when no property maps it.
func (q *Query) projection(alias string) (types.Fragment, error) {
	entity, err := q.aliases.resolve(alias)
	if err != nil {
		return nil, err
	}
	table, _ := q.meta.TablePrefix(alias)
	pk, _ := q.meta.PrimaryKey(table)

	var columns []string
	seen := make(map[string]struct{})
	for _, p := range q.engine.provider.Properties(entity) {
		if p.Column == "" {
			continue
		}
		if _, dup := seen[p.Column]; dup {
			continue
		}
		seen[p.Column] = struct{}{}
		columns = append(columns, p.Column)
	}
	if _, ok := seen[pk]; !ok && pk != "" {
		columns = append([]string{pk}, columns...)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: entity %s of alias '%s' has no mapped columns", ErrResolution, entity, alias)
	}
	return project(alias, columns), nil
}

func project(alias string, columns []string) types.Fragment {
	templates := make([]string, len(columns))
	f := make(types.Fragment, 1, 1+3*len(columns))
	for i, c := range columns {
		templates[i] = projectionColumn
		f = append(f, alias, c, alias+hydrate.Separator+c)
	}
	f[0] = strings.Join(templates, ", ")
	return f
}

func cloneFragments(list []types.Fragment) []types.Fragment {
	if list == nil {
		return nil
	}
	out := make([]types.Fragment, len(list))
	for i, f := range list {
		out[i] = slices.Clone(f)
	}
	return out
}

// Render compiles the query and renders it with the engine's renderer.
func (q *Query) Render() (*QueryResult, error) {
	stmt, err := q.Compile()
	if err != nil {
		return nil, err
	}
	return q.engine.render(stmt, false)
}

// RenderCount renders a statement counting the rows the query matches.
// See NeedsCountSubquery.
func (q *Query) RenderCount() (*QueryResult, error) {
	stmt, err := q.Compile()
	if err != nil {
		return nil, err
	}
	return q.engine.render(stmt, true)
}
