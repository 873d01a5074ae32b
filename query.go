package dql

import (
	"regexp"
	"strings"

	"github.com/zoobzio/dql/hydrate"
	"github.com/zoobzio/dql/internal/lexer"
	"github.com/zoobzio/dql/internal/suggest"
	"github.com/zoobzio/dql/internal/types"
)

var (
	identifier = regexp.MustCompile(`^` + lexer.Identifier + `$`)
	selectList = regexp.MustCompile(`^\s*(` + lexer.Identifier + `\s*,\s*)*` + lexer.Identifier + `\s*$`)
)

// Query builds one domain query. It is not safe for concurrent use.
//
// The first failing call records its error and turns every later fluent
// call into a no-op; Err reports it and Compile, Render and the result
// methods return it. A failing call never changes the query.
//
// Any successful fluent call discards the compiled statement and fetched
// results, so the next Compile reflects the current state.
type Query struct {
	engine  *Engine
	aliases aliasRegistry
	index   joinIndex
	meta    *types.Meta

	from       types.Table
	fromEntity string
	fromKey    string

	selected    []string
	selectedSet map[string]struct{}
	sqlSelect   []types.Fragment
	joins       []types.Join
	where       types.Fragment
	ordering    []types.OrderBy
	groupBy     []types.Fragment
	having      []types.Fragment
	sqlOrderBy  []types.Fragment
	limit       int
	offset      int

	err      error
	stmt     *types.Statement
	graph    *hydrate.Graph
	entities []hydrate.Row
}

func newQuery(e *Engine) *Query {
	return &Query{
		engine:      e,
		aliases:     newAliasRegistry(),
		index:       newJoinIndex(),
		meta:        types.NewMeta(),
		selectedSet: make(map[string]struct{}),
	}
}

// Err returns the error recorded by the first failing call, if any.
func (q *Query) Err() error {
	return q.err
}

func (q *Query) fail(err error) *Query {
	q.err = err
	return q
}

func (q *Query) invalidate() {
	q.stmt = nil
	q.graph = nil
	q.entities = nil
}

// Select adds a comma separated list of aliases to project. Aliases
// already selected are ignored.
func (q *Query) Select(aliases string) *Query {
	if q.err != nil {
		return q
	}
	if !selectList.MatchString(aliases) {
		return q.fail(&MalformedSelectListError{List: aliases})
	}
	for _, alias := range strings.Split(aliases, ",") {
		alias = strings.TrimSpace(alias)
		if _, ok := q.selectedSet[alias]; ok {
			continue
		}
		q.selectedSet[alias] = struct{}{}
		q.selected = append(q.selected, alias)
	}
	q.invalidate()
	return q
}

// From sets the root entity of the query and binds alias to it.
func (q *Query) From(entity, alias string) *Query {
	if q.err != nil {
		return q
	}
	if q.fromEntity != "" {
		return q.fail(&FromAlreadySetError{Entity: q.fromEntity, Alias: q.from.Alias})
	}
	if !identifier.MatchString(alias) {
		return q.fail(&InvalidAliasError{Alias: alias})
	}
	if err := q.aliases.check(alias, entity); err != nil {
		return q.fail(err)
	}
	table, err := q.engine.provider.Table(entity)
	if err != nil {
		return q.fail(err)
	}
	pk, err := q.engine.provider.PrimaryKey(table)
	if err != nil {
		return q.fail(err)
	}
	if err := q.aliases.bind(alias, entity); err != nil {
		return q.fail(err)
	}

	q.from = types.Table{Name: table, Alias: alias}
	q.fromEntity = entity
	q.fromKey = pk
	q.meta.RecordTablePrefix(alias, table)
	q.meta.RecordPrimaryKey(table, pk)
	q.invalidate()
	return q
}

// Join inner-joins the relationship at path (alias.property) as alias.
// Trailing arguments form an extra ON condition AND-ed to the join and may
// reference the new alias.
//
//	q.Join("b.author", "a", "a.active = %b", true)
func (q *Query) Join(path, alias string, on ...any) *Query {
	return q.join(types.InnerJoin, path, alias, on)
}

// LeftJoin is like Join but produces LEFT JOIN clauses.
func (q *Query) LeftJoin(path, alias string, on ...any) *Query {
	return q.join(types.LeftJoin, path, alias, on)
}

func (q *Query) join(kind types.JoinKind, path, alias string, on []any) *Query {
	if q.err != nil {
		return q
	}
	r := &joinResolver{provider: q.engine.provider, aliases: &q.aliases, index: &q.index}
	plan, err := r.resolve(path, alias, kind, on)
	if err != nil {
		return q.fail(err)
	}
	if err := q.aliases.bind(plan.alias, plan.entity); err != nil {
		return q.fail(err)
	}

	if plan.association != nil {
		q.index.commit(plan.association.Alias, plan.table)
		q.meta.RecordAssociation(plan.alias, *plan.association)
	}
	q.joins = append(q.joins, plan.joins...)
	for _, p := range plan.prefixes {
		q.meta.RecordTablePrefix(p.alias, p.table)
	}
	for _, k := range plan.keys {
		q.meta.RecordPrimaryKey(k.table, k.column)
	}
	for _, r := range plan.relationships {
		q.meta.RecordRelationship(r.owner, r.rel)
	}
	q.invalidate()
	return q
}

// Where adds a condition. Templates may reference alias.property paths;
// each following argument binds one placeholder or modifier of the
// template before it. Conditions of separate calls, and separate templates
// of one call, are AND-ed.
//
//	q.Where("b.title = %s", "Dune", "b.pages > %i", 300)
func (q *Query) Where(args ...any) *Query {
	if q.err != nil || len(args) == 0 {
		return q
	}
	t := &translator{provider: q.engine.provider, resolve: q.aliases.resolve}
	where, err := t.where(q.where, args)
	if err != nil {
		return q.fail(err)
	}
	q.where = where
	q.invalidate()
	return q
}

// OrderBy orders by a mapped property given as alias.property.
func (q *Query) OrderBy(path string, direction Direction) *Query {
	if q.err != nil {
		return q
	}
	dir := Direction(strings.ToUpper(string(direction)))
	if dir != types.ASC && dir != types.DESC {
		return q.fail(&InvalidDirectionError{Direction: direction})
	}
	m := dotPath.FindStringSubmatch(path)
	if m == nil {
		return q.fail(&InvalidPathError{Path: path})
	}
	alias, name := m[1], m[2]

	entity, err := q.aliases.resolve(alias)
	if err != nil {
		return q.fail(err)
	}
	p, ok := q.engine.provider.Property(entity, name)
	if !ok {
		return q.fail(&UnknownPropertyError{
			Entity:     entity,
			Property:   name,
			Suggestion: suggest.Closest(propertyNames(q.engine.provider.Properties(entity)), name),
		})
	}
	if p.HasRelation() {
		return q.fail(&RelationshipOrderError{Alias: alias, Property: name})
	}
	if p.Column == "" {
		return q.fail(&UnmappedColumnError{Entity: entity, Property: name})
	}

	q.ordering = append(q.ordering, types.OrderBy{Alias: alias, Column: p.Column, Direction: dir})
	q.invalidate()
	return q
}

// OrderByAsc orders by path ascending.
func (q *Query) OrderByAsc(path string) *Query {
	return q.OrderBy(path, types.ASC)
}

// OrderByDesc orders by path descending.
func (q *Query) OrderByDesc(path string) *Query {
	return q.OrderBy(path, types.DESC)
}

// SQLSelect adds a native SELECT expression after the entity projections.
// Native clauses are passed to the renderer untranslated.
func (q *Query) SQLSelect(args ...any) *Query {
	return q.native(&q.sqlSelect, args)
}

// SQLGroupBy adds a native GROUP BY expression.
func (q *Query) SQLGroupBy(args ...any) *Query {
	return q.native(&q.groupBy, args)
}

// SQLHaving adds a native HAVING condition. Conditions are AND-ed.
func (q *Query) SQLHaving(args ...any) *Query {
	return q.native(&q.having, args)
}

// SQLOrderBy adds a native ORDER BY expression, emitted after the
// OrderBy terms.
func (q *Query) SQLOrderBy(args ...any) *Query {
	return q.native(&q.sqlOrderBy, args)
}

func (q *Query) native(list *[]types.Fragment, args []any) *Query {
	if q.err != nil || len(args) == 0 {
		return q
	}
	f := make(types.Fragment, len(args))
	copy(f, args)
	*list = append(*list, f)
	q.invalidate()
	return q
}

// Limit caps the number of rows. Zero removes the limit.
func (q *Query) Limit(n int) *Query {
	if q.err != nil {
		return q
	}
	if n < 0 {
		return q.fail(&InvalidPaginationError{Clause: "LIMIT", Value: n})
	}
	q.limit = n
	q.invalidate()
	return q
}

// Offset skips the first n rows. Zero removes the offset.
func (q *Query) Offset(n int) *Query {
	if q.err != nil {
		return q
	}
	if n < 0 {
		return q.fail(&InvalidPaginationError{Clause: "OFFSET", Value: n})
	}
	q.offset = n
	q.invalidate()
	return q
}

// NeedsCountSubquery reports whether a native GROUP BY was added, in which
// case rows can only be counted by wrapping the grouped statement.
func (q *Query) NeedsCountSubquery() bool {
	return len(q.groupBy) > 0
}

// Meta returns the hydration metadata gathered so far. It must not be modified.
func (q *Query) Meta() *Meta {
	return q.meta
}

// ResultAliases returns the aliases a fetch hydrates: the selected aliases,
// each followed by the association alias its many-valued join introduced.
func (q *Query) ResultAliases() []string {
	out := make([]string, 0, len(q.selected))
	for _, alias := range q.selected {
		out = append(out, alias)
		if p, ok := q.meta.Association(alias); ok {
			out = append(out, p.Alias)
		}
	}
	return out
}
