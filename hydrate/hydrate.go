// Package hydrate rebuilds per-alias result sets from the flat rows of a
// compiled query, using the query's hydration metadata.
//
// Each selected column arrives as alias__column. Build splits the columns by
// alias, keeps one row per primary key value in first-seen order and skips
// rows whose primary key is NULL, which is how a LEFT JOIN miss shows up.
package hydrate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zoobzio/dql/internal/types"
)

// Separator joins an alias and a column in projected column names.
const Separator = "__"

// Row is one entity row: unprefixed column name to value.
type Row map[string]any

// Result holds the deduplicated rows of one alias.
type Result struct {
	alias      string
	table      string
	primaryKey string
	keys       []any
	rows       map[any]Row
	skipped    int
}

// Alias returns the alias the result was built for.
func (r *Result) Alias() string { return r.alias }

// Table returns the table the alias is bound to.
func (r *Result) Table() string { return r.table }

// PrimaryKey returns the primary key column of the table.
func (r *Result) PrimaryKey() string { return r.primaryKey }

// Len returns the number of distinct rows.
func (r *Result) Len() int { return len(r.keys) }

// Skipped returns how many flat rows carried a NULL primary key for the alias.
func (r *Result) Skipped() int { return r.skipped }

// Keys returns primary key values in first-seen order.
func (r *Result) Keys() []any {
	out := make([]any, len(r.keys))
	copy(out, r.keys)
	return out
}

// Get returns the row with the given primary key value.
func (r *Result) Get(key any) (Row, bool) {
	row, ok := r.rows[normalizeKey(key)]
	return row, ok
}

// Rows returns all rows in first-seen order.
func (r *Result) Rows() []Row {
	out := make([]Row, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.rows[k]
	}
	return out
}

// Graph is the set of results for one query execution.
type Graph struct {
	meta    *types.Meta
	order   []string
	results map[string]*Result
}

// Build splits flat rows into one result per alias. Every alias must have
// a table prefix and a primary key recorded in meta.
func Build(rows []map[string]any, meta *types.Meta, aliases []string) (*Graph, error) {
	g := &Graph{meta: meta, results: make(map[string]*Result, len(aliases))}
	owners := newColumnOwners(aliases)

	for _, alias := range aliases {
		if _, dup := g.results[alias]; dup {
			continue
		}
		table, ok := meta.TablePrefix(alias)
		if !ok {
			return nil, fmt.Errorf("hydrate: alias %q has no table prefix", alias)
		}
		pk, ok := meta.PrimaryKey(table)
		if !ok {
			return nil, fmt.Errorf("hydrate: table %q of alias %q has no primary key", table, alias)
		}
		r := &Result{alias: alias, table: table, primaryKey: pk, rows: make(map[any]Row)}
		g.results[alias] = r
		g.order = append(g.order, alias)

		prefix := alias + Separator
		pkColumn := prefix + pk
		for i, flat := range rows {
			value, present := flat[pkColumn]
			if !present {
				return nil, fmt.Errorf("hydrate: row %d lacks primary key column %q", i, pkColumn)
			}
			if value == nil {
				r.skipped++
				continue
			}
			key := normalizeKey(value)
			if _, seen := r.rows[key]; seen {
				continue
			}
			row := make(Row)
			for col, v := range flat {
				if owners.of(col) != alias {
					continue
				}
				row[strings.TrimPrefix(col, prefix)] = v
			}
			r.keys = append(r.keys, key)
			r.rows[key] = row
		}
	}
	return g, nil
}

// columnOwners assigns each projected column to the longest alias whose
// prefix it carries, so b___id belongs to b_ and not to b.
type columnOwners struct {
	aliases []string
	cache   map[string]string
}

func newColumnOwners(aliases []string) *columnOwners {
	return &columnOwners{aliases: aliases, cache: make(map[string]string)}
}

func (o *columnOwners) of(col string) string {
	if owner, ok := o.cache[col]; ok {
		return owner
	}
	owner := ""
	for _, alias := range o.aliases {
		if len(alias) > len(owner) && strings.HasPrefix(col, alias+Separator) {
			owner = alias
		}
	}
	o.cache[col] = owner
	return owner
}

// Aliases returns the hydrated aliases in build order.
func (g *Graph) Aliases() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Result returns the result of an alias.
func (g *Graph) Result(alias string) (*Result, bool) {
	r, ok := g.results[alias]
	return r, ok
}

// Related returns the rows of alias to that row of alias from relates to,
// following the relationship recorded between the two aliases in either
// orientation.
func (g *Graph) Related(from string, row Row, to string) ([]Row, error) {
	target, ok := g.results[to]
	if !ok {
		return nil, fmt.Errorf("hydrate: no result for alias %q", to)
	}
	rel, ok := g.relationship(from, to)
	if !ok {
		return nil, fmt.Errorf("hydrate: no relationship between %q and %q", from, to)
	}

	// The holder side carries the foreign key column; the other side is
	// matched on its primary key.
	holder := rel.SourceAlias
	if rel.Direction == types.Referencing {
		holder = rel.TargetAlias
	}
	var local, remote string
	if from == holder {
		local, remote = rel.Column, rel.PrimaryKey
	} else {
		local, remote = rel.PrimaryKey, rel.Column
	}

	value, ok := row[local]
	if !ok {
		return nil, fmt.Errorf("hydrate: row of %q lacks column %q", from, local)
	}
	if value == nil {
		return nil, nil
	}
	want := normalizeKey(value)

	var out []Row
	for _, k := range target.keys {
		candidate := target.rows[k]
		if v, ok := candidate[remote]; ok && v != nil && normalizeKey(v) == want {
			out = append(out, candidate)
		}
	}
	return out, nil
}

func (g *Graph) relationship(a, b string) (types.Relationship, bool) {
	for _, rel := range g.meta.Relationships() {
		if (rel.SourceAlias == a && rel.TargetAlias == b) || (rel.SourceAlias == b && rel.TargetAlias == a) {
			return rel, true
		}
	}
	return types.Relationship{}, false
}

// normalizeKey makes key values usable as map keys and comparable across
// drivers that return different integer widths.
func normalizeKey(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case int8:
		return int64(x)
	case uint32:
		return int64(x)
	case uint16:
		return int64(x)
	case uint8:
		return int64(x)
	}
	if v != nil && !reflect.TypeOf(v).Comparable() {
		return fmt.Sprint(v)
	}
	return v
}
