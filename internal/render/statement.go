package render

import (
	"fmt"
	"strings"

	"github.com/zoobzio/dql/internal/types"
)

// Statement renders a compiled statement. Clauses are emitted in SQL order:
// SELECT, FROM, JOIN, WHERE, GROUP BY, HAVING, ORDER BY, pagination.
func Statement(d Dialect, stmt *types.Statement) (*types.QueryResult, error) {
	if err := stmt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid statement: %w", err)
	}

	tr := NewTranslator(d)
	var sql strings.Builder
	if err := writeSelect(tr, stmt, &sql); err != nil {
		return nil, err
	}
	if err := writeSource(tr, stmt, &sql); err != nil {
		return nil, err
	}
	if err := writeGrouping(tr, stmt, &sql); err != nil {
		return nil, err
	}
	ordered, err := writeOrdering(tr, stmt, &sql)
	if err != nil {
		return nil, err
	}
	writePagination(d, stmt, ordered, &sql)

	return finish(d, tr, sql.String())
}

// Count renders a statement counting the rows of stmt. Grouped statements
// are wrapped in a subquery; others count distinct FROM keys over the
// joined and filtered source.
func Count(d Dialect, stmt *types.Statement) (*types.QueryResult, error) {
	if err := stmt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid statement: %w", err)
	}

	tr := NewTranslator(d)
	var sql strings.Builder

	if len(stmt.GroupBy) > 0 {
		sql.WriteString("SELECT COUNT(*) FROM (")
		if err := writeSelect(tr, stmt, &sql); err != nil {
			return nil, err
		}
		if err := writeSource(tr, stmt, &sql); err != nil {
			return nil, err
		}
		if err := writeGrouping(tr, stmt, &sql); err != nil {
			return nil, err
		}
		sql.WriteString(") AS count_query")
		return finish(d, tr, sql.String())
	}

	if stmt.FromKey != "" {
		sql.WriteString("SELECT COUNT(DISTINCT ")
		sql.WriteString(d.QuoteIdentifier(stmt.From.Alias))
		sql.WriteString(".")
		sql.WriteString(d.QuoteIdentifier(stmt.FromKey))
		sql.WriteString(")")
	} else {
		sql.WriteString("SELECT COUNT(*)")
	}
	if err := writeSource(tr, stmt, &sql); err != nil {
		return nil, err
	}
	return finish(d, tr, sql.String())
}

func writeSelect(tr *Translator, stmt *types.Statement, sql *strings.Builder) error {
	sql.WriteString("SELECT ")
	items := make([]string, 0, len(stmt.Select))
	for i, f := range stmt.Select {
		s, err := tr.Fragment(f)
		if err != nil {
			return fmt.Errorf("select %d: %w", i, err)
		}
		items = append(items, s)
	}
	sql.WriteString(strings.Join(items, ", "))
	return nil
}

func writeSource(tr *Translator, stmt *types.Statement, sql *strings.Builder) error {
	sql.WriteString(" FROM ")
	sql.WriteString(renderTable(tr.dialect, stmt.From))

	for _, join := range stmt.Joins {
		sql.WriteString(" ")
		sql.WriteString(string(join.Kind))
		sql.WriteString(" ")
		sql.WriteString(renderTable(tr.dialect, join.Table))
		sql.WriteString(" ON ")
		on, err := tr.Fragment(join.On)
		if err != nil {
			return fmt.Errorf("join %s: %w", join.Table.Alias, err)
		}
		sql.WriteString(on)
		if len(join.Extra) > 0 {
			extra, err := tr.Fragment(join.Extra)
			if err != nil {
				return fmt.Errorf("join %s condition: %w", join.Table.Alias, err)
			}
			sql.WriteString(" AND (")
			sql.WriteString(extra)
			sql.WriteString(")")
		}
	}

	if len(stmt.Where) > 0 {
		where, err := tr.Fragment(stmt.Where)
		if err != nil {
			return fmt.Errorf("where: %w", err)
		}
		sql.WriteString(" WHERE ")
		sql.WriteString(where)
	}
	return nil
}

func writeGrouping(tr *Translator, stmt *types.Statement, sql *strings.Builder) error {
	if len(stmt.GroupBy) > 0 {
		items, err := fragments(tr, stmt.GroupBy)
		if err != nil {
			return fmt.Errorf("group by: %w", err)
		}
		sql.WriteString(" GROUP BY ")
		sql.WriteString(strings.Join(items, ", "))
	}
	if len(stmt.Having) > 0 {
		items, err := fragments(tr, stmt.Having)
		if err != nil {
			return fmt.Errorf("having: %w", err)
		}
		sql.WriteString(" HAVING ")
		sql.WriteString(strings.Join(items, " AND "))
	}
	return nil
}

// writeOrdering emits domain ordering followed by native ordering and
// reports whether an ORDER BY clause was written.
func writeOrdering(tr *Translator, stmt *types.Statement, sql *strings.Builder) (bool, error) {
	items := make([]string, 0, len(stmt.Ordering)+len(stmt.SQLOrderBy))
	for _, o := range stmt.Ordering {
		items = append(items, fmt.Sprintf("%s.%s %s",
			tr.dialect.QuoteIdentifier(o.Alias),
			tr.dialect.QuoteIdentifier(o.Column),
			o.Direction))
	}
	native, err := fragments(tr, stmt.SQLOrderBy)
	if err != nil {
		return false, fmt.Errorf("order by: %w", err)
	}
	items = append(items, native...)
	if len(items) == 0 {
		return false, nil
	}
	sql.WriteString(" ORDER BY ")
	sql.WriteString(strings.Join(items, ", "))
	return true, nil
}

func writePagination(d Dialect, stmt *types.Statement, ordered bool, sql *strings.Builder) {
	limit, offset := 0, 0
	if stmt.Limit != nil {
		limit = *stmt.Limit
	}
	if stmt.Offset != nil {
		offset = *stmt.Offset
	}
	if limit == 0 && offset == 0 {
		return
	}
	if !ordered && d.Capabilities().OffsetRequiresOrderBy {
		sql.WriteString(" ORDER BY (SELECT NULL)")
	}
	sql.WriteString(d.LimitOffset(limit, offset))
}

func fragments(tr *Translator, list []types.Fragment) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, f := range list {
		s, err := tr.Fragment(f)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func renderTable(d Dialect, table types.Table) string {
	if table.Alias == "" {
		return d.QuoteIdentifier(table.Name)
	}
	return d.QuoteIdentifier(table.Name) + " AS " + d.QuoteIdentifier(table.Alias)
}

func finish(d Dialect, tr *Translator, sql string) (*types.QueryResult, error) {
	params := tr.Params()
	if limit := d.Capabilities().MaxParameters; limit > 0 && len(params) > limit {
		return nil, NewUnsupportedFeatureError(d.Name(),
			fmt.Sprintf("a statement with %d bound parameters", len(params)),
			fmt.Sprintf("at most %d are allowed", limit))
	}
	return &types.QueryResult{SQL: sql, Args: params}, nil
}
