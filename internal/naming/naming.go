// Package naming derives default table and column names from Go names.
package naming

import (
	"sync"

	"github.com/go-openapi/inflect"
)

var (
	once  sync.Once
	rules *inflect.Ruleset
)

func ruleset() *inflect.Ruleset {
	once.Do(func() {
		rules = inflect.NewDefaultRuleset()
		for _, acronym := range []string{"UUID", "ID", "URL", "API", "HTML", "JSON", "SQL"} {
			rules.AddAcronym(acronym)
		}
	})
	return rules
}

// Column returns the snake_case column name of a field: AuthorID becomes author_id.
func Column(field string) string {
	return ruleset().Underscore(field)
}

// Table returns the plural snake_case table name of an entity: BookTag becomes book_tags.
func Table(entity string) string {
	r := ruleset()
	return r.Underscore(r.Pluralize(entity))
}
