package dql

import (
	"fmt"
	"testing"

	"github.com/zoobzio/dql/postgres"
)

// fakeProvider is an in-memory Provider.
type fakeProvider struct {
	tables     map[string]string // entity -> table
	keys       map[string]string // table -> primary key
	properties map[string][]Property
}

func (f *fakeProvider) Table(entity string) (string, error) {
	t, ok := f.tables[entity]
	if !ok {
		return "", &UnknownEntityError{Entity: entity}
	}
	return t, nil
}

func (f *fakeProvider) PrimaryKey(table string) (string, error) {
	pk, ok := f.keys[table]
	if !ok {
		return "", fmt.Errorf("%w: no table %s", ErrResolution, table)
	}
	return pk, nil
}

func (f *fakeProvider) Property(entity, name string) (Property, bool) {
	for _, p := range f.properties[entity] {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

func (f *fakeProvider) Properties(entity string) []Property {
	return f.properties[entity]
}

// library models books with an author (HasOne), tags (HasMany through
// book_tag) and reviews (BelongsTo).
func library() *fakeProvider {
	return &fakeProvider{
		tables: map[string]string{
			"Book":   "books",
			"Author": "authors",
			"Tag":    "tags",
			"Review": "reviews",
		},
		keys: map[string]string{
			"books":    "id",
			"authors":  "id",
			"tags":     "id",
			"reviews":  "id",
			"book_tag": "id",
		},
		properties: map[string][]Property{
			"Book": {
				{Name: "id", Column: "id"},
				{Name: "title", Column: "title"},
				{Name: "pages", Column: "pages"},
				{Name: "author", Column: "author_id", Relation: &Relation{Kind: HasOne, Target: "Author", Column: "author_id"}},
				{Name: "tags", Relation: &Relation{Kind: HasMany, Target: "Tag", Table: "book_tag", SourceColumn: "book_id", TargetColumn: "tag_id"}},
				{Name: "reviews", Relation: &Relation{Kind: BelongsTo, Target: "Review", Column: "book_id"}},
				{Name: "summary"},
			},
			"Author": {
				{Name: "id", Column: "id"},
				{Name: "name", Column: "name"},
				{Name: "age", Column: "age"},
				{Name: "active", Column: "active"},
				{Name: "books", Relation: &Relation{Kind: BelongsTo, Target: "Book", Column: "author_id"}},
			},
			"Tag": {
				{Name: "id", Column: "id"},
				{Name: "label", Column: "label"},
			},
			"Review": {
				{Name: "id", Column: "id"},
				{Name: "rating", Column: "rating"},
				{Name: "bookId", Column: "book_id"},
			},
		},
	}
}

func testEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithRenderer(postgres.New())}, opts...)
	e, err := New(library(), opts...)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return e
}
