// Package testing provides test utilities for dql: a small library schema
// (authors, books, tags), its fixtures and SQL assertions.
package testing

import (
	"reflect"
	"strings"
	"testing"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/dql"
	"github.com/zoobzio/dql/schema"
)

// Author is the library author entity.
type Author struct {
	_     struct{} `table:"authors"`
	ID    int64    `db:"id,pk"`
	Name  string
	Books []Book `dql:"belongsTo,author_id"`
}

// Book is the library book entity.
type Book struct {
	_        struct{} `table:"books"`
	ID       int64    `db:"id,pk"`
	Title    string
	Pages    int64
	AuthorID int64
	Author   *Author `dql:"hasOne,author_id"`
	Tags     []Tag   `dql:"hasMany,book_tag,book_id,tag_id"`
}

// Tag is the library tag entity.
type Tag struct {
	_     struct{} `table:"tags"`
	ID    int64    `db:"id,pk"`
	Label string
}

// Fixtures creates and fills the library tables. Every statement runs on
// PostgreSQL, MySQL, MariaDB, SQL Server and SQLite.
var Fixtures = []string{
	`CREATE TABLE authors (id INT PRIMARY KEY, name VARCHAR(100) NOT NULL)`,
	`CREATE TABLE books (id INT PRIMARY KEY, title VARCHAR(200) NOT NULL, pages INT NOT NULL, author_id INT NOT NULL)`,
	`CREATE TABLE tags (id INT PRIMARY KEY, label VARCHAR(50) NOT NULL)`,
	`CREATE TABLE book_tag (id INT PRIMARY KEY, book_id INT NOT NULL, tag_id INT NOT NULL)`,
	`INSERT INTO authors (id, name) VALUES (1, 'Tolkien'), (2, 'Herbert'), (3, 'Le Guin')`,
	`INSERT INTO books (id, title, pages, author_id) VALUES
		(1, 'The Hobbit', 310, 1),
		(2, 'The Silmarillion', 365, 1),
		(3, 'Dune', 412, 2),
		(4, 'Unfinished Tales', 472, 1),
		(5, 'A Wizard of Earthsea', 183, 3)`,
	`INSERT INTO tags (id, label) VALUES (1, 'fantasy'), (2, 'classic'), (3, '100%_pure')`,
	`INSERT INTO book_tag (id, book_id, tag_id) VALUES (1, 1, 1), (2, 1, 2), (3, 2, 1), (4, 3, 2), (5, 5, 1), (6, 5, 3)`,
}

// Teardown drops the library tables in dependency order.
var Teardown = []string{
	`DROP TABLE book_tag`,
	`DROP TABLE tags`,
	`DROP TABLE books`,
	`DROP TABLE authors`,
}

// Library returns a registry describing the library schema.
func Library(t testing.TB) *schema.Registry {
	t.Helper()

	r := schema.NewRegistry()
	for _, register := range []func(*schema.Registry) error{
		schema.Inspect[Author],
		schema.Inspect[Book],
		schema.Inspect[Tag],
	} {
		if err := register(r); err != nil {
			t.Fatalf("Failed to register entity: %v", err)
		}
	}
	if err := r.RegisterTable("book_tag", "id"); err != nil {
		t.Fatalf("Failed to register association table: %v", err)
	}
	if err := r.ValidateDBML(LibraryProject()); err != nil {
		t.Fatalf("Library schema does not match its DBML project: %v", err)
	}
	return r
}

// LibraryProject returns the DBML project matching Fixtures.
func LibraryProject() *dbml.Project {
	project := dbml.NewProject("library")

	authors := dbml.NewTable("authors")
	authors.AddColumn(dbml.NewColumn("id", "int"))
	authors.AddColumn(dbml.NewColumn("name", "varchar"))
	project.AddTable(authors)

	books := dbml.NewTable("books")
	books.AddColumn(dbml.NewColumn("id", "int"))
	books.AddColumn(dbml.NewColumn("title", "varchar"))
	books.AddColumn(dbml.NewColumn("pages", "int"))
	books.AddColumn(dbml.NewColumn("author_id", "int"))
	project.AddTable(books)

	tags := dbml.NewTable("tags")
	tags.AddColumn(dbml.NewColumn("id", "int"))
	tags.AddColumn(dbml.NewColumn("label", "varchar"))
	project.AddTable(tags)

	bookTag := dbml.NewTable("book_tag")
	bookTag.AddColumn(dbml.NewColumn("id", "int"))
	bookTag.AddColumn(dbml.NewColumn("book_id", "int"))
	bookTag.AddColumn(dbml.NewColumn("tag_id", "int"))
	project.AddTable(bookTag)

	return project
}

// Engine creates an engine over the library schema.
func Engine(t testing.TB, opts ...dql.Option) *dql.Engine {
	t.Helper()
	e, err := dql.New(Library(t), opts...)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return e
}

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t testing.TB, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertArgs checks the bound arguments in order.
func AssertArgs(t testing.TB, expected, actual []any) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("Arg count mismatch: expected %d, got %d\nExpected: %v\nActual: %v",
			len(expected), len(actual), expected, actual)
		return
	}
	for i := range expected {
		if !reflect.DeepEqual(expected[i], actual[i]) {
			t.Errorf("Arg %d mismatch: expected %#v, got %#v", i+1, expected[i], actual[i])
		}
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t testing.TB, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}
