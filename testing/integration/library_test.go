package integration

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"testing"

	"github.com/zoobzio/dql"
	"github.com/zoobzio/dql/hydrate"
	dqltesting "github.com/zoobzio/dql/testing"
)

// loadLibrary creates the library tables in db and drops them when the
// test finishes.
func loadLibrary(ctx context.Context, t *testing.T, db *sql.DB) {
	t.Helper()
	for _, stmt := range dqltesting.Fixtures {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, stmt)
		}
	}
	t.Cleanup(func() {
		for _, stmt := range dqltesting.Teardown {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				t.Logf("Warning: teardown failed: %v\nSQL: %s", err, stmt)
			}
		}
	})
}

func titles(rows []hydrate.Row) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = fmt.Sprint(row["title"])
	}
	return out
}

func labels(rows []hydrate.Row) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = fmt.Sprint(row["label"])
	}
	slices.Sort(out)
	return out
}

func expectTitles(t *testing.T, rows []hydrate.Row, want ...string) {
	t.Helper()
	if got := titles(rows); !slices.Equal(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
}

// runLibrary runs the shared query suite against db with renderer.
func runLibrary(t *testing.T, db *sql.DB, renderer dql.Renderer) {
	t.Helper()
	ctx := context.Background()
	loadLibrary(ctx, t, db)
	engine := dqltesting.Engine(t, dql.WithRenderer(renderer), dql.WithQuerier(db))

	t.Run("Entities", func(t *testing.T) {
		rows, err := engine.Query().
			Select("b").
			From("Book", "b").
			Join("b.author", "a").
			Where("a.name = %s", "Tolkien").
			OrderByAsc("b.title").
			Entities(ctx)
		if err != nil {
			t.Fatalf("Entities() error = %v", err)
		}
		expectTitles(t, rows, "The Hobbit", "The Silmarillion", "Unfinished Tales")

		var book dqltesting.Book
		if err := rows[0].Decode(&book); err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if book.Title != "The Hobbit" || book.Pages != 310 {
			t.Errorf("decoded book = %+v", book)
		}
	})

	t.Run("Graph", func(t *testing.T) {
		q := engine.Query().
			Select("b, a, t").
			From("Book", "b").
			Join("b.author", "a").
			LeftJoin("b.tags", "t").
			Where("a.name = %s", "Tolkien")
		graph, err := q.Graph(ctx)
		if err != nil {
			t.Fatalf("Graph() error = %v", err)
		}

		books, _ := graph.Result("b")
		authors, _ := graph.Result("a")
		tags, _ := graph.Result("t")
		if books.Len() != 3 || authors.Len() != 1 || tags.Len() != 2 {
			t.Fatalf("result sizes = %d books, %d authors, %d tags", books.Len(), authors.Len(), tags.Len())
		}
		if tags.Skipped() != 1 {
			t.Errorf("tags skipped = %d, want 1", tags.Skipped())
		}

		i := slices.IndexFunc(books.Rows(), func(r hydrate.Row) bool { return fmt.Sprint(r["title"]) == "The Hobbit" })
		if i < 0 {
			t.Fatal("The Hobbit not found")
		}
		hobbit := books.Rows()[i]

		author, err := graph.Related("b", hobbit, "a")
		if err != nil || len(author) != 1 || fmt.Sprint(author[0]["name"]) != "Tolkien" {
			t.Errorf("Related(b, a) = %v, %v", author, err)
		}

		links, err := graph.Related("b", hobbit, "book_tag1")
		if err != nil {
			t.Fatalf("Related(b, book_tag1) error = %v", err)
		}
		var tagged []hydrate.Row
		for _, link := range links {
			rows, err := graph.Related("book_tag1", link, "t")
			if err != nil {
				t.Fatalf("Related(book_tag1, t) error = %v", err)
			}
			tagged = append(tagged, rows...)
		}
		if got := labels(tagged); !slices.Equal(got, []string{"classic", "fantasy"}) {
			t.Errorf("hobbit tags = %v", got)
		}
	})

	t.Run("BelongsTo", func(t *testing.T) {
		q := engine.Query().
			Select("a, b").
			From("Author", "a").
			Join("a.books", "b").
			OrderByAsc("a.name")
		authors, err := q.Entities(ctx)
		if err != nil {
			t.Fatalf("Entities() error = %v", err)
		}
		if len(authors) != 3 || fmt.Sprint(authors[2]["name"]) != "Tolkien" {
			t.Fatalf("authors = %v", authors)
		}
		graph, err := q.Graph(ctx)
		if err != nil {
			t.Fatalf("Graph() error = %v", err)
		}
		books, err := graph.Related("a", authors[2], "b")
		if err != nil || len(books) != 3 {
			t.Errorf("Related(a, b) = %d rows, %v", len(books), err)
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		page := func(limit, offset int) []hydrate.Row {
			t.Helper()
			rows, err := engine.Query().Select("b").From("Book", "b").
				OrderByAsc("b.id").Limit(limit).Offset(offset).Entities(ctx)
			if err != nil {
				t.Fatalf("Entities(limit %d, offset %d) error = %v", limit, offset, err)
			}
			return rows
		}
		expectTitles(t, page(2, 1), "The Silmarillion", "Dune")
		expectTitles(t, page(1, 0), "The Hobbit")
		expectTitles(t, page(0, 3), "Unfinished Tales", "A Wizard of Earthsea")
	})

	t.Run("PaginationWithoutOrder", func(t *testing.T) {
		rows, err := engine.Query().Select("t").From("Tag", "t").Limit(2).Entities(ctx)
		if err != nil {
			t.Fatalf("Entities() error = %v", err)
		}
		if len(rows) != 2 {
			t.Errorf("got %d rows, want 2", len(rows))
		}
	})

	t.Run("Count", func(t *testing.T) {
		res, err := engine.Query().Select("b").From("Book", "b").Join("b.tags", "t").RenderCount()
		if err != nil {
			t.Fatalf("RenderCount() error = %v", err)
		}
		var n int
		if err := db.QueryRowContext(ctx, res.SQL, res.Args...).Scan(&n); err != nil {
			t.Fatalf("count query failed: %v\nSQL: %s", err, res.SQL)
		}
		if n != 4 {
			t.Errorf("count = %d, want 4", n)
		}
	})

	t.Run("Like", func(t *testing.T) {
		rows, err := engine.Query().Select("b").From("Book", "b").
			Where("b.title LIKE %~like~", "Silm").Entities(ctx)
		if err != nil {
			t.Fatalf("Entities() error = %v", err)
		}
		expectTitles(t, rows, "The Silmarillion")

		tags, err := engine.Query().Select("t").From("Tag", "t").
			Where("t.label LIKE %like~", "100%_").Entities(ctx)
		if err != nil {
			t.Fatalf("Entities() error = %v", err)
		}
		if got := labels(tags); !slices.Equal(got, []string{"100%_pure"}) {
			t.Errorf("escaped LIKE matched %v", got)
		}
	})

	t.Run("In", func(t *testing.T) {
		rows, err := engine.Query().Select("b").From("Book", "b").
			Where("b.id IN %in", []int{1, 3}).OrderByAsc("b.id").Entities(ctx)
		if err != nil {
			t.Fatalf("Entities() error = %v", err)
		}
		expectTitles(t, rows, "The Hobbit", "Dune")
	})

	t.Run("CustomOn", func(t *testing.T) {
		q := engine.Query().Select("b, t").From("Book", "b").
			LeftJoin("b.tags", "t", "t.label = %s", "classic")
		graph, err := q.Graph(ctx)
		if err != nil {
			t.Fatalf("Graph() error = %v", err)
		}
		books, _ := graph.Result("b")
		tags, _ := graph.Result("t")
		if books.Len() != 5 {
			t.Errorf("books = %d, want 5", books.Len())
		}
		if got := labels(tags.Rows()); !slices.Equal(got, []string{"classic"}) {
			t.Errorf("tags = %v, want [classic]", got)
		}
	})

	t.Run("Conditions", func(t *testing.T) {
		rows, err := engine.Query().Select("b").From("Book", "b").
			Where("b.pages > %i", 400, "b.pages < ?", 450).
			Entities(ctx)
		if err != nil {
			t.Fatalf("Entities() error = %v", err)
		}
		expectTitles(t, rows, "Dune")
	})
}
