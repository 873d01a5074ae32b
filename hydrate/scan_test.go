package hydrate

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestScan(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `CREATE TABLE books (id INTEGER PRIMARY KEY, title TEXT, cover BLOB)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO books (id, title, cover) VALUES (1, 'The Hobbit', x'6162'), (2, 'Dune', NULL)`)
	require.NoError(t, err)

	rows, err := db.QueryContext(ctx, `SELECT id AS b__id, title AS b__title, cover AS b__cover FROM books ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	got, err := Scan(rows)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0]["b__id"])
	assert.Equal(t, "The Hobbit", got[0]["b__title"])
	assert.Equal(t, "ab", got[0]["b__cover"])
	assert.Nil(t, got[1]["b__cover"])
}

func TestScanEmpty(t *testing.T) {
	db := openSQLite(t)
	rows, err := db.QueryContext(context.Background(), `SELECT 1 AS x WHERE 0`)
	require.NoError(t, err)
	defer rows.Close()

	got, err := Scan(rows)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type book struct {
	ID        int64
	Title     string
	AuthorID  *int64 `db:"author_id"`
	Rating    float64
	Published bool
	Printed   time.Time
	Ignored   string `db:"-"`
	hidden    string
}

func TestDecode(t *testing.T) {
	row := Row{
		"id":        int64(3),
		"title":     "Dune",
		"author_id": int64(20),
		"rating":    "4.5",
		"published": int64(1),
		"printed":   "1965-08-01",
		"ignored":   "nope",
		"hidden":    "nope",
	}

	var b book
	require.NoError(t, row.Decode(&b))
	assert.Equal(t, int64(3), b.ID)
	assert.Equal(t, "Dune", b.Title)
	require.NotNil(t, b.AuthorID)
	assert.Equal(t, int64(20), *b.AuthorID)
	assert.InDelta(t, 4.5, b.Rating, 0.0001)
	assert.True(t, b.Published)
	assert.Equal(t, 1965, b.Printed.Year())
	assert.Empty(t, b.Ignored)
	assert.Empty(t, b.hidden)
}

func TestDecodeNull(t *testing.T) {
	b := book{Title: "set", AuthorID: new(int64)}
	require.NoError(t, Row{"title": nil, "author_id": nil}.Decode(&b))
	assert.Empty(t, b.Title)
	assert.Nil(t, b.AuthorID)
}

func TestDecodeErrors(t *testing.T) {
	var b book
	assert.Error(t, Row{}.Decode(b))
	assert.Error(t, Row{"id": "seven"}.Decode(&b))
	assert.Error(t, Row{"printed": int64(5)}.Decode(&b))
}

func TestDecodeAll(t *testing.T) {
	g, err := Build(bookRows(), bookMeta(), []string{"a"})
	require.NoError(t, err)
	authors, _ := g.Result("a")

	type author struct {
		ID   int64
		Name string
	}

	var list []author
	require.NoError(t, authors.DecodeAll(&list))
	assert.Equal(t, []author{{10, "Tolkien"}, {20, "Herbert"}}, list)

	var ptrs []*author
	require.NoError(t, authors.DecodeAll(&ptrs))
	require.Len(t, ptrs, 2)
	assert.Equal(t, "Herbert", ptrs[1].Name)

	assert.Error(t, authors.DecodeAll(list))
}
