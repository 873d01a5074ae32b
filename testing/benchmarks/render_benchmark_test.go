// Package benchmarks provides performance benchmarks for dql.
package benchmarks

import (
	"testing"

	"github.com/zoobzio/dql"
	"github.com/zoobzio/dql/mssql"
	"github.com/zoobzio/dql/postgres"
	dqltesting "github.com/zoobzio/dql/testing"
)

func benchmarkEngine(b *testing.B) *dql.Engine {
	b.Helper()
	return dqltesting.Engine(b, dql.WithRenderer(postgres.New()))
}

// BenchmarkSimpleSelect measures compiling and rendering a single entity query.
func BenchmarkSimpleSelect(b *testing.B) {
	e := benchmarkEngine(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := e.Query().Select("b").From("Book", "b").Render()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithWhere measures translating alias.property references.
func BenchmarkSelectWithWhere(b *testing.B) {
	e := benchmarkEngine(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := e.Query().
			Select("b").
			From("Book", "b").
			Where("b.title = %s", "Dune", "b.pages > %i", 300).
			Render()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithJoin measures resolving a single-valued relationship.
func BenchmarkSelectWithJoin(b *testing.B) {
	e := benchmarkEngine(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := e.Query().
			Select("b, a").
			From("Book", "b").
			Join("b.author", "a").
			Where("a.name = %s", "Tolkien").
			Render()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithManyJoin measures the two-hop association join.
func BenchmarkSelectWithManyJoin(b *testing.B) {
	e := benchmarkEngine(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := e.Query().
			Select("b, t").
			From("Book", "b").
			LeftJoin("b.tags", "t", "t.label = %s", "fantasy").
			Render()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithOrderByLimit measures ordering and pagination.
func BenchmarkSelectWithOrderByLimit(b *testing.B) {
	e := benchmarkEngine(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := e.Query().
			Select("b").
			From("Book", "b").
			OrderByDesc("b.pages").
			Limit(10).
			Offset(20).
			Render()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCount measures rendering the count statement.
func BenchmarkCount(b *testing.B) {
	e := benchmarkEngine(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := e.Query().
			Select("b").
			From("Book", "b").
			Join("b.tags", "t").
			RenderCount()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRenderCompiled measures rendering alone from a cached statement.
func BenchmarkRenderCompiled(b *testing.B) {
	e := benchmarkEngine(b)
	stmt, err := e.Query().
		Select("b, a, t").
		From("Book", "b").
		Join("b.author", "a").
		LeftJoin("b.tags", "t").
		Where("a.name = %s", "Tolkien", "b.title LIKE %~like~", "Hob").
		OrderByAsc("b.title").
		Limit(5).
		Compile()
	if err != nil {
		b.Fatal(err)
	}

	renderers := []struct {
		name     string
		renderer dql.Renderer
	}{
		{"postgres", postgres.New()},
		{"mssql", mssql.New()},
	}
	for _, tt := range renderers {
		b.Run(tt.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := tt.renderer.Render(stmt); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
