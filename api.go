// Package dql compiles entity-relationship aware queries to SQL.
//
// Queries are written against entities and their properties instead of
// tables and columns. Aliases bind entities, joins follow relationship
// properties, and conditions reference alias.property paths that are
// rewritten to quoted columns. Compiling a query yields a Statement for a
// dialect renderer plus hydration metadata describing how the flat rows
// relate, so the result can be split back into one row set per alias.
//
// # Basic Usage
//
//	engine, err := dql.New(registry, dql.WithRenderer(postgres.New()))
//	if err != nil {
//		return err
//	}
//
//	result, err := engine.Query().
//		Select("b, a").
//		From("Book", "b").
//		Join("b.author", "a").
//		Where("a.name = %s", "Tolkien").
//		OrderByAsc("b.title").
//		Render()
//	// result.SQL:  SELECT "b"."id" AS "b__id", ... FROM "books" AS "b"
//	//              INNER JOIN "authors" AS "a" ON "b"."author_id" = "a"."id"
//	//              WHERE "a"."name" = $1 ORDER BY "b"."title" ASC
//	// result.Args: []any{"Tolkien"}
//
// # Expressions
//
// Where and the extra ON condition of Join accept argument lists: a
// template followed by one value per placeholder or modifier it contains.
// Modifiers bind typed values: %s string, %i integer, %f float,
// %b boolean, %d date, %t datetime, %n identifier, %sql raw SQL, %in and
// %l lists, %like~, %~like and %~like~ patterns, %ex expression, and %if,
// %else, %end conditional blocks. A bare ? binds a value of any type.
//
//	q.Where("b.pages > %i", 300, "b.genre IN %in", []string{"fantasy", "myth"})
//
// The SQLSelect, SQLGroupBy, SQLHaving and SQLOrderBy methods add native
// clauses that are not translated.
//
// # Results
//
// With a Querier configured, Result, Entities and Entity execute the query
// and hydrate the rows. Results are cached until the query changes.
//
// # Errors
//
// Every error raised while building a query matches ErrConfiguration (API
// misuse) or ErrResolution (names that do not resolve) under errors.Is.
package dql

import "github.com/zoobzio/dql/internal/types"

// Statement is the compiled clause sequence handed to a renderer.
type Statement = types.Statement

// QueryResult contains the rendered SQL and its positional arguments.
type QueryResult = types.QueryResult

// Meta is the hydration metadata of a query.
type Meta = types.Meta

// Relationship describes how the rows of two aliases relate.
type Relationship = types.Relationship

// RelationshipDirection tells which side of a relationship holds the foreign key.
type RelationshipDirection = types.RelationshipDirection

// Relationship directions.
const (
	Referencing = types.Referencing
	Referenced  = types.Referenced
)

// AssociationProjection lists the association columns of a many-valued join.
type AssociationProjection = types.AssociationProjection

// Direction represents sort direction.
type Direction = types.Direction

// Sort directions.
const (
	ASC  = types.ASC
	DESC = types.DESC
)

// JoinKind represents the SQL join a relationship path produces.
type JoinKind = types.JoinKind

// Join kinds.
const (
	InnerJoin = types.InnerJoin
	LeftJoin  = types.LeftJoin
)

// Fragment is an argument sequence: a template followed by bound values.
type Fragment = types.Fragment

// Table is a table reference with its alias.
type Table = types.Table

// Join is one JOIN clause of a compiled statement.
type Join = types.Join

// OrderBy is one domain ORDER BY term.
type OrderBy = types.OrderBy
