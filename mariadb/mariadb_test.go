package mariadb

import (
	"errors"
	"testing"

	"github.com/zoobzio/dql/internal/render"
	"github.com/zoobzio/dql/internal/types"
)

func bookStatement() *types.Statement {
	return &types.Statement{
		Select:  []types.Fragment{{"%n.%n AS %n", "b", "id", "b__id"}},
		From:    types.Table{Name: "books", Alias: "b"},
		FromKey: "id",
		Where:   types.Fragment{"[b.title] LIKE %like~", "The_"},
	}
}

func TestNew(t *testing.T) {
	if r := New(); r.Name() != "MariaDB" {
		t.Errorf("Name() = %q", r.Name())
	}
}

func TestRender(t *testing.T) {
	result, err := New().Render(bookStatement())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// MariaDB uses backticks for quoting
	expected := "SELECT `b`.`id` AS `b__id` FROM `books` AS `b` WHERE `b`.`title` LIKE ? ESCAPE '!'"
	if result.SQL != expected {
		t.Errorf("SQL = %q, want %q", result.SQL, expected)
	}
	if len(result.Args) != 1 || result.Args[0] != "The!_%" {
		t.Errorf("Args = %#v", result.Args)
	}
}

func TestRender_ReportsOwnName(t *testing.T) {
	stmt := bookStatement()
	stmt.Where = types.Fragment{"[b.id] IN %in", make([]int, 65536)}

	_, err := New().Render(stmt)
	var unsupported render.UnsupportedFeatureError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFeatureError, got %v", err)
	}
	if unsupported.Dialect != "MariaDB" {
		t.Errorf("Dialect = %q, want MariaDB", unsupported.Dialect)
	}
}
