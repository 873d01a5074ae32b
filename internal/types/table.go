package types

// Table is a table reference with its query alias.
type Table struct {
	Name  string
	Alias string
}
