package types

// QueryResult contains the rendered SQL and its positional arguments.
type QueryResult struct {
	SQL  string
	Args []any
}
