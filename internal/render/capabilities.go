package render

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	OffsetRequiresOrderBy bool // OFFSET ... FETCH is only valid after ORDER BY
	MaxParameters         int  // bound parameters per statement, 0 for no limit
}

// Dialect supplies the syntax that differs between database engines.
type Dialect interface {
	// Name returns the display name used in error messages.
	Name() string
	// QuoteIdentifier quotes a single identifier part.
	QuoteIdentifier(name string) string
	// Placeholder returns the marker for the n-th bound parameter, starting at 1.
	Placeholder(n int) string
	// LimitOffset renders the pagination suffix. Zero values are absent.
	LimitOffset(limit, offset int) string
	Capabilities() Capabilities
}
