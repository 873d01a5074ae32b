package types

// RelationshipDirection tells the hydrator which side of a relationship
// carries the foreign key.
type RelationshipDirection string

const (
	// Referencing means the target rows hold Column, a foreign key to the
	// source PrimaryKey. One source row may map to many target rows.
	Referencing RelationshipDirection = "referencing"
	// Referenced means the source rows hold Column, a foreign key to the
	// target PrimaryKey. One source row maps to at most one target row.
	Referenced RelationshipDirection = "referenced"
)

// Relationship describes how rows of two aliases relate in a flat result.
type Relationship struct {
	SourceAlias string
	SourceTable string
	Column      string
	Direction   RelationshipDirection
	TargetAlias string
	TargetTable string
	PrimaryKey  string
}

// AssociationProjection lists the association-table columns a many-valued
// join must carry in SELECT so association rows can be deduplicated.
type AssociationProjection struct {
	Alias        string
	PrimaryKey   string
	SourceColumn string
	TargetColumn string
}

// Columns returns the three projected column names in SELECT order.
func (p AssociationProjection) Columns() []string {
	return []string{p.PrimaryKey, p.SourceColumn, p.TargetColumn}
}

// Meta accumulates the hydration metadata for one query.
// Inserts are keyed; relationships keep insertion order.
type Meta struct {
	prefixes      map[string]string
	prefixOrder   []string
	primaryKeys   map[string]string
	owned         map[string][]Relationship
	relationships []Relationship
	associations  map[string]AssociationProjection
}

// NewMeta creates an empty metadata model.
func NewMeta() *Meta {
	return &Meta{
		prefixes:     make(map[string]string),
		primaryKeys:  make(map[string]string),
		owned:        make(map[string][]Relationship),
		associations: make(map[string]AssociationProjection),
	}
}

// RecordTablePrefix maps an alias to the table whose columns it prefixes.
func (m *Meta) RecordTablePrefix(alias, table string) {
	if _, ok := m.prefixes[alias]; !ok {
		m.prefixOrder = append(m.prefixOrder, alias)
	}
	m.prefixes[alias] = table
}

// RecordPrimaryKey records the primary key column of a table.
func (m *Meta) RecordPrimaryKey(table, column string) {
	m.primaryKeys[table] = column
}

// RecordRelationship appends a relationship under its owner alias.
func (m *Meta) RecordRelationship(owner string, rel Relationship) {
	m.owned[owner] = append(m.owned[owner], rel)
	m.relationships = append(m.relationships, rel)
}

// RecordAssociation stores the association projection for a target alias.
func (m *Meta) RecordAssociation(alias string, projection AssociationProjection) {
	m.associations[alias] = projection
}

// TablePrefix returns the table recorded for an alias.
func (m *Meta) TablePrefix(alias string) (string, bool) {
	t, ok := m.prefixes[alias]
	return t, ok
}

// PrimaryKey returns the primary key column recorded for a table.
func (m *Meta) PrimaryKey(table string) (string, bool) {
	pk, ok := m.primaryKeys[table]
	return pk, ok
}

// Aliases returns every alias with a table prefix, in record order.
func (m *Meta) Aliases() []string {
	out := make([]string, len(m.prefixOrder))
	copy(out, m.prefixOrder)
	return out
}

// RelationshipsOf returns the relationships recorded under owner.
func (m *Meta) RelationshipsOf(owner string) []Relationship {
	rels := m.owned[owner]
	out := make([]Relationship, len(rels))
	copy(out, rels)
	return out
}

// Relationships returns all relationships in insertion order.
func (m *Meta) Relationships() []Relationship {
	out := make([]Relationship, len(m.relationships))
	copy(out, m.relationships)
	return out
}

// Association returns the association projection of a target alias.
func (m *Meta) Association(alias string) (AssociationProjection, bool) {
	p, ok := m.associations[alias]
	return p, ok
}
