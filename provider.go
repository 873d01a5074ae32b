package dql

// RelationKind classifies a relationship property.
type RelationKind int

const (
	// HasOne: the source row holds Column, a foreign key to the target primary key.
	HasOne RelationKind = iota + 1
	// HasMany: rows are linked through an association table holding
	// SourceColumn (to the source primary key) and TargetColumn (to the
	// target primary key).
	HasMany
	// BelongsTo: the target rows hold Column, a foreign key to the source
	// primary key.
	BelongsTo
)

func (k RelationKind) String() string {
	switch k {
	case HasOne:
		return "hasOne"
	case HasMany:
		return "hasMany"
	case BelongsTo:
		return "belongsTo"
	default:
		return "none"
	}
}

// Relation describes a relationship declared on an entity property.
type Relation struct {
	Kind         RelationKind
	Target       string // target entity
	TargetTable  string
	Column       string // HasOne and BelongsTo foreign key
	Table        string // HasMany association table
	SourceColumn string // HasMany column referencing the source
	TargetColumn string // HasMany column referencing the target
}

// Property is one property of an entity. Column is empty when the
// property has no column of its own.
type Property struct {
	Name     string
	Column   string
	Relation *Relation
}

// HasRelation reports whether the property declares a relationship.
func (p Property) HasRelation() bool {
	return p.Relation != nil
}

// Provider supplies entity metadata: tables, primary keys and properties.
type Provider interface {
	// Table returns the table an entity is stored in.
	Table(entity string) (string, error)
	// PrimaryKey returns the primary key column of a table.
	PrimaryKey(table string) (string, error)
	// Property looks up one property of an entity.
	Property(entity, name string) (Property, bool)
	// Properties lists the properties of an entity in declaration order.
	Properties(entity string) []Property
}
