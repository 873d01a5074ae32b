// Package schema provides an entity metadata registry for dql.
//
// Entities are registered directly, derived from struct tags with Inspect,
// or loaded from YAML with LoadYAML. A Registry can be checked against a
// DBML project with ValidateDBML.
package schema

import (
	"fmt"

	"github.com/zoobzio/dql"
	"github.com/zoobzio/dql/internal/naming"
	"github.com/zoobzio/dql/internal/suggest"
)

// DefaultPrimaryKey is used when an entity does not name its primary key.
const DefaultPrimaryKey = "id"

// Relationship is one of HasOne, HasMany or BelongsTo.
type Relationship interface {
	relation() *dql.Relation
}

// HasOne is a reference held by the entity: Column on its own table
// points at the primary key of Target.
type HasOne struct {
	Target string
	Column string
}

func (r HasOne) relation() *dql.Relation {
	return &dql.Relation{Kind: dql.HasOne, Target: r.Target, Column: r.Column}
}

// HasMany links to many Target rows through an association table.
type HasMany struct {
	Target       string
	Table        string
	SourceColumn string
	TargetColumn string
}

func (r HasMany) relation() *dql.Relation {
	return &dql.Relation{
		Kind:         dql.HasMany,
		Target:       r.Target,
		Table:        r.Table,
		SourceColumn: r.SourceColumn,
		TargetColumn: r.TargetColumn,
	}
}

// BelongsTo is a reference held by Target rows: Column on the target table
// points at the primary key of the entity.
type BelongsTo struct {
	Target string
	Column string
}

func (r BelongsTo) relation() *dql.Relation {
	return &dql.Relation{Kind: dql.BelongsTo, Target: r.Target, Column: r.Column}
}

// Property is one property of an entity. A HasOne property maps the
// column of its reference unless Column is set.
type Property struct {
	Name         string
	Column       string
	Relationship Relationship
}

// Entity describes one entity.
type Entity struct {
	Name       string
	Table      string // defaults to the plural snake_case of Name
	PrimaryKey string // defaults to DefaultPrimaryKey
	Properties []Property
}

// Registry holds entity and table metadata. It implements dql.Provider.
// A Registry is not safe for concurrent registration; lookups may run
// concurrently once registration is done.
type Registry struct {
	entities map[string]*entry
	order    []string
	tables   map[string]string // table -> primary key
}

type entry struct {
	entity Entity
	index  map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]*entry),
		tables:   make(map[string]string),
	}
}

var _ dql.Provider = (*Registry)(nil)

// Register adds an entity and its table.
func (r *Registry) Register(e Entity) error {
	if e.Name == "" {
		return fmt.Errorf("schema: entity name is required")
	}
	if _, ok := r.entities[e.Name]; ok {
		return fmt.Errorf("schema: entity %s is already registered", e.Name)
	}
	if e.Table == "" {
		e.Table = naming.Table(e.Name)
	}
	if e.PrimaryKey == "" {
		e.PrimaryKey = DefaultPrimaryKey
	}
	if pk, ok := r.tables[e.Table]; ok && pk != e.PrimaryKey {
		return fmt.Errorf("schema: table %s is registered with primary key %s, not %s", e.Table, pk, e.PrimaryKey)
	}

	e.Properties = append([]Property(nil), e.Properties...)
	ent := &entry{index: make(map[string]int, len(e.Properties))}
	for i, p := range e.Properties {
		if p.Name == "" {
			return fmt.Errorf("schema: entity %s: property %d has no name", e.Name, i)
		}
		if _, dup := ent.index[p.Name]; dup {
			return fmt.Errorf("schema: entity %s: property %s is declared twice", e.Name, p.Name)
		}
		if err := checkRelationship(e.Name, p); err != nil {
			return err
		}
		if hasOne, ok := p.Relationship.(HasOne); ok && p.Column == "" {
			e.Properties[i].Column = hasOne.Column
		}
		ent.index[p.Name] = i
	}
	ent.entity = e

	r.entities[e.Name] = ent
	r.order = append(r.order, e.Name)
	r.tables[e.Table] = e.PrimaryKey
	return nil
}

func checkRelationship(entity string, p Property) error {
	var missing string
	switch rel := p.Relationship.(type) {
	case nil:
		return nil
	case HasOne:
		if rel.Target == "" || rel.Column == "" {
			missing = "target and column"
		}
	case BelongsTo:
		if rel.Target == "" || rel.Column == "" {
			missing = "target and column"
		}
	case HasMany:
		if rel.Target == "" || rel.Table == "" || rel.SourceColumn == "" || rel.TargetColumn == "" {
			missing = "target, table, source column and target column"
		}
	}
	if missing != "" {
		return fmt.Errorf("schema: entity %s: relationship %s needs %s", entity, p.Name, missing)
	}
	return nil
}

// RegisterTable records a table that backs no entity, such as an
// association table, with its primary key.
func (r *Registry) RegisterTable(table, primaryKey string) error {
	if table == "" || primaryKey == "" {
		return fmt.Errorf("schema: table and primary key are required")
	}
	if pk, ok := r.tables[table]; ok && pk != primaryKey {
		return fmt.Errorf("schema: table %s is registered with primary key %s, not %s", table, pk, primaryKey)
	}
	r.tables[table] = primaryKey
	return nil
}

// Entities returns the registered entity names in registration order.
func (r *Registry) Entities() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Entity returns the definition of a registered entity.
func (r *Registry) Entity(name string) (Entity, bool) {
	ent, ok := r.entities[name]
	if !ok {
		return Entity{}, false
	}
	e := ent.entity
	e.Properties = append([]Property(nil), e.Properties...)
	return e, true
}

// Table returns the table of an entity.
func (r *Registry) Table(entity string) (string, error) {
	ent, ok := r.entities[entity]
	if !ok {
		return "", &dql.UnknownEntityError{Entity: entity, Suggestion: suggest.Closest(r.order, entity)}
	}
	return ent.entity.Table, nil
}

// PrimaryKey returns the primary key column of a table.
func (r *Registry) PrimaryKey(table string) (string, error) {
	pk, ok := r.tables[table]
	if !ok {
		return "", fmt.Errorf("%w: table '%s' is not registered", dql.ErrResolution, table)
	}
	return pk, nil
}

// Property looks up a property of an entity.
func (r *Registry) Property(entity, name string) (dql.Property, bool) {
	ent, ok := r.entities[entity]
	if !ok {
		return dql.Property{}, false
	}
	i, ok := ent.index[name]
	if !ok {
		return dql.Property{}, false
	}
	return r.convert(ent.entity.Properties[i]), true
}

// Properties lists the properties of an entity in declaration order.
func (r *Registry) Properties(entity string) []dql.Property {
	ent, ok := r.entities[entity]
	if !ok {
		return nil
	}
	out := make([]dql.Property, len(ent.entity.Properties))
	for i, p := range ent.entity.Properties {
		out[i] = r.convert(p)
	}
	return out
}

func (r *Registry) convert(p Property) dql.Property {
	out := dql.Property{Name: p.Name, Column: p.Column}
	if p.Relationship != nil {
		out.Relation = p.Relationship.relation()
		if target, ok := r.entities[out.Relation.Target]; ok {
			out.Relation.TargetTable = target.entity.Table
		}
	}
	return out
}
