package schema

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// document is the YAML layout read by LoadYAML:
//
//	tables:
//	  book_tag: id
//	entities:
//	  - name: Book
//	    table: books
//	    primaryKey: id
//	    properties:
//	      - {name: id, column: id}
//	      - {name: title, column: title}
//	      - name: author
//	        hasOne: {target: Author, column: author_id}
//	      - name: tags
//	        hasMany: {target: Tag, table: book_tag, sourceColumn: book_id, targetColumn: tag_id}
type document struct {
	Tables   map[string]string `yaml:"tables"`
	Entities []entityDoc       `yaml:"entities"`
}

type entityDoc struct {
	Name       string        `yaml:"name"`
	Table      string        `yaml:"table"`
	PrimaryKey string        `yaml:"primaryKey"`
	Properties []propertyDoc `yaml:"properties"`
}

type propertyDoc struct {
	Name      string    `yaml:"name"`
	Column    string    `yaml:"column"`
	HasOne    *refDoc   `yaml:"hasOne"`
	BelongsTo *refDoc   `yaml:"belongsTo"`
	HasMany   *assocDoc `yaml:"hasMany"`
}

type refDoc struct {
	Target string `yaml:"target"`
	Column string `yaml:"column"`
}

type assocDoc struct {
	Target       string `yaml:"target"`
	Table        string `yaml:"table"`
	SourceColumn string `yaml:"sourceColumn"`
	TargetColumn string `yaml:"targetColumn"`
}

// LoadYAML builds a registry from a YAML document.
func LoadYAML(r io.Reader) (*Registry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}

	reg := NewRegistry()
	for _, e := range doc.Entities {
		entity := Entity{Name: e.Name, Table: e.Table, PrimaryKey: e.PrimaryKey}
		for _, p := range e.Properties {
			prop, err := p.property()
			if err != nil {
				return nil, fmt.Errorf("schema: entity %s: %w", e.Name, err)
			}
			entity.Properties = append(entity.Properties, prop)
		}
		if err := reg.Register(entity); err != nil {
			return nil, err
		}
	}
	for table, pk := range doc.Tables {
		if err := reg.RegisterTable(table, pk); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (p propertyDoc) property() (Property, error) {
	out := Property{Name: p.Name, Column: p.Column}
	set := 0
	if p.HasOne != nil {
		out.Relationship = HasOne{Target: p.HasOne.Target, Column: p.HasOne.Column}
		set++
	}
	if p.BelongsTo != nil {
		out.Relationship = BelongsTo{Target: p.BelongsTo.Target, Column: p.BelongsTo.Column}
		set++
	}
	if p.HasMany != nil {
		out.Relationship = HasMany{
			Target:       p.HasMany.Target,
			Table:        p.HasMany.Table,
			SourceColumn: p.HasMany.SourceColumn,
			TargetColumn: p.HasMany.TargetColumn,
		}
		set++
	}
	if set > 1 {
		return Property{}, fmt.Errorf("property %s declares more than one relationship", p.Name)
	}
	return out, nil
}
