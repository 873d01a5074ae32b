package schema

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zoobzio/dql/internal/naming"
)

// Inspect registers the entity described by the struct type T.
//
// The entity is named after the type. Exported fields become properties
// named after the field with a lower-case first letter. Tags:
//
//	db:"column"            column name, default is the snake_case field name
//	db:"column,pk"         column is the primary key
//	db:"-"                 field is not a property
//	dql:"hasOne,col"       reference held by this entity in col
//	dql:"belongsTo,col"    reference held by the target in col
//	dql:"hasMany,table,source_col,target_col"
//	    many-valued relationship through an association table
//
// The target of a relationship is the element type of the field. A blank
// field with a table tag names the table:
//
//	type Book struct {
//		_        struct{} `table:"books"`
//		ID       int64    `db:"id,pk"`
//		Title    string
//		Author   *Author  `dql:"hasOne,author_id"`
//		Tags     []Tag    `dql:"hasMany,book_tag,book_id,tag_id"`
//	}
func Inspect[T any](r *Registry) error {
	e, err := entityOf(reflect.TypeFor[T]())
	if err != nil {
		return err
	}
	return r.Register(e)
}

func entityOf(t reflect.Type) (Entity, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return Entity{}, fmt.Errorf("schema: %s is not a struct", t)
	}

	e := Entity{Name: t.Name()}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == "_" {
			if table := f.Tag.Get("table"); table != "" {
				e.Table = table
			}
			continue
		}
		if !f.IsExported() {
			continue
		}

		p, pk, skip, err := propertyOf(f)
		if err != nil {
			return Entity{}, fmt.Errorf("schema: %s.%s: %w", e.Name, f.Name, err)
		}
		if skip {
			continue
		}
		if pk {
			if e.PrimaryKey != "" {
				return Entity{}, fmt.Errorf("schema: %s declares more than one primary key", e.Name)
			}
			e.PrimaryKey = p.Column
		}
		e.Properties = append(e.Properties, p)
	}
	return e, nil
}

func propertyOf(f reflect.StructField) (p Property, pk, skip bool, err error) {
	p.Name = lowerFirst(f.Name)

	if tag, ok := f.Tag.Lookup("dql"); ok {
		rel, err := relationshipOf(tag, f.Type)
		if err != nil {
			return p, false, false, err
		}
		p.Relationship = rel
		if db := f.Tag.Get("db"); db != "" && db != "-" {
			p.Column = strings.Split(db, ",")[0]
		}
		return p, false, false, nil
	}

	db := f.Tag.Get("db")
	if db == "-" {
		return p, false, true, nil
	}
	parts := strings.Split(db, ",")
	p.Column = parts[0]
	if p.Column == "" {
		p.Column = naming.Column(f.Name)
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "pk":
			pk = true
		case "":
		default:
			return p, false, false, fmt.Errorf("unknown db tag option %q", opt)
		}
	}
	return p, pk, false, nil
}

func relationshipOf(tag string, t reflect.Type) (Relationship, error) {
	parts := strings.Split(tag, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	target := elementName(t)
	if target == "" {
		return nil, fmt.Errorf("relationship field must be a struct, pointer or slice of structs, got %s", t)
	}

	switch parts[0] {
	case "hasOne":
		if len(parts) != 2 {
			return nil, fmt.Errorf(`hasOne tag must be "hasOne,column"`)
		}
		return HasOne{Target: target, Column: parts[1]}, nil
	case "belongsTo":
		if len(parts) != 2 {
			return nil, fmt.Errorf(`belongsTo tag must be "belongsTo,column"`)
		}
		return BelongsTo{Target: target, Column: parts[1]}, nil
	case "hasMany":
		if len(parts) != 4 {
			return nil, fmt.Errorf(`hasMany tag must be "hasMany,table,source_column,target_column"`)
		}
		return HasMany{Target: target, Table: parts[1], SourceColumn: parts[2], TargetColumn: parts[3]}, nil
	}
	return nil, fmt.Errorf("unknown relationship %q", parts[0])
}

func elementName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ""
	}
	return t.Name()
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	// Leading acronyms lower entirely: ID becomes id, URLPath becomes urlPath.
	upper := 0
	for _, c := range s {
		if !unicode.IsUpper(c) {
			break
		}
		upper++
	}
	switch {
	case upper == len([]rune(s)):
		return strings.ToLower(s)
	case upper > 1:
		runes := []rune(s)
		return strings.ToLower(string(runes[:upper-1])) + string(runes[upper-1:])
	}
	return string(unicode.ToLower(r)) + s[n:]
}
