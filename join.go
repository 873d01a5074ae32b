package dql

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/zoobzio/dql/internal/lexer"
	"github.com/zoobzio/dql/internal/suggest"
	"github.com/zoobzio/dql/internal/types"
)

// onTemplate is the ON predicate every resolved join starts with.
const onTemplate = "%n.%n = %n.%n"

var dotPath = regexp.MustCompile(`^\s*(` + lexer.Identifier + `)\.(` + lexer.Identifier + `)\s*$`)

// joinIndex numbers the association table aliases of one query.
type joinIndex struct {
	next   int
	tables map[string]string // generated alias -> association table
}

func newJoinIndex() joinIndex {
	return joinIndex{next: 1, tables: make(map[string]string)}
}

// peek returns the alias the next association join of table will use.
func (j *joinIndex) peek(table string) string {
	return table + strconv.Itoa(j.next)
}

func (j *joinIndex) commit(alias, table string) {
	j.tables[alias] = table
	j.next++
}

type tablePrefix struct {
	alias string
	table string
}

type primaryKey struct {
	table  string
	column string
}

type ownedRelationship struct {
	owner string
	rel   types.Relationship
}

// joinPlan is a fully validated join. Nothing in the query changes until
// the plan is committed.
type joinPlan struct {
	alias         string
	entity        string
	joins         []types.Join
	prefixes      []tablePrefix
	keys          []primaryKey
	relationships []ownedRelationship
	association   *types.AssociationProjection
	table         string // association table of a many-valued join
}

// joinResolver turns a relationship path into a join plan.
type joinResolver struct {
	provider Provider
	aliases  *aliasRegistry
	index    *joinIndex
}

func (r *joinResolver) resolve(path, alias string, kind types.JoinKind, on []any) (*joinPlan, error) {
	m := dotPath.FindStringSubmatch(path)
	if m == nil {
		return nil, &InvalidRelationError{Path: path, Reason: "expected alias.property"}
	}
	from, name := m[1], m[2]

	fromEntity, err := r.aliases.resolve(from)
	if err != nil {
		return nil, err
	}
	p, ok := r.provider.Property(fromEntity, name)
	if !ok {
		reason := "property does not exist"
		if s := suggest.Closest(propertyNames(r.provider.Properties(fromEntity)), name); s != "" {
			reason += fmt.Sprintf(", did you mean '%s'?", s)
		}
		return nil, &InvalidRelationError{Path: path, Entity: fromEntity, Reason: reason}
	}
	if !p.HasRelation() {
		return nil, &InvalidRelationError{Path: path, Entity: fromEntity, Reason: "property has no relationship"}
	}
	rel := p.Relation

	if err := r.checkAlias(alias, rel.Target); err != nil {
		return nil, err
	}

	fromTable, err := r.provider.Table(fromEntity)
	if err != nil {
		return nil, err
	}
	targetTable := rel.TargetTable
	if targetTable == "" {
		if targetTable, err = r.provider.Table(rel.Target); err != nil {
			return nil, err
		}
	}
	targetPK, err := r.provider.PrimaryKey(targetTable)
	if err != nil {
		return nil, err
	}

	plan := &joinPlan{alias: alias, entity: rel.Target}
	switch rel.Kind {
	case HasMany:
		if err := r.planAssociation(plan, kind, from, fromTable, targetTable, targetPK, rel); err != nil {
			return nil, err
		}

	case HasOne:
		plan.joins = []types.Join{{
			Kind:  kind,
			Table: types.Table{Name: targetTable, Alias: alias},
			On:    types.Fragment{onTemplate, from, rel.Column, alias, targetPK},
		}}
		plan.prefixes = []tablePrefix{{alias, targetTable}}
		plan.keys = []primaryKey{{targetTable, targetPK}}
		plan.relationships = []ownedRelationship{{
			owner: alias,
			rel: types.Relationship{
				SourceAlias: from,
				SourceTable: fromTable,
				Column:      rel.Column,
				Direction:   types.Referenced,
				TargetAlias: alias,
				TargetTable: targetTable,
				PrimaryKey:  targetPK,
			},
		}}

	case BelongsTo:
		fromPK, err := r.provider.PrimaryKey(fromTable)
		if err != nil {
			return nil, err
		}
		plan.joins = []types.Join{{
			Kind:  kind,
			Table: types.Table{Name: targetTable, Alias: alias},
			On:    types.Fragment{onTemplate, from, fromPK, alias, rel.Column},
		}}
		plan.prefixes = []tablePrefix{{alias, targetTable}}
		plan.keys = []primaryKey{{targetTable, targetPK}}
		plan.relationships = []ownedRelationship{{
			owner: from,
			rel: types.Relationship{
				SourceAlias: from,
				SourceTable: fromTable,
				Column:      rel.Column,
				Direction:   types.Referencing,
				TargetAlias: alias,
				TargetTable: targetTable,
				PrimaryKey:  fromPK,
			},
		}}

	default:
		return nil, &InvalidRelationError{Path: path, Entity: fromEntity, Reason: fmt.Sprintf("unsupported relationship kind %s", rel.Kind)}
	}

	if len(on) > 0 {
		tr := &translator{provider: r.provider, resolve: func(a string) (string, error) {
			if a == alias {
				return rel.Target, nil
			}
			return r.aliases.resolve(a)
		}}
		extra, err := tr.on(on)
		if err != nil {
			return nil, err
		}
		plan.joins[len(plan.joins)-1].Extra = extra
	}
	return plan, nil
}

// planAssociation fills plan with the two hops of a many-valued join:
// source to association table, then association table to target.
func (r *joinResolver) planAssociation(plan *joinPlan, kind types.JoinKind, from, fromTable, targetTable, targetPK string, rel *Relation) error {
	fromPK, err := r.provider.PrimaryKey(fromTable)
	if err != nil {
		return err
	}
	assocPK, err := r.provider.PrimaryKey(rel.Table)
	if err != nil {
		return err
	}
	assoc := r.index.peek(rel.Table)
	if assoc == plan.alias {
		return &DuplicateAliasError{Alias: plan.alias, Entity: plan.entity, Existing: rel.Table}
	}
	if err := r.checkAlias(assoc, rel.Table); err != nil {
		return err
	}

	plan.table = rel.Table
	plan.joins = []types.Join{
		{
			Kind:  kind,
			Table: types.Table{Name: rel.Table, Alias: assoc},
			On:    types.Fragment{onTemplate, from, fromPK, assoc, rel.SourceColumn},
		},
		{
			Kind:  kind,
			Table: types.Table{Name: targetTable, Alias: plan.alias},
			On:    types.Fragment{onTemplate, assoc, rel.TargetColumn, plan.alias, targetPK},
		},
	}
	plan.prefixes = []tablePrefix{{assoc, rel.Table}, {plan.alias, targetTable}}
	plan.keys = []primaryKey{{rel.Table, assocPK}, {targetTable, targetPK}}
	plan.relationships = []ownedRelationship{
		{
			owner: plan.alias,
			rel: types.Relationship{
				SourceAlias: from,
				SourceTable: fromTable,
				Column:      rel.SourceColumn,
				Direction:   types.Referencing,
				TargetAlias: assoc,
				TargetTable: rel.Table,
				PrimaryKey:  fromPK,
			},
		},
		{
			owner: assoc,
			rel: types.Relationship{
				SourceAlias: assoc,
				SourceTable: rel.Table,
				Column:      rel.TargetColumn,
				Direction:   types.Referenced,
				TargetAlias: plan.alias,
				TargetTable: targetTable,
				PrimaryKey:  targetPK,
			},
		},
	}
	plan.association = &types.AssociationProjection{
		Alias:        assoc,
		PrimaryKey:   assocPK,
		SourceColumn: rel.SourceColumn,
		TargetColumn: rel.TargetColumn,
	}
	return nil
}

// checkAlias rejects aliases that are invalid or already taken by an
// entity or a generated association alias.
func (r *joinResolver) checkAlias(alias, entity string) error {
	if !identifier.MatchString(alias) {
		return &InvalidAliasError{Alias: alias}
	}
	if err := r.aliases.check(alias, entity); err != nil {
		return err
	}
	if table, ok := r.index.tables[alias]; ok {
		return &DuplicateAliasError{Alias: alias, Entity: entity, Existing: table}
	}
	return nil
}
