package schema

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/zoobzio/dbml"
)

// ValidationError lists the tables and columns a registry references that
// a DBML project does not define.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema: %d problem(s) against DBML project: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// ValidateDBML checks every table and column the registry references
// against project. It returns a *ValidationError listing all mismatches.
func (r *Registry) ValidateDBML(project *dbml.Project) error {
	if project == nil {
		return fmt.Errorf("schema: project cannot be nil")
	}

	columns := make(map[string]map[string]bool, len(project.Tables))
	for _, table := range project.Tables {
		cols := make(map[string]bool, len(table.Columns))
		for _, col := range table.Columns {
			cols[col.Name] = true
		}
		columns[table.Name] = cols
	}

	var problems []string
	need := func(table, column, context string) {
		cols, ok := columns[table]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: table %s is not defined", context, table))
			return
		}
		if column != "" && !cols[column] {
			problems = append(problems, fmt.Sprintf("%s: column %s.%s is not defined", context, table, column))
		}
	}

	for _, name := range r.order {
		e := r.entities[name].entity
		need(e.Table, e.PrimaryKey, name)
		for _, p := range e.Properties {
			context := name + "." + p.Name
			if p.Column != "" {
				need(e.Table, p.Column, context)
			}
			switch rel := p.Relationship.(type) {
			case BelongsTo:
				if target, ok := r.entities[rel.Target]; ok {
					need(target.entity.Table, rel.Column, context)
				} else {
					problems = append(problems, fmt.Sprintf("%s: target entity %s is not registered", context, rel.Target))
				}
			case HasMany:
				need(rel.Table, rel.SourceColumn, context)
				need(rel.Table, rel.TargetColumn, context)
				if pk, ok := r.tables[rel.Table]; ok {
					need(rel.Table, pk, context)
				}
				if _, ok := r.entities[rel.Target]; !ok {
					problems = append(problems, fmt.Sprintf("%s: target entity %s is not registered", context, rel.Target))
				}
			case HasOne:
				if _, ok := r.entities[rel.Target]; !ok {
					problems = append(problems, fmt.Sprintf("%s: target entity %s is not registered", context, rel.Target))
				}
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return &ValidationError{Problems: slices.Compact(problems)}
}
