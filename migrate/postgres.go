// Package migrate produces the two migration-text outputs the generator
// feeds: the CREATE TABLE statement for a model and its DROP counterpart.
// Anything beyond these two texts (diffing, versioned plans, execution) is
// out of scope.
package migrate

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/tenantsql/tenantsql/model"
)

// postgresType maps a declared field type to its PostgreSQL column type.
func postgresType(f model.Field) string {
	switch f.Type {
	case model.IntegerType:
		return "INTEGER"
	case model.BigintType:
		return "BIGINT"
	case model.StringType:
		return "VARCHAR(255)"
	case model.TextType:
		return "TEXT"
	case model.BooleanType:
		return "BOOLEAN"
	case model.FloatType:
		return "DOUBLE PRECISION"
	case model.DecimalType:
		return "DECIMAL(10, 2)"
	case model.DatetimeType:
		return "TIMESTAMP WITH TIME ZONE"
	case model.JSONType:
		return "JSONB"
	case model.BinaryType:
		return "BYTEA"
	default:
		return "TEXT"
	}
}

// CreateTableSQL returns the up-migration text for m: identifying columns
// (single primary key, or a composite key for join models), the tenancy
// column for scoped models, every declared field, and the bookkeeping
// timestamps. Foreign keys are derived from belongs-to relations, with the
// parent table inferred by pluralizing the relation name.
func CreateTableSQL(m *model.Model) string {
	fkByField := make(map[string]string)
	for _, rel := range m.BelongsTo {
		fkByField[rel.Field] = m.Schema + "." + inflect.Pluralize(rel.Name)
	}

	var lines []string
	if m.IsJoin() {
		for _, name := range m.Join.ParentFields {
			f, _ := m.Field(name)
			lines = append(lines, columnLine(f, fkByField))
		}
	} else {
		id, _ := m.Field("id")
		lines = append(lines, fmt.Sprintf("    %s %s PRIMARY KEY", id.Column, postgresType(id)))
	}

	if !m.Global {
		lines = append(lines, fmt.Sprintf("    organization_id BIGINT NOT NULL REFERENCES %s.organizations (id)", m.Schema))
	}

	for _, f := range m.Fields {
		if f.Name == "id" || isJoinField(m, f.Name) {
			continue
		}
		lines = append(lines, columnLine(f, fkByField))
	}

	lines = append(lines,
		"    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()",
		"    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()")

	if m.IsJoin() {
		f0, _ := m.Field(m.Join.ParentFields[0])
		f1, _ := m.Field(m.Join.ParentFields[1])
		lines = append(lines, fmt.Sprintf("    PRIMARY KEY (%s, %s)", f0.Column, f1.Column))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", m.QualifiedTable())
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n);\n")
	return b.String()
}

// DropTableSQL returns the down-migration text for m.
func DropTableSQL(m *model.Model) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;\n", m.QualifiedTable())
}

func columnLine(f model.Field, fkByField map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "    %s %s", f.Column, postgresType(f))
	if !f.Nullable {
		b.WriteString(" NOT NULL")
	}
	if f.Unique {
		b.WriteString(" UNIQUE")
	}
	if parent, ok := fkByField[f.Name]; ok {
		fmt.Fprintf(&b, " REFERENCES %s (id)", parent)
	}
	return b.String()
}

func isJoinField(m *model.Model, name string) bool {
	if !m.IsJoin() {
		return false
	}
	return m.Join.ParentFields[0] == name || m.Join.ParentFields[1] == name
}
