// Package model holds the validated, read-only description of one declared
// model: its identifiers, tenancy, fields, join shape, and relations. A Model
// is built once by the loader and never mutated during a generation run.
package model

// Field type constants for declared model fields.
const (
	StringType   = "string"
	TextType     = "text"
	IntegerType  = "integer"
	BigintType   = "bigint"
	BooleanType  = "boolean"
	FloatType    = "float"
	DecimalType  = "decimal"
	DatetimeType = "datetime"
	JSONType     = "json"
	BinaryType   = "binary"
)

// Field is one declared column of a model.
type Field struct {
	// Name is the logical field name used for bindings and generated code.
	Name string

	// Column is the SQL column name.
	Column string

	// FullName is the fully-qualified SQL name, "tb.<column>". Every
	// statement aliases its base table as tb so this form is valid in
	// projections, predicates, and RETURNING clauses alike.
	FullName string

	// Type is one of the field type constants above.
	Type string

	OwnerWrite bool
	Writable   bool
	NeverRead  bool
	Unique     bool
	Nullable   bool
}

// Join marks a model as a many-to-many junction: two parent-id fields and
// no single "id" field.
type Join struct {
	// ParentFields names the two parent-id fields, in declaration order.
	ParentFields [2]string
}

// BelongsTo is a reference to a parent model via a foreign-key field.
type BelongsTo struct {
	// Name is the relation name (singular, e.g. "post").
	Name string

	// Field is the foreign-key field on this model (e.g. "post_id").
	Field string
}

// Child is a one-to-many relation eligible for nested inclusion on read.
// The target model's identifiers and readable fields are resolved by the
// loader so query generation never needs the full model set.
type Child struct {
	// Name is the output field the nested rows are aliased under.
	Name string

	// Model is the child model's name.
	Model string

	Schema string
	Table  string

	// ParentField is the foreign-key column on the child that points back
	// at this model.
	ParentField string

	// Fields are the child's readable fields, in declaration order.
	Fields []Field

	// OnGet reports whether the population policy permits inclusion in
	// select-one queries.
	OnGet bool
}

// Reference is a one-to-one foreign reference resolved into a nested JSON
// object on read.
type Reference struct {
	// Name is the output field name; the joined table is aliased ref_<Name>.
	Name string

	// Field is the foreign-key field on this model.
	Field string

	Schema string
	Table  string

	// Fields is the ordered sub-field list projected into the JSON object.
	Fields []Field

	OnGet bool
}

// Sort directions for whitelist rules. DirAny permits both.
const (
	DirAny  = "any"
	DirAsc  = "asc"
	DirDesc = "desc"
)

// SortRule whitelists one field for list ordering, optionally restricted
// to a single direction.
type SortRule struct {
	Field     string
	Direction string
}

// Model is the immutable schema of one declared model.
type Model struct {
	Name   string
	Schema string
	Table  string

	// Global is true for unscoped models. Tenant-scoped models always
	// carry an organization_id column, which is not part of Fields.
	Global bool

	Fields []Field

	Join       *Join
	BelongsTo  []BelongsTo
	Children   []Child
	References []Reference
	Sort       []SortRule
}

// QualifiedTable returns "<schema>.<table>".
func (m *Model) QualifiedTable() string {
	return m.Schema + "." + m.Table
}

// IsJoin reports whether the model is a many-to-many junction.
func (m *Model) IsJoin() bool {
	return m.Join != nil
}

// Field returns the field with the given logical name.
func (m *Model) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ReadableFields returns every field not flagged NeverRead, in declaration
// order.
func (m *Model) ReadableFields() []Field {
	var out []Field
	for _, f := range m.Fields {
		if !f.NeverRead {
			out = append(out, f)
		}
	}
	return out
}

// WritableFields returns every field flagged Writable, in declaration order.
func (m *Model) WritableFields() []Field {
	var out []Field
	for _, f := range m.Fields {
		if f.Writable {
			out = append(out, f)
		}
	}
	return out
}

// OwnerWriteFields returns every field flagged OwnerWrite, in declaration
// order.
func (m *Model) OwnerWriteFields() []Field {
	var out []Field
	for _, f := range m.Fields {
		if f.OwnerWrite {
			out = append(out, f)
		}
	}
	return out
}

// SortRuleFor returns the whitelist rule for the given field, if any.
func (m *Model) SortRuleFor(field string) (SortRule, bool) {
	for _, r := range m.Sort {
		if r.Field == field {
			return r, true
		}
	}
	return SortRule{}, false
}
