package querygen

import "github.com/tenantsql/tenantsql/model"

// orgColumn is the tenancy column every tenant-scoped model carries. It is
// not part of the declared field list.
const orgColumn = "organization_id"

const orgFullName = "tb." + orgColumn

// insertFields returns the fields the owner supplies at creation time:
// everything flagged OwnerWrite or Writable, in declaration order, excluding
// the identifying fields (those are bound canonically).
func insertFields(m *model.Model) []model.Field {
	identifying := make(map[string]bool)
	for _, idf := range IDFields(m) {
		identifying[idf.Field.Name] = true
	}
	var out []model.Field
	for _, f := range m.Fields {
		if identifying[f.Name] {
			continue
		}
		if f.OwnerWrite || f.Writable {
			out = append(out, f)
		}
	}
	return out
}

// Insert compiles the insert statement for m. Binding order is the
// load-bearing positional contract: identifying bindings first, then the
// organization binding for tenant-scoped models, then one binding per
// included field in declaration order, matching the column list exactly.
func Insert(m *model.Model) (QueryContext, error) {
	b := NewBuilder()
	b.Push("INSERT INTO ")
	b.Push(m.QualifiedTable())
	b.Push(" AS tb (")

	ids := IDFields(m)
	fields := insertFields(m)

	cols := b.Separated(", ")
	for _, idf := range ids {
		cols.Push(idf.Field.Column)
	}
	if !m.Global {
		cols.Push(orgColumn)
	}
	for _, f := range fields {
		cols.Push(f.Column)
	}

	b.Push(") VALUES (")
	vals := b.Separated(", ")
	for _, idf := range ids {
		vals.PushBinding(idf.Binding)
	}
	if !m.Global {
		vals.PushBinding(BindOrganization)
	}
	for _, f := range fields {
		vals.PushBinding(FieldBinding(f))
	}
	b.Push(")")

	if readable := m.ReadableFields(); len(readable) > 0 {
		b.Push(" RETURNING ")
		ret := b.Separated(", ")
		for _, f := range readable {
			ret.Push(f.FullName)
		}
	}

	return b.Finish("insert")
}
