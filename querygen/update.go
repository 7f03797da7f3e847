package querygen

import "github.com/tenantsql/tenantsql/model"

// updateFields returns the fields bound in an UPDATE's SET clause: every
// field flagged Writable, in declaration order, excluding the identifying
// fields.
func updateFields(m *model.Model) []model.Field {
	identifying := make(map[string]bool)
	for _, idf := range IDFields(m) {
		identifying[idf.Field.Name] = true
	}
	var out []model.Field
	for _, f := range m.WritableFields() {
		if identifying[f.Name] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Update compiles the plain update statement: SET over the writable fields
// plus updated_at = NOW(), filtered by id and tenancy. The returned field
// list reports exactly which fields were bound, in order.
func Update(m *model.Model) (QueryContext, []model.Field, error) {
	fields := updateFields(m)
	b := buildUpdate(m, fields)
	return b.FinishWithFieldBindings("update", fields)
}

// UpdateOneWithParent compiles, for every BelongsTo relation on a non-join
// model, an update variant that additionally restricts the row to a given
// parent via the shared PARENT_ID binding. Join models return no variants:
// their two id fields already fully identify the row, so a parent
// restriction would be redundant.
func UpdateOneWithParent(m *model.Model) ([]QueryContext, []model.Field, error) {
	if m.IsJoin() {
		return nil, nil, nil
	}

	fields := updateFields(m)
	var out []QueryContext
	for _, rel := range m.BelongsTo {
		f, ok := m.Field(rel.Field)
		if !ok {
			continue
		}
		b := buildUpdate(m, fields)
		b.Push(" AND ")
		b.Push(f.FullName + " = ")
		b.PushBinding(BindParentID)

		qc, _, err := b.FinishWithFieldBindings("update_one_with_"+rel.Name, fields)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, qc)
	}
	return out, fields, nil
}

// buildUpdate assembles the shared UPDATE ... SET ... WHERE prefix.
func buildUpdate(m *model.Model, fields []model.Field) *Builder {
	b := NewBuilder()
	b.Push("UPDATE ")
	b.Push(m.QualifiedTable())
	b.Push(" AS tb SET ")

	set := b.Separated(", ")
	for _, f := range fields {
		set.Push(f.Column + " = ")
		set.PushBindingUnseparated(FieldBinding(f))
	}
	set.Push("updated_at = NOW()")

	b.Push(" WHERE ")
	PushIDWhere(b, m)
	if !m.Global {
		b.Push(" AND " + orgFullName + " = ")
		b.PushBinding(BindOrganization)
	}
	return b
}
