package querygen

import "github.com/tenantsql/tenantsql/model"

// IDField pairs an identifying field with its canonical binding. Non-join
// models identify rows by a single "id" field; join models by their two
// parent-id fields. The resolver lets every generator treat both shapes
// uniformly.
type IDField struct {
	Field   model.Field
	Binding BindingName
}

// IDFields returns the identifying fields of m: exactly one pair for a
// non-join model, exactly two for a join model.
func IDFields(m *model.Model) []IDField {
	if m.IsJoin() {
		f0, _ := m.Field(m.Join.ParentFields[0])
		f1, _ := m.Field(m.Join.ParentFields[1])
		return []IDField{
			{Field: f0, Binding: BindJoinID0},
			{Field: f1, Binding: BindJoinID1},
		}
	}
	f, _ := m.Field("id")
	return []IDField{{Field: f, Binding: BindID}}
}

// PushIDWhere appends an AND-joined equality over IDFields(m) onto b.
func PushIDWhere(b *Builder, m *model.Model) {
	and := b.Separated(" AND ")
	for _, idf := range IDFields(m) {
		and.Push(idf.Field.FullName + " = ")
		and.PushBindingUnseparated(idf.Binding)
	}
}

// OtherIDField returns the complementary parent-id field name for a join
// model, or "id" for a non-join model.
func OtherIDField(m *model.Model, given string) string {
	if !m.IsJoin() {
		return "id"
	}
	if m.Join.ParentFields[0] == given {
		return m.Join.ParentFields[1]
	}
	return m.Join.ParentFields[0]
}
