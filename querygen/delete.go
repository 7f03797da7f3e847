package querygen

import "github.com/tenantsql/tenantsql/model"

// Delete compiles the row delete, filtered by id and tenancy exactly like
// the read path.
func Delete(m *model.Model) (QueryContext, error) {
	b := NewBuilder()
	b.Push("DELETE FROM ")
	b.Push(m.QualifiedTable())
	b.Push(" AS tb WHERE ")
	PushIDWhere(b, m)
	if !m.Global {
		b.Push(" AND " + orgFullName + " = ")
		b.PushBinding(BindOrganization)
	}
	return b.Finish("delete")
}
