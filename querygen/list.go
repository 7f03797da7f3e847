package querygen

import "github.com/tenantsql/tenantsql/model"

// List compiles the paginated listing for m. The tenancy filter follows the
// same contract as every other operation; ordering comes from the caller
// after whitelist validation, falling back to the model's default when no
// keys are supplied. Limit and offset are always bound, in that order, as
// the trailing bindings.
func List(m *model.Model, keys []SortKey) (QueryContext, error) {
	if err := ValidateSort(m, keys); err != nil {
		return QueryContext{}, err
	}
	if len(keys) == 0 {
		keys = defaultSort(m)
	}

	b := NewBuilder()
	b.Push("SELECT ")
	proj := b.Separated(", ")
	for _, f := range m.ReadableFields() {
		proj.Push(f.FullName)
	}

	b.Push(" FROM ")
	b.Push(m.QualifiedTable())
	b.Push(" AS tb")

	if !m.Global {
		b.Push(" WHERE " + orgFullName + " = ")
		b.PushBinding(BindOrganization)
	}

	b.Push(" ORDER BY ")
	order := b.Separated(", ")
	for _, k := range keys {
		f, ok := m.Field(k.Field)
		if !ok {
			continue
		}
		if k.Desc {
			order.Push(f.FullName + " DESC")
		} else {
			order.Push(f.FullName + " ASC")
		}
	}

	b.Push(" LIMIT ")
	b.PushBinding(BindLimit)
	b.Push(" OFFSET ")
	b.PushBinding(BindOffset)

	return b.Finish("list")
}
