package querygen

import "github.com/tenantsql/tenantsql/model"

// SelectOne compiles the single-row read for m. With populateChildren set,
// every on-get child relation is nested via the ChildPopulator and every
// on-get reference is resolved into a JSON object through a LEFT JOIN.
// Requesting population on a model with no children and no references
// yields no query at all (nil, nil) rather than an error: there is nothing
// meaningful to populate.
func SelectOne(m *model.Model, populateChildren bool, pop ChildPopulator) (*QueryContext, error) {
	name := "select_one"
	if populateChildren {
		if len(m.Children) == 0 && len(m.References) == 0 {
			return nil, nil
		}
		name = "select_one_populated"
	}

	orgBinding := BindingName("")
	if !m.Global {
		orgBinding = BindOrganization
	}

	b := NewBuilder()
	b.Push("SELECT ")

	proj := b.Separated(", ")
	for _, f := range m.ReadableFields() {
		proj.Push(f.FullName)
	}

	if populateChildren {
		idBinding := IDFields(m)[0].Binding
		for _, rel := range m.Children {
			if !rel.OnGet {
				continue
			}
			proj.Next()
			if err := pop.PushClause(b, rel, idBinding, orgBinding); err != nil {
				return nil, err
			}
		}
		for _, ref := range m.References {
			if !ref.OnGet {
				continue
			}
			proj.Next()
			pushReferenceClause(b, ref)
		}
	}

	b.Push(" FROM ")
	b.Push(m.QualifiedTable())
	b.Push(" AS tb")

	if populateChildren {
		for _, ref := range m.References {
			if !ref.OnGet {
				continue
			}
			fk, _ := m.Field(ref.Field)
			alias := "ref_" + ref.Name
			b.Push(" LEFT JOIN " + ref.Schema + "." + ref.Table + " AS " + alias)
			b.Push(" ON " + alias + ".id = " + fk.FullName)
		}
	}

	b.Push(" WHERE ")
	PushIDWhere(b, m)
	if !m.Global {
		b.Push(" AND " + orgFullName + " = ")
		b.PushBinding(BindOrganization)
	}

	qc, err := b.Finish(name)
	if err != nil {
		return nil, err
	}
	return &qc, nil
}

// pushReferenceClause appends the CASE/JSONB_BUILD_OBJECT projection that
// resolves a reference into a nested object, NULL when the foreign row is
// absent.
func pushReferenceClause(b *Builder, ref model.Reference) {
	alias := "ref_" + ref.Name
	b.Push("CASE WHEN " + alias + ".id IS NOT NULL THEN JSONB_BUILD_OBJECT(")
	pairs := b.Separated(", ")
	for _, f := range ref.Fields {
		pairs.Push("'" + f.Name + "', " + alias + "." + f.Column)
	}
	b.Push(") ELSE NULL END AS \"" + ref.Name + "\"")
}
