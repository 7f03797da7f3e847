package querygen

import "github.com/tenantsql/tenantsql/model"

// ChildPopulator builds the correlated-subquery clause that nests a child
// relation's rows under its output field. It is handed the relation plus the
// id and organization-scope bindings so its placeholders are shared with the
// enclosing query's WHERE clause.
type ChildPopulator interface {
	// PushClause appends one projection clause for rel onto b. orgBinding
	// is empty for global models.
	PushClause(b *Builder, rel model.Child, idBinding, orgBinding BindingName) error
}

// JSONAggPopulator is the default ChildPopulator: it aggregates the child's
// readable fields into a JSON array, with '[]' standing in when the parent
// has no children.
type JSONAggPopulator struct{}

func (JSONAggPopulator) PushClause(b *Builder, rel model.Child, idBinding, orgBinding BindingName) error {
	b.Push("(SELECT COALESCE(JSON_AGG(ROW_TO_JSON(child)), '[]') FROM (SELECT ")

	cols := b.Separated(", ")
	for _, f := range rel.Fields {
		cols.Push("child." + f.Column)
	}

	b.Push(" FROM ")
	b.Push(rel.Schema + "." + rel.Table)
	b.Push(" AS child WHERE child." + rel.ParentField + " = ")
	b.PushBinding(idBinding)
	if orgBinding != "" {
		b.Push(" AND child." + orgColumn + " = ")
		b.PushBinding(orgBinding)
	}
	b.Push(") AS child) AS \"" + rel.Name + "\"")
	return nil
}
