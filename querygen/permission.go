package querygen

import "github.com/tenantsql/tenantsql/model"

// Permission tier values returned by the object-permission lookup. Higher
// wins: an actor set's effective tier on an object is the greatest tier any
// actor in the set holds.
const (
	TierNone  = 0
	TierRead  = 1
	TierWrite = 2
	TierOwner = 3
)

// ObjectPermission compiles the query that tests an actor set's permission
// tier on one object. Rows live in <schema>.object_permissions keyed by
// organization, object type (the model's table name), object id, and actor
// id. Global models carry no per-organization permissions, and join rows
// are not permission targets; both yield no query.
func ObjectPermission(m *model.Model) (*QueryContext, error) {
	if m.Global || m.IsJoin() {
		return nil, nil
	}

	b := NewBuilder()
	b.Push("SELECT MAX(CASE p.permission")
	b.Push(" WHEN 'owner' THEN 3")
	b.Push(" WHEN 'write' THEN 2")
	b.Push(" WHEN 'read' THEN 1")
	b.Push(" ELSE 0 END) AS tier")
	b.Push(" FROM " + m.Schema + ".object_permissions AS p")
	b.Push(" WHERE p.organization_id = ")
	b.PushBinding(BindOrganization)
	b.Push(" AND p.object_type = '" + m.Table + "'")
	b.Push(" AND p.object_id = ")
	b.PushBinding(BindID)
	b.Push(" AND p.actor_id = ANY(")
	b.PushBinding(BindActorIDs)
	b.Push(")")

	qc, err := b.Finish("object_permission")
	if err != nil {
		return nil, err
	}
	return &qc, nil
}
