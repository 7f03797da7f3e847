package querygen

import "github.com/tenantsql/tenantsql/model"

// BindingName identifies one logical query parameter. Within a single query
// a name maps to exactly one positional placeholder; requesting the same
// name twice reuses the existing placeholder.
type BindingName string

// Canonical binding names. Per-field bindings use the field's logical name.
const (
	BindID           BindingName = "id"
	BindOrganization BindingName = "organization_id"
	BindParentID     BindingName = "parent_id"
	BindJoinID0      BindingName = "join_id_0"
	BindJoinID1      BindingName = "join_id_1"
	BindLimit        BindingName = "limit"
	BindOffset       BindingName = "offset"
	BindActorIDs     BindingName = "actor_ids"
)

// FieldBinding returns the binding name for a writable field.
func FieldBinding(f model.Field) BindingName {
	return BindingName(f.Name)
}
