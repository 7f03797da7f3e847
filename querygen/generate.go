package querygen

import (
	"fmt"

	"github.com/tenantsql/tenantsql/model"
)

// Operation identifies one query kind. The set is closed and known at
// compile time; dispatch is a plain switch.
type Operation string

const (
	OpInsert             Operation = "insert"
	OpUpdate             Operation = "update"
	OpUpdateWithParent   Operation = "update_one_with_parent"
	OpSelectOne          Operation = "select_one"
	OpSelectOnePopulated Operation = "select_one_populated"
	OpDelete             Operation = "delete"
	OpList               Operation = "list"
	OpObjectPermission   Operation = "object_permission"
)

// Operations lists every operation kind in generation order.
var Operations = []Operation{
	OpInsert,
	OpUpdate,
	OpUpdateWithParent,
	OpSelectOne,
	OpSelectOnePopulated,
	OpDelete,
	OpList,
	OpObjectPermission,
}

// Generate compiles the queries for one model and operation kind. Some
// kinds legitimately produce no query (populated select without relations,
// parent-variant updates on join models, permission lookups on global
// models); those return an empty slice, not an error. List uses the model's
// default ordering; callers with explicit sort requirements use List
// directly.
func Generate(m *model.Model, op Operation) ([]QueryContext, error) {
	switch op {
	case OpInsert:
		qc, err := Insert(m)
		if err != nil {
			return nil, err
		}
		return []QueryContext{qc}, nil

	case OpUpdate:
		qc, _, err := Update(m)
		if err != nil {
			return nil, err
		}
		return []QueryContext{qc}, nil

	case OpUpdateWithParent:
		qcs, _, err := UpdateOneWithParent(m)
		return qcs, err

	case OpSelectOne, OpSelectOnePopulated:
		qc, err := SelectOne(m, op == OpSelectOnePopulated, JSONAggPopulator{})
		if err != nil {
			return nil, err
		}
		if qc == nil {
			return nil, nil
		}
		return []QueryContext{*qc}, nil

	case OpDelete:
		qc, err := Delete(m)
		if err != nil {
			return nil, err
		}
		return []QueryContext{qc}, nil

	case OpList:
		qc, err := List(m, nil)
		if err != nil {
			return nil, err
		}
		return []QueryContext{qc}, nil

	case OpObjectPermission:
		qc, err := ObjectPermission(m)
		if err != nil {
			return nil, err
		}
		if qc == nil {
			return nil, nil
		}
		return []QueryContext{*qc}, nil

	default:
		return nil, fmt.Errorf("unknown operation kind: %s", op)
	}
}
