package querygen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectPermission(t *testing.T) {
	qc, err := ObjectPermission(commentModel())
	require.NoError(t, err)
	require.NotNil(t, qc)

	require.Equal(t, "object_permission", qc.OperationName)
	require.Equal(t,
		"SELECT MAX(CASE p.permission"+
			" WHEN 'owner' THEN 3"+
			" WHEN 'write' THEN 2"+
			" WHEN 'read' THEN 1"+
			" ELSE 0 END) AS tier"+
			" FROM app.object_permissions AS p"+
			" WHERE p.organization_id = $1"+
			" AND p.object_type = 'comments'"+
			" AND p.object_id = $2"+
			" AND p.actor_id = ANY($3)",
		qc.SQL)
	require.Equal(t,
		[]BindingName{BindOrganization, BindID, BindActorIDs},
		qc.Bindings)
}

func TestObjectPermissionSkipsGlobalModels(t *testing.T) {
	qc, err := ObjectPermission(teamModel())
	require.NoError(t, err)
	require.Nil(t, qc)
}

func TestObjectPermissionSkipsJoinModels(t *testing.T) {
	qc, err := ObjectPermission(postTagModel())
	require.NoError(t, err)
	require.Nil(t, qc)
}

func TestPermissionTierOrdering(t *testing.T) {
	require.Greater(t, TierOwner, TierWrite)
	require.Greater(t, TierWrite, TierRead)
	require.Greater(t, TierRead, TierNone)
}
