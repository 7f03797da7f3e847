package querygen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertTenantScoped(t *testing.T) {
	qc, err := Insert(commentModel())
	require.NoError(t, err)

	require.Equal(t, "insert", qc.OperationName)
	require.Equal(t,
		"INSERT INTO app.comments AS tb (id, organization_id, body, post_id)"+
			" VALUES ($1, $2, $3, $4)"+
			" RETURNING tb.id, tb.body, tb.post_id",
		qc.SQL)
	require.Equal(t,
		[]BindingName{BindID, BindOrganization, "body", "post_id"},
		qc.Bindings)
}

func TestInsertGlobal(t *testing.T) {
	qc, err := Insert(teamModel())
	require.NoError(t, err)

	require.Equal(t,
		"INSERT INTO app.teams AS tb (id, name)"+
			" VALUES ($1, $2)"+
			" RETURNING tb.id, tb.name",
		qc.SQL)
	require.Equal(t, []BindingName{BindID, "name"}, qc.Bindings)
}

func TestInsertJoinModel(t *testing.T) {
	qc, err := Insert(postTagModel())
	require.NoError(t, err)

	require.Equal(t,
		"INSERT INTO app.post_tags AS tb (post_id, tag_id, organization_id)"+
			" VALUES ($1, $2, $3)"+
			" RETURNING tb.post_id, tb.tag_id",
		qc.SQL)
	require.Equal(t,
		[]BindingName{BindJoinID0, BindJoinID1, BindOrganization},
		qc.Bindings)
}

func TestInsertSkipsNeverReadInReturning(t *testing.T) {
	m := teamModel()
	secret := testField("api_key", "string")
	secret.OwnerWrite = true
	secret.NeverRead = true
	m.Fields = append(m.Fields, secret)

	qc, err := Insert(m)
	require.NoError(t, err)

	require.Equal(t,
		"INSERT INTO app.teams AS tb (id, name, api_key)"+
			" VALUES ($1, $2, $3)"+
			" RETURNING tb.id, tb.name",
		qc.SQL)
}
