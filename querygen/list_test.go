package querygen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListDefaultSort(t *testing.T) {
	qc, err := List(postModel(), nil)
	require.NoError(t, err)

	require.Equal(t, "list", qc.OperationName)
	require.Equal(t,
		"SELECT tb.id, tb.title, tb.author_id FROM app.posts AS tb"+
			" WHERE tb.organization_id = $1"+
			" ORDER BY tb.title ASC LIMIT $2 OFFSET $3",
		qc.SQL)
	require.Equal(t,
		[]BindingName{BindOrganization, BindLimit, BindOffset},
		qc.Bindings)
}

func TestListDefaultSortFallsBackToID(t *testing.T) {
	// No whitelist at all: order by the identifying field ascending.
	qc, err := List(commentModel(), nil)
	require.NoError(t, err)
	require.Contains(t, qc.SQL, "ORDER BY tb.id ASC")
}

func TestListExplicitSort(t *testing.T) {
	qc, err := List(postModel(), []SortKey{{Field: "title", Desc: true}, {Field: "id"}})
	require.NoError(t, err)

	require.Contains(t, qc.SQL, "ORDER BY tb.title DESC, tb.id ASC")
}

func TestListGlobalHasNoTenancyFilter(t *testing.T) {
	qc, err := List(teamModel(), nil)
	require.NoError(t, err)

	require.Equal(t,
		"SELECT tb.id, tb.name FROM app.teams AS tb"+
			" ORDER BY tb.id ASC LIMIT $1 OFFSET $2",
		qc.SQL)
	require.Equal(t, []BindingName{BindLimit, BindOffset}, qc.Bindings)
}

func TestListJoinModelDefaultSort(t *testing.T) {
	qc, err := List(postTagModel(), nil)
	require.NoError(t, err)
	require.Contains(t, qc.SQL, "ORDER BY tb.post_id ASC, tb.tag_id ASC")
}

func TestListRejectsNonWhitelistedSort(t *testing.T) {
	_, err := List(postModel(), []SortKey{{Field: "author_id"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not allow sorting")
}
