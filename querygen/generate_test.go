package querygen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCoversEveryOperation(t *testing.T) {
	m := postModel()
	seen := make(map[string]bool)
	for _, op := range Operations {
		qcs, err := Generate(m, op)
		require.NoError(t, err, "operation %s", op)
		for _, qc := range qcs {
			require.NotEmpty(t, qc.SQL)
			seen[qc.OperationName] = true
		}
	}

	for _, want := range []string{
		"insert", "update", "update_one_with_author",
		"select_one", "select_one_populated", "delete", "list",
		"object_permission",
	} {
		require.True(t, seen[want], "missing generated operation %s", want)
	}
}

func TestGenerateDesignedSkips(t *testing.T) {
	// Populated select without relations.
	qcs, err := Generate(commentModel(), OpSelectOnePopulated)
	require.NoError(t, err)
	require.Empty(t, qcs)

	// Parent-variant update on a join model.
	qcs, err = Generate(postTagModel(), OpUpdateWithParent)
	require.NoError(t, err)
	require.Empty(t, qcs)

	// Permission lookup on a global model.
	qcs, err = Generate(teamModel(), OpObjectPermission)
	require.NoError(t, err)
	require.Empty(t, qcs)
}

func TestGenerateUnknownOperation(t *testing.T) {
	_, err := Generate(commentModel(), Operation("bogus"))
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "unknown operation"))
}
