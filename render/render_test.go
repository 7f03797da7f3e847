package render

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenantsql/tenantsql/model"
)

func testModels() []*model.Model {
	body := model.Field{Name: "body", Column: "body", FullName: "tb.body",
		Type: model.TextType, OwnerWrite: true}
	postID := model.Field{Name: "post_id", Column: "post_id", FullName: "tb.post_id",
		Type: model.BigintType, Writable: true}

	comment := &model.Model{
		Name:   "comment",
		Schema: "app",
		Table:  "comments",
		Fields: []model.Field{
			{Name: "id", Column: "id", FullName: "tb.id", Type: model.BigintType},
			body,
			postID,
		},
		BelongsTo: []model.BelongsTo{{Name: "post", Field: "post_id"}},
	}
	team := &model.Model{
		Name:   "team",
		Schema: "app",
		Table:  "teams",
		Global: true,
		Fields: []model.Field{
			{Name: "id", Column: "id", FullName: "tb.id", Type: model.BigintType},
			{Name: "name", Column: "name", FullName: "tb.name",
				Type: model.StringType, OwnerWrite: true, Writable: true},
		},
	}
	return []*model.Model{comment, team}
}

func TestRun(t *testing.T) {
	out := t.TempDir()
	res, err := Run(context.Background(), Config{
		OutDir:         out,
		WrapperPackage: "dbqueries",
	}, testModels())
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)
	require.Empty(t, res.FormatFailures)

	wantFiles := []string{
		filepath.Join("queries", "comment", "insert.sql"),
		filepath.Join("queries", "comment", "update.sql"),
		filepath.Join("queries", "comment", "update_one_with_post.sql"),
		filepath.Join("queries", "comment", "select_one.sql"),
		filepath.Join("queries", "comment", "delete.sql"),
		filepath.Join("queries", "comment", "list.sql"),
		filepath.Join("queries", "comment", "object_permission.sql"),
		filepath.Join("queries", "team", "insert.sql"),
		filepath.Join("migrations", "001_create_comments.up.sql"),
		filepath.Join("migrations", "001_create_comments.down.sql"),
		filepath.Join("migrations", "002_create_teams.up.sql"),
		filepath.Join("db", "comment_queries.go"),
		filepath.Join("db", "team_queries.go"),
		filepath.Join("db", "db.go"),
	}
	for _, rel := range wantFiles {
		require.Contains(t, res.Files, rel)
		_, err := os.Stat(filepath.Join(out, rel))
		require.NoError(t, err, "missing %s on disk", rel)
	}

	// A global model gets no tenancy-dependent outputs.
	require.NotContains(t, res.Files, filepath.Join("queries", "team", "object_permission.sql"))
	require.NotContains(t, res.Files, filepath.Join("queries", "team", "update_one_with_post.sql"))

	sql, err := os.ReadFile(filepath.Join(out, "queries", "comment", "insert.sql"))
	require.NoError(t, err)
	require.Equal(t,
		"INSERT INTO app.comments AS tb (id, organization_id, body, post_id)"+
			" VALUES ($1, $2, $3, $4)"+
			" RETURNING tb.id, tb.body, tb.post_id\n",
		string(sql))
}

func TestRunWritesManifest(t *testing.T) {
	out := t.TempDir()
	res, err := Run(context.Background(), Config{
		OutDir:         out,
		WrapperPackage: "dbqueries",
	}, testModels())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "manifest.json"))
	require.NoError(t, err)

	var manifest Result
	require.NoError(t, json.Unmarshal(data, &manifest))
	require.Equal(t, res.RunID, manifest.RunID)
	require.Equal(t, res.Files, manifest.Files)

	// Checksums are hex SHA-256.
	for rel, sum := range manifest.Files {
		require.Len(t, sum, 64, rel)
	}
}

func TestRunFormatterFailureDoesNotFailRun(t *testing.T) {
	out := t.TempDir()
	res, err := Run(context.Background(), Config{
		OutDir:         out,
		WrapperPackage: "dbqueries",
		Formatter:      []string{"/nonexistent/sql-formatter"},
	}, testModels())
	require.NoError(t, err, "formatter failures must not abort the run")
	require.NotEmpty(t, res.FormatFailures)

	// Unformatted text stays in place.
	_, statErr := os.Stat(filepath.Join(out, "queries", "comment", "insert.sql"))
	require.NoError(t, statErr)
}

func TestRunFormatterRuns(t *testing.T) {
	out := t.TempDir()

	// A formatter that rewrites each file proves both invocation and
	// argument passing.
	script := filepath.Join(t.TempDir(), "fmt.sh")
	require.NoError(t, os.WriteFile(script,
		[]byte("#!/bin/sh\necho formatted > \"$1\"\n"), 0o755))

	res, err := Run(context.Background(), Config{
		OutDir:         out,
		WrapperPackage: "dbqueries",
		Formatter:      []string{script},
	}, testModels())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "queries", "comment", "insert.sql"))
	require.NoError(t, err)
	require.Equal(t, "formatted\n", string(data))

	// Every recorded hash matches the bytes on disk, including the files
	// the formatter rewrote.
	for rel, sum := range res.Files {
		content, err := os.ReadFile(filepath.Join(out, rel))
		require.NoError(t, err, rel)
		got := sha256.Sum256(content)
		require.Equal(t, sum, hex.EncodeToString(got[:]),
			"manifest hash for %s must reflect on-disk content", rel)
	}
}

func TestRunMigrationsAreSequenced(t *testing.T) {
	out := t.TempDir()
	// comment's post_id column carries a foreign key, so migration order
	// follows the order models were handed in, not table names.
	res, err := Run(context.Background(), Config{
		OutDir:         out,
		WrapperPackage: "dbqueries",
	}, testModels())
	require.NoError(t, err)

	require.Contains(t, res.Files, filepath.Join("migrations", "001_create_comments.up.sql"))
	require.Contains(t, res.Files, filepath.Join("migrations", "001_create_comments.down.sql"))
	require.Contains(t, res.Files, filepath.Join("migrations", "002_create_teams.up.sql"))
	require.Contains(t, res.Files, filepath.Join("migrations", "002_create_teams.down.sql"))
	require.NotContains(t, res.Files, filepath.Join("migrations", "create_comments.up.sql"))
}

func TestRunDeterministicChecksums(t *testing.T) {
	run := func() map[string]string {
		out := t.TempDir()
		res, err := Run(context.Background(), Config{
			OutDir:         out,
			WrapperPackage: "dbqueries",
		}, testModels())
		require.NoError(t, err)
		return res.Files
	}

	require.Equal(t, run(), run(), "two runs over the same models must produce identical outputs")
}
