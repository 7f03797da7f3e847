package initcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenantsql/tenantsql/internal/config"
	"github.com/tenantsql/tenantsql/model"
)

// chdir stands in for t.Chdir, which needs Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

func runInit(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, Options{Stdout: &stdout, Stderr: &stderr})
	return code, stdout.String(), stderr.String()
}

func TestInitScaffoldsProject(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	code, stdout, stderr := runInit(t)
	require.Equal(t, 0, code, "stderr: %s", stderr)
	require.Contains(t, stdout, "Initialized tenantsql project")

	// The written config loads with defaults intact.
	cfg, err := config.Find(dir)
	require.NoError(t, err)
	require.Equal(t, "models", cfg.ModelsDir)
	require.Equal(t, "gen", cfg.OutDir)
	require.Equal(t, "dbqueries", cfg.WrapperPackage)

	// The sample model passes a full load.
	models, err := model.LoadDir(cfg.ModelsPath())
	require.NoError(t, err)
	require.Len(t, models, 1)
	require.Equal(t, "project", models[0].Name)
	require.False(t, models[0].Global)
}

func TestInitRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	code, _, _ := runInit(t)
	require.Equal(t, 0, code)

	code, _, stderr := runInit(t)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "already exists")
}

func TestInitForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, config.ConfigFilename), []byte("out_dir: custom\n"), 0o644))

	code, _, stderr := runInit(t, "--force")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	data, err := os.ReadFile(filepath.Join(dir, config.ConfigFilename))
	require.NoError(t, err)
	require.NotContains(t, string(data), "custom")
}

func TestInitNoSample(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	code, _, _ := runInit(t, "--no-sample")
	require.Equal(t, 0, code)

	_, err := os.Stat(filepath.Join(dir, "models", "project.yaml"))
	require.True(t, os.IsNotExist(err))

	// The models directory itself still exists for the user to fill in.
	info, err := os.Stat(filepath.Join(dir, "models"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestInitHelp(t *testing.T) {
	code, stdout, _ := runInit(t, "--help")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "tenantsql init")
}

func TestInitRejectsModelsFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "models"), []byte("not a dir"), 0o644))

	code, _, stderr := runInit(t)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "expected directory")
}
