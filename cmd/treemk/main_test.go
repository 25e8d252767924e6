package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppApply(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.txt")
	require.NoError(t, os.WriteFile(in, []byte("├── pkg\n│   ├── util.go\n"), 0o644))
	out := filepath.Join(dir, "out")

	err := newApp().Run([]string{"treemk", "-q", "-i", in, "-o", out})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "pkg", "util.go"))
}

func TestAppPlanCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.txt")
	require.NoError(t, os.WriteFile(in, []byte("├── src\n"), 0o644))
	out := filepath.Join(dir, "out")

	err := newApp().Run([]string{"treemk", "-q", "-i", in, "-o", out, "plan"})
	require.NoError(t, err)
	assert.NoDirExists(t, out)
}

func TestAppConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.txt")
	require.NoError(t, os.WriteFile(in, []byte("├── keep.txt\n"), 0o644))
	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "keep.txt"), []byte("data"), 0o644))

	cfgPath := filepath.Join(dir, "treemk.yaml")
	cfgData := "input: does-not-exist.txt\nout: " + out + "\nkeep_existing: true\nquiet: true\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgData), 0o644))

	// -i перекрывает input из YAML, keep_existing берётся из YAML.
	err := newApp().Run([]string{"treemk", "-c", cfgPath, "-i", in})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestAppMissingConfigIsError(t *testing.T) {
	err := newApp().Run([]string{"treemk", "-q", "-c", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestAppBadPerm(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.txt")
	require.NoError(t, os.WriteFile(in, []byte("├── src\n"), 0o644))

	err := newApp().Run([]string{"treemk", "-q", "-i", in, "-o", dir, "--dperm", "rwx"})
	assert.Error(t, err)
}
