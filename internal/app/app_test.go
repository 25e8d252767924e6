package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTree = `.
├── cmd
│   └── app
│       └── main.go
├── internal/db/db.go
├── go.mod
└── README.md

3 directories, 4 files
`

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "project_tree.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func options(in, out string) Options {
	return Options{InPath: in, OutDir: out, DirPerm: 0o755, FilePerm: 0o644}
}

func listTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			rel += "/"
		}
		out = append(out, rel)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestRunEndToEnd(t *testing.T) {
	in := writeInput(t, t.TempDir(), sampleTree)
	out := filepath.Join(t.TempDir(), "out")

	st, err := Run(context.Background(), options(in, out))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"README.md",
		"cmd/",
		"cmd/app/",
		"cmd/app/main.go",
		"go.mod",
		"internal/",
		"internal/db/",
		"internal/db/db.go",
	}, listTree(t, out))
	assert.Equal(t, 4, st.FilesCreated)

	// Повторный прогон: каталоги те же, файлы снова пустые.
	require.NoError(t, os.WriteFile(filepath.Join(out, "go.mod"), []byte("module x\n"), 0o644))
	st, err = Run(context.Background(), options(in, out))
	require.NoError(t, err)
	assert.Equal(t, 4, st.FilesTruncated)
	assert.Zero(t, st.DirsCreated)

	info, err := os.Stat(filepath.Join(out, "go.mod"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestRunRootOnly(t *testing.T) {
	in := writeInput(t, t.TempDir(), ".\n")
	out := filepath.Join(t.TempDir(), "out")

	_, err := Run(context.Background(), options(in, out))
	require.NoError(t, err)
	assert.DirExists(t, out)
	assert.Empty(t, listTree(t, out))
}

func TestRunDecorationOnly(t *testing.T) {
	in := writeInput(t, t.TempDir(), "project\n\n┌──────┐\n0 directories, 0 files\n")
	out := filepath.Join(t.TempDir(), "out")

	_, err := Run(context.Background(), options(in, out))
	require.NoError(t, err)
	assert.Empty(t, listTree(t, out))
}

func TestRunMissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	_, err := Run(context.Background(), options(filepath.Join(t.TempDir(), "missing.txt"), out))
	require.ErrorIs(t, err, ErrNoInput)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.NoDirExists(t, out)
}

func TestRunStdinDryRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	var buf bytes.Buffer
	o := options("-", out)
	o.Stdin = strings.NewReader("├── a/b/readme.md\n")
	o.Stdout = &buf
	o.DryRun = true

	_, err := Run(context.Background(), o)
	require.NoError(t, err)
	assert.NoDirExists(t, out)
	assert.Contains(t, buf.String(), "a/b/readme.md")
}

func TestWatchReappliesOnChange(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "├── first.txt\n")
	out := filepath.Join(t.TempDir(), "out")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, options(in, out), 20*time.Millisecond) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "first.txt"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(in, []byte("├── first.txt\n└── second.txt\n"), 0o644))
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "second.txt"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch не завершился после отмены контекста")
	}
}

func TestWatchRejectsStdin(t *testing.T) {
	err := Watch(context.Background(), options("-", t.TempDir()), 0)
	assert.Error(t, err)
}
