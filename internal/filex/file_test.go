package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedDirectory(t *testing.T) {
	root := t.TempDir()

	got, err := EnsureDir(root, "Banco_de_Ideias/2024")
	require.NoError(t, err)

	want := filepath.Join(root, "Banco_de_Ideias", "2024")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureDir_Idempotent(t *testing.T) {
	root := t.TempDir()

	_, err := EnsureDir(root, "docs")
	require.NoError(t, err)
	_, err = EnsureDir(root, "docs")
	require.NoError(t, err)
}

func TestWithin(t *testing.T) {
	root := t.TempDir()

	p, err := Within(root, "a/b.docx")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "a", "b.docx"), p)

	// leading separators and dot-dot segments are clamped to the root
	p, err = Within(root, "/../../etc/passwd")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "etc", "passwd"), p)

	p, err = Within(root, "")
	require.NoError(t, err)
	require.Equal(t, root, p)
}
