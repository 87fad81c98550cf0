package workdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_MakesGenAndClassesDirs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "work")
	wd, err := Create(root)
	require.NoError(t, err)

	assert.DirExists(t, wd.GenDir())
	assert.DirExists(t, wd.ClassesDir())
}

func TestCreate_EmptyRootErrors(t *testing.T) {
	_, err := Create("")
	assert.Error(t, err)
}

func TestCreate_ClearsExistingContents(t *testing.T) {
	root := filepath.Join(t.TempDir(), "work")
	require.NoError(t, os.MkdirAll(root, 0o755))
	stale := filepath.Join(root, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	wd, err := Create(root)
	require.NoError(t, err)

	assert.NoFileExists(t, stale)
	assert.DirExists(t, wd.GenDir())
}

func TestSourcePath_PackageDirectoryLayoutStopsAtNestedTypeSeparator(t *testing.T) {
	wd := &WorkDir{Root: "/tmp/jess-root"}
	path := wd.SourcePath("com.example.Outer$Inner", ".java")
	assert.Equal(t, filepath.Join("/tmp/jess-root", "gen", "com", "example", "Outer.java"), path)
}

func TestSourcePath_DefaultPackage(t *testing.T) {
	wd := &WorkDir{Root: "/tmp/jess-root"}
	path := wd.SourcePath("Widget", ".java")
	assert.Equal(t, filepath.Join("/tmp/jess-root", "gen", "Widget.java"), path)
}

func TestRelease_RemovesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "work")
	wd, err := Create(root)
	require.NoError(t, err)

	require.NoError(t, wd.Release())
	assert.NoDirExists(t, root)
}
