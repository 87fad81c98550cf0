// Package workdir owns the temporary working directory ("gen/") named in §5
// and §6: creation and deletion are scoped to one pipeline invocation. The
// layout (a gen/ source tree plus a classes/ output tree under one root,
// organised by package directory) follows §6's output description and the
// teacher's pkg/build.WorkspaceBuilder's notion of an owned workspace root.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WorkDir owns one invocation's gen/ and classes/ trees under Root.
type WorkDir struct {
	Root string
}

// Create makes a fresh, empty working directory rooted at root, per §5's
// "directory creation ... scoped to the call".
func Create(root string) (*WorkDir, error) {
	if root == "" {
		return nil, fmt.Errorf("workdir: root must not be empty")
	}
	if err := os.RemoveAll(root); err != nil {
		return nil, fmt.Errorf("workdir: clearing %s: %w", root, err)
	}
	if err := os.MkdirAll(filepath.Join(root, "gen"), 0o755); err != nil {
		return nil, fmt.Errorf("workdir: creating gen/: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "classes"), 0o755); err != nil {
		return nil, fmt.Errorf("workdir: creating classes/: %w", err)
	}
	return &WorkDir{Root: root}, nil
}

// GenDir is the directory of synthetic/sliced source files, per §6.
func (w *WorkDir) GenDir() string { return filepath.Join(w.Root, "gen") }

// ClassesDir is the directory of compiled binary artefacts, per §6.
func (w *WorkDir) ClassesDir() string { return filepath.Join(w.Root, "classes") }

// SourcePath returns the gen/-relative path a type with the given FQN
// should be written to: one file per top-level type, organised by package
// directory (§6), using "/" package separators and stopping at the first
// "$" (nested types live in their top-level type's file).
func (w *WorkDir) SourcePath(fqn, ext string) string {
	topLevel := fqn
	if idx := strings.IndexByte(topLevel, '$'); idx >= 0 {
		topLevel = topLevel[:idx]
	}
	pkg := ""
	name := topLevel
	if idx := strings.LastIndexByte(topLevel, '.'); idx >= 0 {
		pkg = topLevel[:idx]
		name = topLevel[idx+1:]
	}
	dir := w.GenDir()
	if pkg != "" {
		dir = filepath.Join(dir, filepath.Join(strings.Split(pkg, ".")...))
	}
	return filepath.Join(dir, name+ext)
}

// Release removes the entire working directory, per §5's "deletion ...
// scoped to the call".
func (w *WorkDir) Release() error {
	return os.RemoveAll(w.Root)
}
