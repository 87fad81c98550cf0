package jesserrors

import (
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiagnostic_InvalidPosFallsBackToBareMessage(t *testing.T) {
	d := NewDiagnostic(nil, token.NoPos, "something went wrong")
	assert.Equal(t, "something went wrong", d.Message)
	assert.Equal(t, "unknown", d.Filename)
	assert.Empty(t, d.SourceLines)
}

func TestNewDiagnostic_ExtractsSourceSnippet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Widget.java")
	require.NoError(t, os.WriteFile(path, []byte("line1\nline2\nline3\nline4\nline5\n"), 0o644))

	fset := token.NewFileSet()
	file := fset.AddFile(path, -1, 100)
	file.SetLinesForContent([]byte("line1\nline2\nline3\nline4\nline5\n"))
	pos := file.LineStart(3)

	d := NewDiagnostic(fset, pos, "unresolved reference")
	require.NotEmpty(t, d.SourceLines)
	assert.Equal(t, "line3", d.SourceLines[d.HighlightLine])
}

func TestDiagnostic_StringIncludesCaretUnderAnnotatedLine(t *testing.T) {
	d := &Diagnostic{
		Message: "unresolved reference", Filename: "Widget.java", Line: 3, Column: 5,
		SourceLines: []string{"line2", "line3", "line4"}, HighlightLine: 1,
	}
	d.WithAnnotation("^^^^ here")

	out := d.String()
	assert.Contains(t, out, "Widget.java:3:5: unresolved reference")
	assert.Contains(t, out, "line3")
	assert.Contains(t, out, "^^^^ here")
}
