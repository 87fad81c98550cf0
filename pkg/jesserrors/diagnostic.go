package jesserrors

import (
	"fmt"
	"go/token"
	"os"
	"strings"
	"sync"
)

// Diagnostic is a non-fatal, rustc-style note with a source snippet. No
// pipeline stage builds one: the Collector and Stubber skip a plan they
// cannot apply without recording a Diagnostic, and the pipeline Result's
// notes field (§6) does not carry them.
type Diagnostic struct {
	Message  string
	Filename string
	Line     int // 1-indexed
	Column   int // 1-indexed

	SourceLines   []string
	HighlightLine int // index into SourceLines

	Annotation string
}

// sourceCache avoids re-reading the same file for every diagnostic emitted
// against it, bounded to avoid unbounded growth across a long-lived process
// embedding the pipeline (mirrors the teacher's bounded sourceCache).
var (
	sourceCacheMu    sync.RWMutex
	sourceCache      = make(map[string][]string)
	sourceCacheOrder = make([]string, 0, sourceCacheLimit)
)

const sourceCacheLimit = 100

// NewDiagnostic builds a Diagnostic from a FileSet position, attaching up to
// two lines of context before and after, matching the teacher's
// NewEnhancedError.
func NewDiagnostic(fset *token.FileSet, pos token.Pos, message string) *Diagnostic {
	if fset == nil || !pos.IsValid() {
		return &Diagnostic{Message: message, Filename: "unknown"}
	}

	position := fset.Position(pos)
	lines, highlight, err := extractSourceLines(position.Filename, position.Line, 2)

	d := &Diagnostic{
		Message:       message,
		Filename:      position.Filename,
		Line:          position.Line,
		Column:        position.Column,
		SourceLines:   lines,
		HighlightLine: highlight,
	}
	if err != nil {
		d.Annotation = fmt.Sprintf("(source unavailable: %v)", err)
	}
	return d
}

// WithAnnotation attaches the "^^^^ text" annotation under the highlighted
// line and returns the Diagnostic for chaining.
func (d *Diagnostic) WithAnnotation(annotation string) *Diagnostic {
	d.Annotation = annotation
	return d
}

// String renders the diagnostic the way a compiler front end would: a
// "file:line:col: message" header followed by the snippet and caret.
func (d *Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s\n", d.Filename, d.Line, d.Column, d.Message)

	for i, line := range d.SourceLines {
		fmt.Fprintf(&b, "  %s\n", line)
		if i == d.HighlightLine {
			fmt.Fprintf(&b, "  %s^\n", strings.Repeat(" ", max(0, d.Column-1)))
			if d.Annotation != "" {
				fmt.Fprintf(&b, "  %s%s\n", strings.Repeat(" ", max(0, d.Column-1)), d.Annotation)
			}
		}
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func extractSourceLines(filename string, line, context int) ([]string, int, error) {
	if filename == "" {
		return nil, 0, fmt.Errorf("no filename")
	}

	lines, err := readCachedLines(filename)
	if err != nil {
		return nil, 0, err
	}

	start := line - 1 - context
	if start < 0 {
		start = 0
	}
	end := line - 1 + context
	if end >= len(lines) {
		end = len(lines) - 1
	}
	if start > end || line-1 < 0 || line-1 >= len(lines) {
		return nil, 0, fmt.Errorf("line %d out of range", line)
	}

	return lines[start : end+1], (line - 1) - start, nil
}

func readCachedLines(filename string) ([]string, error) {
	sourceCacheMu.RLock()
	if lines, ok := sourceCache[filename]; ok {
		sourceCacheMu.RUnlock()
		return lines, nil
	}
	sourceCacheMu.RUnlock()

	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")

	sourceCacheMu.Lock()
	defer sourceCacheMu.Unlock()
	if _, ok := sourceCache[filename]; !ok {
		if len(sourceCacheOrder) >= sourceCacheLimit {
			oldest := sourceCacheOrder[0]
			sourceCacheOrder = sourceCacheOrder[1:]
			delete(sourceCache, oldest)
		}
		sourceCache[filename] = lines
		sourceCacheOrder = append(sourceCacheOrder, filename)
	}
	return lines, nil
}
