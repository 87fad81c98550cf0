// Package oracletest provides minimal in-memory fakes for the pkg/oracle
// interfaces, used only by this module's own tests — the pipeline itself
// only ever depends on the interfaces, never on these fakes.
package oracletest

import (
	"context"
	"fmt"

	"github.com/jesslang/jess/pkg/ast"
	"github.com/jesslang/jess/pkg/oracle"
)

// MapResolver is a map-backed oracle.ClasspathResolver for tests: it
// resolves exactly the symbols it was seeded with and reports everything
// else as unresolved.
type MapResolver struct {
	Types   map[string]ast.Symbol
	Members map[string][]ast.Symbol // key: owner.FQN + "#" + name
}

// NewMapResolver builds an empty resolver ready for Seed* calls.
func NewMapResolver() *MapResolver {
	return &MapResolver{
		Types:   make(map[string]ast.Symbol),
		Members: make(map[string][]ast.Symbol),
	}
}

// SeedType registers a resolvable type symbol.
func (r *MapResolver) SeedType(sym ast.Symbol) *MapResolver {
	r.Types[sym.FQN] = sym
	r.Types[sym.SimpleName()] = sym
	return r
}

// SeedMember registers resolvable overloads of a member on owner.
func (r *MapResolver) SeedMember(ownerFQN, name string, syms ...ast.Symbol) *MapResolver {
	r.Members[ownerFQN+"#"+name] = syms
	return r
}

func (r *MapResolver) LookupType(name string) (ast.Symbol, bool) {
	sym, ok := r.Types[name]
	return sym, ok
}

func (r *MapResolver) LookupMember(owner ast.Symbol, name string, arity int) ([]ast.Symbol, bool) {
	syms, ok := r.Members[owner.FQN+"#"+name]
	if !ok {
		return nil, false
	}
	var matches []ast.Symbol
	for _, s := range syms {
		matches = append(matches, s)
	}
	_ = arity // arity-based filtering is left to the caller's overload matching
	return matches, len(matches) > 0
}

var _ oracle.ClasspathResolver = (*MapResolver)(nil)

// NoopCompiler reports success without touching the filesystem.
type NoopCompiler struct {
	ClassesDir string
}

func (c *NoopCompiler) Compile(ctx context.Context, workDir string, archives []string) (*oracle.CompileReport, error) {
	dir := c.ClassesDir
	if dir == "" {
		dir = workDir + "/classes"
	}
	return &oracle.CompileReport{Success: true, ClassesDir: dir}, nil
}

var _ oracle.Compiler = (*NoopCompiler)(nil)

// FailingCompiler always reports a compile failure, for exercising
// FAILED_COMPILE paths.
type FailingCompiler struct {
	Message string
}

func (c *FailingCompiler) Compile(ctx context.Context, workDir string, archives []string) (*oracle.CompileReport, error) {
	msg := c.Message
	if msg == "" {
		msg = "compilation failed"
	}
	return &oracle.CompileReport{Success: false, Diagnostics: []string{msg}}, fmt.Errorf("%s", msg)
}

var _ oracle.Compiler = (*FailingCompiler)(nil)

// StaticClasspath is a fixed oracle.ClasspathProvider.
type StaticClasspath struct {
	ArchivePaths []string
	Roots        []string
}

func (c *StaticClasspath) Archives() []string    { return c.ArchivePaths }
func (c *StaticClasspath) SourceRoots() []string { return c.Roots }

var _ oracle.ClasspathProvider = (*StaticClasspath)(nil)

// RecordingStats accumulates every StatsSink.Record call, for asserting on
// stage-boundary events in tests.
type RecordingStats struct {
	Events []StatsEvent
}

type StatsEvent struct {
	Name   string
	Fields map[string]any
}

func (s *RecordingStats) Record(event string, fields map[string]any) {
	s.Events = append(s.Events, StatsEvent{Name: event, Fields: fields})
}

var _ oracle.StatsSink = (*RecordingStats)(nil)

// FixedClassFileReader is a canned oracle.ClassFileReader for tests: it
// reports HasCode for any method regardless of what (if anything) exists
// on disk at the given path, so the pipeline's target-method verification
// can be exercised without a real compiler/classloader in play.
type FixedClassFileReader struct {
	HasCode bool
	Err     error
}

func (r *FixedClassFileReader) MethodHasCode(classFile, methodName, descriptor string) (bool, error) {
	return r.HasCode, r.Err
}

var _ oracle.ClassFileReader = (*FixedClassFileReader)(nil)
