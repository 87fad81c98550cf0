// Package oracle defines the Go shapes of every external collaborator §1
// and §6 name as explicitly out of scope for the core: classpath discovery,
// driving a language compiler, file I/O, and statistics bookkeeping. The
// core only ever depends on these interfaces — it never implements them.
package oracle

import (
	"context"

	"github.com/jesslang/jess/pkg/ast"
)

// SourceParser is the "parse source into an AST with attached symbol
// resolution" oracle named in §1.
type SourceParser interface {
	Parse(ctx context.Context, path string) (*ast.CompilationUnit, error)
}

// ClasspathResolver is the symbol-lookup oracle the Resolver (§4.1) drives:
// a classpath plus other source roots, queried by name.
type ClasspathResolver interface {
	// LookupType resolves a type reference to a Symbol, by fully-qualified
	// or simple name as written in source.
	LookupType(name string) (ast.Symbol, bool)

	// LookupMember resolves a member reference against an already-bound
	// owner type. Returns every candidate (overloads included) so the
	// Resolver's signature-matching pass (§4.1) can pick among them.
	LookupMember(owner ast.Symbol, name string, arity int) ([]ast.Symbol, bool)
}

// ClasspathProvider is the "classpath discovery from a package manifest"
// oracle named in §1.
type ClasspathProvider interface {
	Archives() []string
	SourceRoots() []string
}

// CompileReport is the result of invoking the external compiler.
type CompileReport struct {
	Success     bool
	Diagnostics []string
	ClassesDir  string
}

// Compiler is the "driving a language compiler" oracle named in §1: it
// compiles a directory of sources against a list of archive dependencies.
type Compiler interface {
	Compile(ctx context.Context, workDir string, archives []string) (*CompileReport, error)
}

// StatsSink is the "statistics bookkeeping" oracle named in §1. The
// pipeline calls it, if non-nil, at each stage boundary; it is never
// required for correctness.
type StatsSink interface {
	Record(event string, fields map[string]any)
}

// ClassFileReader is the "walk the emitted class files" oracle §6's
// target-method verification needs: given a compiled .class file, report
// whether one method's Code attribute actually carries bytecode. This is
// what lets TARGET_METHOD_NOT_EMITTED reflect a genuine post-compile loss
// of the target method rather than a guess made from the pre-compile AST.
type ClassFileReader interface {
	MethodHasCode(classFile, methodName, descriptor string) (bool, error)
}
