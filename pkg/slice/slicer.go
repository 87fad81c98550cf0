// Package slice implements the Slicer stage (§4.3): given a PreSlicer
// keep-set already marked onto the tree's Meta.Keep fields, it produces a
// new, smaller CompilationUnit containing only kept declarations, with kept
// method/constructor bodies replaced by a single default-returning
// statement and unused imports dropped.
package slice

import (
	"github.com/jesslang/jess/pkg/ast"
)

// Options configures the Slicer: body handling, and §6's
// keepAsteriskImports field.
type Options struct {
	// Mode selects whether kept bodies are stubbed (default) or left intact.
	// §4.3 only defines the stubbing behaviour; StripOnly exists for callers
	// (e.g. a future "slice but don't stub" mode) that want the trimmed tree
	// without body replacement.
	Mode SliceMode

	// KeepAsteriskImports retains `import pkg.*;` declarations even when
	// nothing in the sliced tree appears to need them, per §6.
	KeepAsteriskImports bool
}

// SliceMode selects how kept method bodies are handled. It is separate from
// §6's sliceMode ("method"/"class").
type SliceMode int

const (
	StubBodies SliceMode = iota
	StripOnly
)

// Slicer rewrites a CompilationUnit down to its kept declarations.
type Slicer struct {
	Opts Options
}

// New constructs a Slicer with the given options.
func New(opts Options) *Slicer {
	return &Slicer{Opts: opts}
}

// Slice returns a new CompilationUnit containing only the kept types of cu,
// recursively trimmed the same way, with kept method/constructor bodies
// stubbed per §4.3.
func (s *Slicer) Slice(cu *ast.CompilationUnit) *ast.CompilationUnit {
	out := &ast.CompilationUnit{
		Meta:     cu.Meta,
		FileName: cu.FileName,
		Package:  cu.Package,
		FileSet:  cu.FileSet,
	}
	usedImports := make(map[string]bool)
	for _, t := range cu.Types {
		if !t.Keep {
			continue
		}
		out.Types = append(out.Types, s.sliceType(t, usedImports))
	}
	for _, imp := range cu.Imports {
		if imp.Asterisk && s.Opts.KeepAsteriskImports {
			out.Imports = append(out.Imports, imp)
			continue
		}
		if usedImports[imp.Path] {
			out.Imports = append(out.Imports, imp)
		}
	}
	return out
}

func (s *Slicer) sliceType(t *ast.TypeDecl, used map[string]bool) *ast.TypeDecl {
	out := &ast.TypeDecl{
		Meta:             t.Meta,
		Name:             t.Name,
		FQN:              t.FQN,
		Kind:             t.Kind,
		IsNonStaticInner: t.IsNonStaticInner,
		TypeParams:       t.TypeParams,
		Superclass:       t.Superclass,
		Interfaces:       t.Interfaces,
		Annotations:      t.Annotations,
		EnumConstants:    t.EnumConstants,
		Functional:       t.Functional,
	}
	noteTypeRef(t.Superclass, used)
	for _, i := range t.Interfaces {
		noteTypeRef(i, used)
	}

	for _, f := range t.Fields {
		if !f.Keep {
			continue
		}
		nf := *f
		if s.Opts.Mode == StubBodies {
			nf.Initializer = nil
		}
		noteTypeRef(f.Type, used)
		out.Fields = append(out.Fields, &nf)
	}

	for _, m := range t.Methods {
		if !m.Keep {
			continue
		}
		nm := *m
		noteTypeRef(m.ReturnType, used)
		for _, p := range m.Params {
			noteTypeRef(p.Type, used)
		}
		for _, th := range m.Thrown {
			noteTypeRef(th, used)
		}
		if s.Opts.Mode == StubBodies && !m.Abstract {
			nm.Body = defaultReturnBody(m)
		} else if m.Body != nil {
			noteBodyRefs(m.Body, used)
		}
		out.Methods = append(out.Methods, &nm)
	}

	for _, c := range t.Constructors {
		if !c.Keep {
			continue
		}
		nc := *c
		for _, p := range c.Params {
			noteTypeRef(p.Type, used)
		}
		for _, th := range c.Thrown {
			noteTypeRef(th, used)
		}
		if s.Opts.Mode == StubBodies {
			nc.Body = emptyBody(c.Meta)
		} else if c.Body != nil {
			noteBodyRefs(c.Body, used)
		}
		out.Constructors = append(out.Constructors, &nc)
	}

	for _, n := range t.Nested {
		if !n.Keep {
			continue
		}
		out.Nested = append(out.Nested, s.sliceType(n, used))
	}

	return out
}

// defaultReturnBody builds the single statement a stubbed non-abstract
// method body is reduced to, per §4.3's per-type literal default table.
func defaultReturnBody(m *ast.MethodDecl) *ast.Block {
	if m.ReturnType == nil || m.ReturnType.Name == "void" {
		return emptyBody(m.Meta)
	}
	return &ast.Block{
		Meta:  m.Meta,
		Stmts: []ast.Stmt{&ast.ReturnStmt{Meta: m.Meta, Value: defaultLiteral(m.ReturnType)}},
	}
}

func emptyBody(meta ast.Meta) *ast.Block {
	return &ast.Block{Meta: meta}
}

// defaultLiteral picks the zero-value literal for a return type, per §4.3.
func defaultLiteral(t *ast.TypeRef) ast.Expr {
	if t.ArrayDims > 0 {
		return &ast.Literal{Kind: ast.LitNull, Value: "null"}
	}
	switch t.Name {
	case "boolean":
		return &ast.Literal{Kind: ast.LitBoolean, Value: "false"}
	case "byte", "short", "int":
		return &ast.Literal{Kind: ast.LitInt, Value: "0"}
	case "long":
		return &ast.Literal{Kind: ast.LitLong, Value: "0L"}
	case "float":
		return &ast.Literal{Kind: ast.LitFloat, Value: "0f"}
	case "double":
		return &ast.Literal{Kind: ast.LitDouble, Value: "0.0"}
	case "char":
		return &ast.Literal{Kind: ast.LitChar, Value: "'\\0'"}
	default:
		return &ast.Literal{Kind: ast.LitNull, Value: "null"}
	}
}

// noteTypeRef records both the exact FQN and the owning package a TypeRef
// needs imported, so the Slicer can later match either a single-type import
// (Path is the full FQN) or a wildcard import (Path is just the package)
// when deciding which imports survived slicing.
func noteTypeRef(t *ast.TypeRef, used map[string]bool) {
	if t == nil {
		return
	}
	fqn := t.FQN()
	used[fqn] = true
	used[ast.PackageOf(fqn)] = true
	for _, ta := range t.TypeArgs {
		noteTypeRef(ta, used)
	}
}

// noteBodyRefs records import usage for a body that survives intact
// (StripOnly mode), by walking every TypeRef it reaches via NewExpr,
// CastExpr and InstanceOfExpr.
func noteBodyRefs(b *ast.Block, used map[string]bool) {
	ast.Walk(b, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.NewExpr:
			noteTypeRef(x.Type, used)
		case *ast.CastExpr:
			noteTypeRef(x.Type, used)
		case *ast.InstanceOfExpr:
			noteTypeRef(x.Type, used)
		case *ast.VarDeclStmt:
			noteTypeRef(x.Type, used)
		}
		return true
	})
}
