// Package ast defines the AST and symbol model the rest of Jess's pipeline
// operates on.
//
// Strategy: reuse go/token for position bookkeeping (FileSet, Pos) exactly as
// any Go tool would, but define our own node shapes for everything else.
// go/ast has no notion of `$`-nested types, throws clauses, JVM descriptors
// or annotation-literal usages, so there is no stdlib tree to extend here —
// unlike a Go-to-Go transpiler, a Java-shaped front end has to bring its own.
package ast

import "go/token"

// Node is the common interface implemented by every AST element: every
// declaration and every expression has a source position and can be visited.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Meta is embedded in every node. It carries the node's source position plus
// the two pieces of per-pass state later stages attach to the original,
// immutable-per-pass tree: the Resolver's symbol binding (or unresolved-kind
// tag) and the PreSlicer/Slicer's keep marker.
type Meta struct {
	StartPos token.Pos
	EndPos   token.Pos

	// Sym is the symbol this reference resolved to. Nil until the Resolver
	// runs, and nil afterwards iff Unresolved is non-zero.
	Sym *Symbol

	// Unresolved tags *why* Sym is nil, once the Resolver has run.
	Unresolved UnresolvedKind

	// Keep is set by the PreSlicer/Slicer fixpoint walk. Zero value (false)
	// means "not yet decided" during resolution and "drop" after slicing.
	Keep bool
}

func (m *Meta) Pos() token.Pos { return m.StartPos }
func (m *Meta) End() token.Pos {
	if m.EndPos != token.NoPos {
		return m.EndPos
	}
	return m.StartPos
}

// Resolved reports whether the Resolver bound this node to a real symbol.
func (m *Meta) Resolved() bool { return m.Sym != nil }

// UnresolvedKind classifies why a reference has no bound Symbol, per §4.1.
type UnresolvedKind int

const (
	// Resolved means a concrete Symbol is bound (or resolution hasn't run).
	Resolved UnresolvedKind = iota
	UnresolvedType
	UnresolvedMethod
	UnresolvedField
	UnresolvedCtor
)

func (k UnresolvedKind) String() string {
	switch k {
	case UnresolvedType:
		return "UNRESOLVED_TYPE"
	case UnresolvedMethod:
		return "UNRESOLVED_METHOD"
	case UnresolvedField:
		return "UNRESOLVED_FIELD"
	case UnresolvedCtor:
		return "UNRESOLVED_CTOR"
	default:
		return "RESOLVED"
	}
}
