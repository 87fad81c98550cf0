// Package collect implements the Collector stage (§4.4): scanning a sliced
// tree's unresolved references and turning each into a StubPlan describing
// the synthetic declaration the Stubber must later materialise.
package collect

import "github.com/jesslang/jess/pkg/ast"

// StubPlan is the tagged union described in §3: exactly one of the Type/
// Field/Method/Constructor/Implements plan fields is non-nil.
type StubPlan struct {
	Type        *TypeStubPlan
	Field       *FieldStubPlan
	Method      *MethodStubPlan
	Constructor *ConstructorStubPlan
	Implements  *ImplementsPlan
}

// FQN returns the fully-qualified name the underlying plan targets, for
// dedup and ordering purposes.
func (p *StubPlan) FQN() string {
	switch {
	case p.Type != nil:
		return p.Type.FQN
	case p.Field != nil:
		return p.Field.OwnerFQN + "#" + p.Field.Name
	case p.Method != nil:
		return p.Method.OwnerFQN + "#" + p.Method.Name
	case p.Constructor != nil:
		return p.Constructor.OwnerFQN + "#<init>"
	case p.Implements != nil:
		return p.Implements.OwnerFQN + "#implements#" + p.Implements.InterfaceFQN
	default:
		return ""
	}
}

// TypeStubPlan describes a synthetic type the Stubber must emit because
// some reference resolved to it but it has no real declaration anywhere on
// the classpath, per §3/§4.4.
type TypeStubPlan struct {
	FQN        string
	Kind       ast.TypeKind
	Arity      int // generic type-parameter count, inferred per §4.4
	Superclass string
	// Mirror marks a plan created for the "unknown fallback" rule (§4.4, §8
	// scenario 6): the receiver's own static type was unresolved, so the
	// plan's FQN is synthesised under the unknown package and later
	// rebound by the Reconciler's pass 2 once a real owner is known.
	Mirror bool

	// Functional marks a planned interface as a lambda/method-reference
	// target, per §4.4's functional-interface inference rule; the Stubber
	// and Reconciler's SAM-uniqueness pass (§4.5, §4.6 pass 5) key off it.
	Functional bool
}

// FieldStubPlan describes a synthetic field.
type FieldStubPlan struct {
	OwnerFQN string
	Name     string
	Type     string
	Static   bool
}

// MethodStubPlan describes a synthetic method.
type MethodStubPlan struct {
	OwnerFQN   string
	Name       string
	ParamTypes []string
	ReturnType string
	Static     bool
	// Abstract marks a plan destined for an interface body (no stub
	// statement emitted) per §4.5.
	Abstract bool
}

// ConstructorStubPlan describes a synthetic constructor.
type ConstructorStubPlan struct {
	OwnerFQN   string
	ParamTypes []string
}

// ImplementsPlan records that OwnerFQN must be declared to implement
// InterfaceFQN, used by the functional-interface SAM rule (§4.4/§4.6 pass 5)
// and by the builder-pattern completion pass (§4.6 pass 6).
type ImplementsPlan struct {
	OwnerFQN     string
	InterfaceFQN string
}
