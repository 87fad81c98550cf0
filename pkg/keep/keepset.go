// Package keep implements the KeepSet data type (§3) and the PreSlicer
// (§4.2): the fixpoint computation of which declarations in the original
// AST must survive slicing for a target method (or whole class) to remain
// compilable.
package keep

import "github.com/jesslang/jess/pkg/ast"

// MethodPattern is a (method-name, parameter-type-list) keep rule, per §3.
// ParamTypes holds the as-written type names; a method matches exactly when
// its parameter types equal them (an empty slice matches only a method with
// no parameters). In the §4.1/4.2 loose-matching mode, when no method
// matches exactly, a method with the same name matches by arity alone.
type MethodPattern struct {
	Name       string
	ParamTypes []string
	// ExactArity is a parameter count a loose match accepts in addition to
	// len(ParamTypes); a negative value adds none. The pipeline sets it to
	// len(ParamTypes).
	ExactArity int
}

// KeepSet is the PreSlicer's output: the method-keep rules used to seed the
// fixpoint, plus whether class-init/instance-init sentinels were requested.
// The actual "set of AST node identities" (§3) lives on each node's
// Meta.Keep marker rather than in a side-table, since every node already
// carries that marker.
type KeepSet struct {
	Patterns         []MethodPattern
	KeepStaticInit   bool
	KeepInstanceInit bool

	// Root is the target type whose declaration anchors this keep-set.
	Root *ast.TypeDecl

	// MatchedMethods is every MethodDecl the patterns matched (for callers
	// that want to verify the target actually got kept, e.g. the pipeline's
	// TARGET_METHOD_NOT_EMITTED check).
	MatchedMethods []*ast.MethodDecl
}
