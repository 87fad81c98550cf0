package keep

import (
	"testing"

	"github.com/jesslang/jess/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfRef(t *ast.TypeDecl) *ast.TypeRef {
	return &ast.TypeRef{Name: t.Name, Meta: ast.Meta{Sym: &ast.Symbol{FQN: t.FQN, Kind: ast.SymClass}}}
}

func TestPreSlicer_SingleMethodKeepsTransitiveCallee(t *testing.T) {
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Kind: ast.Class}

	methodA := &ast.MethodDecl{Name: "a", Params: nil}
	methodB := &ast.MethodDecl{Name: "b", Params: nil}
	methodC := &ast.MethodDecl{Name: "c", Params: nil} // never referenced

	methodA.Body = &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{X: &ast.CallExpr{Name: "b", OwnerType: selfRef(target)}},
	}}
	methodB.Body = &ast.Block{}
	methodC.Body = &ast.Block{}

	target.Methods = []*ast.MethodDecl{methodA, methodB, methodC}

	ps := &PreSlicer{}
	ks := ps.Slice(target, []MethodPattern{{Name: "a"}}, false, false)

	require.Len(t, ks.MatchedMethods, 1)
	assert.True(t, methodA.Keep)
	assert.True(t, methodB.Keep, "transitively-called method b must be kept")
	assert.False(t, methodC.Keep, "unreferenced method c must not be kept")
	assert.True(t, target.Keep)
}

func TestPreSlicer_EmptyPatternsKeepsWholeClass(t *testing.T) {
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Kind: ast.Class}
	m1 := &ast.MethodDecl{Name: "a", Body: &ast.Block{}}
	m2 := &ast.MethodDecl{Name: "b", Body: &ast.Block{}}
	target.Methods = []*ast.MethodDecl{m1, m2}

	ps := &PreSlicer{}
	ks := ps.Slice(target, nil, true, true)

	assert.True(t, m1.Keep)
	assert.True(t, m2.Keep)
	assert.Len(t, ks.MatchedMethods, 2)
}

func TestPreSlicer_NestedTypeAncestryMarkedKept(t *testing.T) {
	inner := &ast.TypeDecl{Name: "Inner", FQN: "com.example.Widget$Inner", Kind: ast.Class}
	inner.Methods = []*ast.MethodDecl{{Name: "helper", Body: &ast.Block{}}}
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Kind: ast.Class, Nested: []*ast.TypeDecl{inner}}

	method := &ast.MethodDecl{Name: "a", Body: &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{X: &ast.CallExpr{
			Name: "helper",
			OwnerType: &ast.TypeRef{
				Name: "Inner",
				Meta: ast.Meta{Sym: &ast.Symbol{FQN: "com.example.Widget$Inner", Kind: ast.SymClass}},
			},
		}},
	}}}
	target.Methods = []*ast.MethodDecl{method}

	ps := &PreSlicer{}
	ps.Slice(target, []MethodPattern{{Name: "a"}}, false, false)

	assert.True(t, inner.Keep, "nested type reached via a kept call must be kept")
	assert.True(t, inner.Methods[0].Keep)
}

func TestPreSlicer_LooseMatchingByArity(t *testing.T) {
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget"}
	exact := &ast.MethodDecl{Name: "run", Params: []*ast.Param{{Name: "x", Type: &ast.TypeRef{Name: "int"}}}, Body: &ast.Block{}}
	target.Methods = []*ast.MethodDecl{exact}

	ps := &PreSlicer{LooseMatching: true}
	ks := ps.Slice(target, []MethodPattern{{Name: "run", ParamTypes: []string{"long"}}}, false, false)

	require.Len(t, ks.MatchedMethods, 1, "loose matching should fall back to name+arity")
	assert.True(t, exact.Keep)
}
