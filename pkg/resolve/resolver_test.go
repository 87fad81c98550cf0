package resolve

import (
	"testing"

	"github.com/jesslang/jess/pkg/ast"
	"github.com/jesslang/jess/pkg/oracle/oracletest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_BindsSuperclassAndFieldTypeFromClasspath(t *testing.T) {
	cp := oracletest.NewMapResolver().
		SeedType(ast.Symbol{FQN: "com.example.Base", Kind: ast.SymClass}).
		SeedType(ast.Symbol{FQN: "java.lang.String", Kind: ast.SymClass, FromJDK: true})

	field := &ast.FieldDecl{Name: "name", Type: &ast.TypeRef{Name: "java.lang.String"}}
	target := &ast.TypeDecl{
		Name:       "Widget",
		FQN:        "com.example.Widget",
		Superclass: &ast.TypeRef{Name: "com.example.Base"},
		Fields:     []*ast.FieldDecl{field},
	}
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	r := New(cp, nil, nil, Options{})
	_, err := r.Resolve(cu)
	require.NoError(t, err)

	require.NotNil(t, target.Superclass.Sym)
	assert.Equal(t, "com.example.Base", target.Superclass.Sym.FQN)
	require.NotNil(t, field.Type.Sym)
	assert.Equal(t, "java.lang.String", field.Type.Sym.FQN)
}

func TestResolver_UnqualifiedCallResolvesOwnerToSelf(t *testing.T) {
	call := &ast.CallExpr{Name: "helper"}
	method := &ast.MethodDecl{Name: "run", Body: &ast.Block{Stmts: []ast.Stmt{&ast.ExprStmt{X: call}}}}
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Methods: []*ast.MethodDecl{method}}
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	r := New(oracletest.NewMapResolver(), nil, nil, Options{})
	_, err := r.Resolve(cu)
	require.NoError(t, err)

	require.NotNil(t, call.OwnerType)
	require.NotNil(t, call.OwnerType.Sym)
	assert.Equal(t, "com.example.Widget", call.OwnerType.Sym.FQN)
	assert.Equal(t, ast.UnresolvedMethod, call.Unresolved, "helper has no seeded member, so it stays unresolved")
}

func TestResolver_AmbiguousOverload_ErrorsWhenFailOnAmbiguity(t *testing.T) {
	cp := oracletest.NewMapResolver().
		SeedType(ast.Symbol{FQN: "com.example.Widget", Kind: ast.SymClass}).
		SeedMember("com.example.Widget", "pick",
			ast.Symbol{FQN: "com.example.Widget", Kind: ast.SymMethod},
			ast.Symbol{FQN: "com.example.Widget", Kind: ast.SymMethod},
		)

	call := &ast.CallExpr{Name: "pick"}
	method := &ast.MethodDecl{Name: "run", Body: &ast.Block{Stmts: []ast.Stmt{&ast.ExprStmt{X: call}}}}
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Methods: []*ast.MethodDecl{method}}
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	r := New(cp, nil, nil, Options{FailOnAmbiguity: true, LooseSignatureMatching: false})
	_, err := r.Resolve(cu)
	require.Error(t, err)
}
