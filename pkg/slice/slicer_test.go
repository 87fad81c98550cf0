package slice

import (
	"testing"

	"github.com/jesslang/jess/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlicer_DropsUnkeptMembers(t *testing.T) {
	kept := &ast.MethodDecl{Name: "kept", ReturnType: &ast.TypeRef{Name: "int"}, Body: &ast.Block{
		Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitInt, Value: "1"}}},
	}}
	kept.Keep = true
	dropped := &ast.MethodDecl{Name: "dropped", Body: &ast.Block{}}

	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Kind: ast.Class, Methods: []*ast.MethodDecl{kept, dropped}}
	target.Keep = true
	cu := &ast.CompilationUnit{Package: "com.example", Types: []*ast.TypeDecl{target}}

	s := New(Options{Mode: StubBodies})
	out := s.Slice(cu)

	require.Len(t, out.Types, 1)
	require.Len(t, out.Types[0].Methods, 1)
	assert.Equal(t, "kept", out.Types[0].Methods[0].Name)
}

func TestSlicer_StubsMethodBodyWithDefaultReturn(t *testing.T) {
	m := &ast.MethodDecl{Name: "count", ReturnType: &ast.TypeRef{Name: "int"}, Body: &ast.Block{
		Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitInt, Value: "42"}}},
	}}
	m.Keep = true
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Methods: []*ast.MethodDecl{m}}
	target.Keep = true
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	out := New(Options{Mode: StubBodies}).Slice(cu)

	stubbed := out.Types[0].Methods[0]
	require.Len(t, stubbed.Body.Stmts, 1)
	ret, ok := stubbed.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	lit, ok := ret.Value.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "0", lit.Value)
}

func TestSlicer_VoidMethodGetsEmptyBody(t *testing.T) {
	m := &ast.MethodDecl{Name: "run", ReturnType: &ast.TypeRef{Name: "void"}, Body: &ast.Block{
		Stmts: []ast.Stmt{&ast.ExprStmt{X: &ast.Literal{Kind: ast.LitInt, Value: "1"}}},
	}}
	m.Keep = true
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Methods: []*ast.MethodDecl{m}}
	target.Keep = true
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	out := New(Options{Mode: StubBodies}).Slice(cu)
	assert.Empty(t, out.Types[0].Methods[0].Body.Stmts)
}

func TestSlicer_DropsUnusedImports(t *testing.T) {
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Kind: ast.Class}
	target.Keep = true
	cu := &ast.CompilationUnit{
		Types: []*ast.TypeDecl{target},
		Imports: []*ast.Import{
			{Path: "java.util.List"},
			{Path: "java.util.Map", Asterisk: true},
		},
	}

	out := New(Options{Mode: StubBodies, KeepAsteriskImports: false}).Slice(cu)
	assert.Empty(t, out.Imports)
}

func TestSlicer_RetainsSingleTypeImportStillReferenced(t *testing.T) {
	field := &ast.FieldDecl{Name: "items", Type: &ast.TypeRef{Name: "java.util.List"}}
	field.Keep = true
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Kind: ast.Class, Fields: []*ast.FieldDecl{field}}
	target.Keep = true
	cu := &ast.CompilationUnit{
		Types: []*ast.TypeDecl{target},
		Imports: []*ast.Import{
			{Path: "java.util.List"},
			{Path: "java.util.Map"},
		},
	}

	out := New(Options{Mode: StubBodies}).Slice(cu)

	require.Len(t, out.Imports, 1)
	assert.Equal(t, "java.util.List", out.Imports[0].Path)
}

func TestSlicer_KeepsAsteriskImportsWhenConfigured(t *testing.T) {
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Kind: ast.Class}
	target.Keep = true
	cu := &ast.CompilationUnit{
		Types:   []*ast.TypeDecl{target},
		Imports: []*ast.Import{{Path: "java.util", Asterisk: true}},
	}

	out := New(Options{Mode: StubBodies, KeepAsteriskImports: true}).Slice(cu)
	require.Len(t, out.Imports, 1)
	assert.True(t, out.Imports[0].Asterisk)
}
