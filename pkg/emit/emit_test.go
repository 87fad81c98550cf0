package emit

import (
	"go/token"
	"testing"

	"github.com/jesslang/jess/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilationUnit_RendersPackageImportsAndType(t *testing.T) {
	m := &ast.MethodDecl{
		Meta:       ast.Meta{StartPos: 10},
		Name:       "run",
		ReturnType: &ast.TypeRef{Name: "int"},
		Body:       &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitInt, Value: "0"}}}},
	}
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Kind: ast.Class, Methods: []*ast.MethodDecl{m}}
	cu := &ast.CompilationUnit{
		Package: "com.example",
		Imports: []*ast.Import{{Path: "java.util.List"}},
		Types:   []*ast.TypeDecl{target},
	}

	out, mappings := CompilationUnit(cu)
	assert.Contains(t, out, "package com.example;")
	assert.Contains(t, out, "import java.util.List;")
	assert.Contains(t, out, "public class Widget {")
	assert.Contains(t, out, "public int run() {")
	assert.Contains(t, out, "return 0;")

	require.Len(t, mappings, 2, "one mapping for the type, one for its method")
	assert.Equal(t, "Widget", mappings[0].Name)
	assert.Equal(t, "run", mappings[1].Name)
	assert.Equal(t, token.Pos(10), mappings[1].OrigPos)
	assert.Greater(t, mappings[1].GenLine, mappings[0].GenLine)
}

func TestType_InterfaceMethodWithoutBodyGetsSemicolon(t *testing.T) {
	iface := &ast.TypeDecl{
		Name: "Mapper", FQN: "com.example.Mapper", Kind: ast.Interface,
		Methods: []*ast.MethodDecl{{Name: "apply", ReturnType: &ast.TypeRef{Name: "java.lang.String"}, Abstract: true}},
	}
	out, mappings := Type(iface)
	assert.Contains(t, out, "public interface Mapper {")
	assert.Contains(t, out, "public abstract java.lang.String apply();")
	assert.Empty(t, mappings[0].OrigPos, "a synthetic type carries no original position")
}

func TestType_NestedMemberTypeIndented(t *testing.T) {
	inner := &ast.TypeDecl{Name: "Inner", FQN: "com.example.Outer$Inner", Kind: ast.Class}
	outer := &ast.TypeDecl{Name: "Outer", FQN: "com.example.Outer", Kind: ast.Class, Nested: []*ast.TypeDecl{inner}}
	out, _ := Type(outer)
	assert.Contains(t, out, "    public class Inner {")
}

func TestType_EnumConstantsRendered(t *testing.T) {
	e := &ast.TypeDecl{Name: "Color", FQN: "com.example.Color", Kind: ast.Enum, EnumConstants: []string{"RED", "GREEN"}}
	out, _ := Type(e)
	assert.Contains(t, out, "RED, GREEN;")
}

func TestType_GenericSuperclassAndImplements(t *testing.T) {
	box := &ast.TypeDecl{
		Name: "StringBox", FQN: "com.example.StringBox", Kind: ast.Class,
		Superclass: &ast.TypeRef{Name: "com.example.Box", TypeArgs: []*ast.TypeRef{{Name: "java.lang.String"}}},
		Interfaces: []*ast.TypeRef{{Name: "java.io.Serializable"}},
	}
	out, _ := Type(box)
	assert.Contains(t, out, "extends com.example.Box<java.lang.String>")
	assert.Contains(t, out, "implements java.io.Serializable")
}
