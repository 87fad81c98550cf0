package collect

import (
	"testing"

	"github.com/jesslang/jess/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ownerRef(fqn string) *ast.TypeRef {
	return &ast.TypeRef{Name: ast.SimpleName(fqn), Meta: ast.Meta{Sym: &ast.Symbol{FQN: fqn, Kind: ast.SymClass}}}
}

func TestCollector_UnresolvedCall_ProducesMethodAndTypePlans(t *testing.T) {
	call := &ast.CallExpr{Name: "bar", OwnerType: ownerRef("com.example.Helper"), Args: []ast.Expr{
		&ast.Literal{Kind: ast.LitInt, Value: "42"},
	}}
	method := &ast.MethodDecl{Name: "m", Body: &ast.Block{Stmts: []ast.Stmt{&ast.ExprStmt{X: call}}}}
	method.Keep = true
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Methods: []*ast.MethodDecl{method}}
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	c := New(Options{})
	res := c.Collect(cu)

	require.Len(t, res.MethodPlans, 1)
	assert.Equal(t, "bar", res.MethodPlans[0].Name)
	assert.Equal(t, "com.example.Helper", res.MethodPlans[0].OwnerFQN)
	assert.Equal(t, []string{"int"}, res.MethodPlans[0].ParamTypes, "argument literal kind must drive the inferred parameter type")

	var foundType bool
	for _, tp := range res.TypePlans {
		if tp.FQN == "com.example.Helper" {
			foundType = true
		}
	}
	assert.True(t, foundType, "owner type must be planned")
}

func TestCollector_JDKRootedReferencesAreFiltered(t *testing.T) {
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget",
		Superclass: &ast.TypeRef{Name: "java.lang.Object"},
	}
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	res := New(Options{}).Collect(cu)
	assert.Empty(t, res.TypePlans)
}

func TestCollector_ExceptionSuffixHeuristic(t *testing.T) {
	call := &ast.CallExpr{Name: "boom", OwnerType: ownerRef("com.example.Helper")}
	newExpr := &ast.NewExpr{Type: &ast.TypeRef{Name: "com.example.WidgetException"}}
	method := &ast.MethodDecl{Name: "m", Body: &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{X: call},
		&ast.ThrowStmt{X: newExpr},
	}}}
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Methods: []*ast.MethodDecl{method}}
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	res := New(Options{}).Collect(cu)

	var exceptionPlan *TypeStubPlan
	for _, tp := range res.TypePlans {
		if tp.FQN == "com.example.WidgetException" {
			exceptionPlan = tp
		}
	}
	require.NotNil(t, exceptionPlan)
	assert.Equal(t, "java.lang.RuntimeException", exceptionPlan.Superclass)
}

func TestCollector_EnumHelperCallMarksEnumKind(t *testing.T) {
	call := &ast.CallExpr{Name: "values", OwnerType: ownerRef("com.example.Color")}
	method := &ast.MethodDecl{Name: "m", Body: &ast.Block{Stmts: []ast.Stmt{&ast.ExprStmt{X: call}}}}
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Methods: []*ast.MethodDecl{method}}
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	res := New(Options{}).Collect(cu)

	require.Empty(t, res.MethodPlans, "values() must not synthesize a method plan")
	var colorPlan *TypeStubPlan
	for _, tp := range res.TypePlans {
		if tp.FQN == "com.example.Color" {
			colorPlan = tp
		}
	}
	require.NotNil(t, colorPlan)
	assert.Equal(t, ast.Enum, colorPlan.Kind)
}

func TestCollector_LambdaArgumentMarksFunctionalInterface(t *testing.T) {
	lambda := &ast.LambdaExpr{Params: []*ast.Param{{Name: "x"}}, Body: &ast.Literal{Kind: ast.LitInt, Value: "1"}}
	varDecl := &ast.VarDeclStmt{Name: "m", Type: &ast.TypeRef{Name: "com.example.Mapper"}, Init: lambda}
	method := &ast.MethodDecl{Name: "m", Body: &ast.Block{Stmts: []ast.Stmt{varDecl}}}
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Methods: []*ast.MethodDecl{method}}
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	res := New(Options{}).Collect(cu)

	var mapperPlan *TypeStubPlan
	for _, tp := range res.TypePlans {
		if tp.FQN == "com.example.Mapper" {
			mapperPlan = tp
		}
	}
	require.NotNil(t, mapperPlan)
	assert.True(t, mapperPlan.Functional)
	assert.Equal(t, ast.Interface, mapperPlan.Kind)
}

func TestCollector_NullLiteralArgumentBecomesUnknown(t *testing.T) {
	call := &ast.CallExpr{Name: "bar", OwnerType: ownerRef("com.example.Helper"), Args: []ast.Expr{
		&ast.Literal{Kind: ast.LitNull, Value: "null"},
	}}
	method := &ast.MethodDecl{Name: "m", Body: &ast.Block{Stmts: []ast.Stmt{&ast.ExprStmt{X: call}}}}
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Methods: []*ast.MethodDecl{method}}
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	res := New(Options{}).Collect(cu)

	require.Len(t, res.MethodPlans, 1)
	assert.Equal(t, []string{"unknown.Unknown"}, res.MethodPlans[0].ParamTypes)
}

func TestCollector_ConstructorCallArgumentTypesInferredFromLiterals(t *testing.T) {
	newExpr := &ast.NewExpr{Type: &ast.TypeRef{Name: "com.example.Helper"}, Args: []ast.Expr{
		&ast.Literal{Kind: ast.LitString, Value: "\"hi\""},
		&ast.Literal{Kind: ast.LitLong, Value: "1L"},
	}}
	method := &ast.MethodDecl{Name: "m", Body: &ast.Block{Stmts: []ast.Stmt{&ast.ExprStmt{X: newExpr}}}}
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Methods: []*ast.MethodDecl{method}}
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	res := New(Options{}).Collect(cu)

	require.Len(t, res.ConstructorPlans, 1)
	assert.Equal(t, []string{"java.lang.String", "long"}, res.ConstructorPlans[0].ParamTypes)
}

func TestCollector_GenericArityIsMaxObserved(t *testing.T) {
	ref1 := &ast.TypeRef{Name: "com.example.Box", TypeArgs: []*ast.TypeRef{{Name: "java.lang.String"}}}
	ref2 := &ast.TypeRef{Name: "com.example.Box", TypeArgs: []*ast.TypeRef{{Name: "java.lang.String"}, {Name: "java.lang.Integer"}}}
	field1 := &ast.FieldDecl{Name: "a", Type: ref1}
	field2 := &ast.FieldDecl{Name: "b", Type: ref2}
	target := &ast.TypeDecl{Name: "Widget", FQN: "com.example.Widget", Fields: []*ast.FieldDecl{field1, field2}}
	cu := &ast.CompilationUnit{Types: []*ast.TypeDecl{target}}

	res := New(Options{}).Collect(cu)

	var boxPlan *TypeStubPlan
	for _, tp := range res.TypePlans {
		if tp.FQN == "com.example.Box" {
			boxPlan = tp
		}
	}
	require.NotNil(t, boxPlan)
	assert.Equal(t, 2, boxPlan.Arity)
}
