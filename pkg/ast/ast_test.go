package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleNameAndPackageOf(t *testing.T) {
	assert.Equal(t, "String", SimpleName("java.lang.String"))
	assert.Equal(t, "Entry", SimpleName("java.util.Map$Entry"))
	assert.Equal(t, "java.lang", PackageOf("java.lang.String"))
	assert.Equal(t, "java.util", PackageOf("java.util.Map$Entry"))
	assert.Equal(t, "", PackageOf("Unqualified"))
}

func TestIsJDKRooted(t *testing.T) {
	assert.True(t, IsJDKRooted("java.lang.String"))
	assert.True(t, IsJDKRooted("javax.annotation.Nonnull"))
	assert.False(t, IsJDKRooted("com.example.Widget"))
}

func TestIsPrimitiveName(t *testing.T) {
	assert.True(t, IsPrimitiveName("int"))
	assert.True(t, IsPrimitiveName("void"))
	assert.False(t, IsPrimitiveName("Integer"))
}

func TestWalk_VisitsChildren(t *testing.T) {
	body := &Block{Stmts: []Stmt{
		&ReturnStmt{Value: &CallExpr{Name: "foo", Args: []Expr{&Literal{Kind: LitInt, Value: "1"}}}},
	}}
	method := &MethodDecl{Name: "m", Body: body}

	var seen []string
	Walk(method, func(n Node) bool {
		switch x := n.(type) {
		case *CallExpr:
			seen = append(seen, "call:"+x.Name)
		case *Literal:
			seen = append(seen, "lit:"+x.Value)
		}
		return true
	})

	assert.Equal(t, []string{"call:foo", "lit:1"}, seen)
}

func TestWalk_PruneChildren(t *testing.T) {
	outer := &CallExpr{Name: "outer", Args: []Expr{&CallExpr{Name: "inner"}}}
	var seen []string
	Walk(outer, func(n Node) bool {
		if c, ok := n.(*CallExpr); ok {
			seen = append(seen, c.Name)
			return c.Name != "outer"
		}
		return true
	})
	assert.Equal(t, []string{"outer"}, seen)
}
