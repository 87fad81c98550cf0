package stub

import (
	"testing"

	"github.com/jesslang/jess/pkg/ast"
	"github.com/jesslang/jess/pkg/collect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubber_MaterialisesTypeFieldsMethods(t *testing.T) {
	res := collect.Result{
		TypePlans: []*collect.TypeStubPlan{
			{FQN: "com.example.Helper", Kind: ast.Class},
		},
		FieldPlans: []*collect.FieldStubPlan{
			{OwnerFQN: "com.example.Helper", Name: "count", Type: "int"},
		},
		MethodPlans: []*collect.MethodStubPlan{
			{OwnerFQN: "com.example.Helper", Name: "bar", ParamTypes: []string{"int"}, ReturnType: "unknown.Unknown"},
		},
	}

	out := New().Stub(res)

	require.Contains(t, out.Types, "com.example.Helper")
	helper := out.Types["com.example.Helper"]
	require.Len(t, helper.Fields, 1)
	assert.Equal(t, "count", helper.Fields[0].Name)
	require.Len(t, helper.Methods, 1)
	assert.Equal(t, "bar", helper.Methods[0].Name)
	require.NotNil(t, helper.Methods[0].Body)
	assert.False(t, helper.Methods[0].Abstract)
}

func TestStubber_NestedMemberTypeChain(t *testing.T) {
	res := collect.Result{
		TypePlans: []*collect.TypeStubPlan{
			{FQN: "com.example.Outer$Inner$Deeper", Kind: ast.Class},
		},
	}
	out := New().Stub(res)

	require.Contains(t, out.Types, "com.example.Outer")
	outer := out.Types["com.example.Outer"]
	require.Len(t, outer.Nested, 1)
	inner := outer.Nested[0]
	assert.Equal(t, "Inner", inner.Name)
	require.Len(t, inner.Nested, 1)
	assert.Equal(t, "Deeper", inner.Nested[0].Name)
}

func TestStubber_GetClassNeverEmitted(t *testing.T) {
	res := collect.Result{
		TypePlans:   []*collect.TypeStubPlan{{FQN: "com.example.Helper", Kind: ast.Class}},
		MethodPlans: []*collect.MethodStubPlan{{OwnerFQN: "com.example.Helper", Name: "getClass"}},
	}
	out := New().Stub(res)
	assert.Empty(t, out.Types["com.example.Helper"].Methods)
}

func TestStubber_FunctionalInterfaceGetsAbstractSAM(t *testing.T) {
	res := collect.Result{
		TypePlans: []*collect.TypeStubPlan{
			{FQN: "com.example.Mapper", Kind: ast.Interface, Functional: true},
		},
		MethodPlans: []*collect.MethodStubPlan{
			{OwnerFQN: "com.example.Mapper", Name: "apply", ParamTypes: []string{"int"}, ReturnType: "java.lang.String", Abstract: true},
		},
	}
	out := New().Stub(res)
	mapper := out.Types["com.example.Mapper"]
	require.Len(t, mapper.Methods, 1)
	assert.True(t, mapper.Methods[0].Abstract)
}

func TestStubber_ConcreteUnknownRootedSkippedWhenConcreteExists(t *testing.T) {
	res := collect.Result{
		TypePlans: []*collect.TypeStubPlan{
			{FQN: "com.example.Obj", Kind: ast.Class},
			{FQN: "unknown.Obj", Kind: ast.Class, Mirror: true},
		},
	}
	out := New().Stub(res)
	assert.Contains(t, out.Types, "com.example.Obj")
	assert.NotContains(t, out.Types, "unknown.Obj")
}
