package cache

import (
	"testing"

	"github.com/jesslang/jess/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutionCache_TypeRoundTrip(t *testing.T) {
	c := New()
	c.PutType("com.example.Widget", ast.Symbol{FQN: "com.example.Widget", Kind: ast.SymClass})

	sym, ok := c.GetType("com.example.Widget")
	require.True(t, ok)
	assert.Equal(t, "com.example.Widget", sym.FQN)

	_, ok = c.GetType("com.example.Missing")
	assert.False(t, ok)
}

func TestResolutionCache_MemberRoundTrip(t *testing.T) {
	c := New()
	syms := []ast.Symbol{{FQN: "com.example.Widget", Kind: ast.SymMethod}}
	c.PutMembers("com.example.Widget", "run", syms)

	got, ok := c.GetMembers("com.example.Widget", "run")
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestResolutionCache_ReleaseClosesCache(t *testing.T) {
	c := New()
	c.Release()

	c.PutType("com.example.Widget", ast.Symbol{FQN: "com.example.Widget"})
	_, ok := c.GetType("com.example.Widget")
	assert.False(t, ok, "writes after Release must be dropped")
}

func TestWithScope_ReleasesEvenOnError(t *testing.T) {
	var captured *ResolutionCache
	err := WithScope(func(c *ResolutionCache) error {
		captured = c
		c.PutType("com.example.Widget", ast.Symbol{FQN: "com.example.Widget"})
		return assert.AnError
	})
	assert.Error(t, err)

	_, ok := captured.GetType("com.example.Widget")
	assert.False(t, ok, "cache must be released after WithScope returns")
}
