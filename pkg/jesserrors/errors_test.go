package jesserrors

import (
	"errors"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineError_ErrorStringIncludesHint(t *testing.T) {
	e := NewParseError(token.NoPos, "unexpected token")
	e.Hint = "check brace matching"
	assert.Equal(t, "ParseError: unexpected token (check brace matching)", e.Error())
}

func TestPipelineError_ErrorStringWithoutHint(t *testing.T) {
	e := NewResolveError(token.NoPos, "unknown symbol")
	assert.Equal(t, "ResolveError: unknown symbol", e.Error())
}

func TestPipelineError_UnwrapReturnsCause(t *testing.T) {
	cause := errors.New("compiler exited 1")
	e := NewCompileError("javac failed", cause)
	assert.Same(t, cause, errors.Unwrap(e))
}

func TestCategory_IsTerminal(t *testing.T) {
	assert.True(t, CategoryParse.IsTerminal())
	assert.True(t, CategoryCompile.IsTerminal())
	assert.True(t, CategoryAmbiguity.IsTerminal())
	assert.False(t, CategoryStubPlan.IsTerminal(), "stub plan errors are diagnostics, never fatal")
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "AmbiguityError", CategoryAmbiguity.String())
	assert.Equal(t, "InternalError", CategoryInternal.String())
}
