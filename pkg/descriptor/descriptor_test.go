package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		desc       string
		wantParams []string
		wantReturn string
	}{
		{name: "no args void", desc: "()V", wantParams: nil, wantReturn: "void"},
		{
			name:       "primitive and array object",
			desc:       "(I[Ljava/lang/String;)V",
			wantParams: []string{"int", "java.lang.String[]"},
			wantReturn: "void",
		},
		{
			name:       "all eight primitives",
			desc:       "(ZBCSIFJD)V",
			wantParams: []string{"boolean", "byte", "char", "short", "int", "float", "long", "double"},
			wantReturn: "void",
		},
		{
			name:       "nested array of object return",
			desc:       "(I[J)[[Ljava/util/Map;",
			wantParams: []string{"int", "long[]"},
			wantReturn: "java.util.Map[][]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantParams, parsed.ParamTypes)
			assert.Equal(t, tt.wantReturn, parsed.ReturnType)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("IV")
	assert.Error(t, err)

	_, err = Parse("(I")
	assert.Error(t, err)
}

func TestParsed_KeepPattern(t *testing.T) {
	parsed, err := Parse("(I[Ljava/lang/String;)V")
	require.NoError(t, err)
	assert.Equal(t, "foo(int, java.lang.String[])", parsed.KeepPattern("foo"))
}

func TestBinaryNameToSource(t *testing.T) {
	parsed, err := Parse("()Ljava/util/Map$Entry;")
	require.NoError(t, err)
	assert.Equal(t, "java.util.Map$Entry", parsed.ReturnType)
}
