// Package descriptor translates standard JVM binary method descriptors
// (e.g. "(I[Ljava/lang/String;)V") into source-level parameter lists, per
// §6's "JVM-descriptor parsing" paragraph. The encoding and parsing style
// follows the class-file handling idiom in the corpus's JVM implementation
// (artipop/jacobin's classloader), adapted here to a pure string-to-string
// translation with no class-file byte reading involved.
package descriptor

import (
	"fmt"
	"strings"
)

// primitive maps the eight single-letter primitive encodings to their
// source-level spelling.
var primitive = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// MethodID is the §6 input {binaryClassName, name, jvmDescriptor}.
type MethodID struct {
	BinaryClassName string
	Name            string
	JVMDescriptor   string
}

// Parsed is a descriptor translated into source-level types.
type Parsed struct {
	ParamTypes []string
	ReturnType string
}

// Parse decodes a descriptor such as "(I[Ljava/lang/String;)V" into its
// source-level parameter list and return type.
func Parse(desc string) (*Parsed, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return nil, fmt.Errorf("descriptor: missing leading '(' in %q", desc)
	}

	close := strings.IndexByte(desc, ')')
	if close < 0 {
		return nil, fmt.Errorf("descriptor: missing ')' in %q", desc)
	}

	params, err := parseTypeList(desc[1:close])
	if err != nil {
		return nil, fmt.Errorf("descriptor: %q: %w", desc, err)
	}

	ret, rest, err := parseOne(desc[close+1:])
	if err != nil {
		return nil, fmt.Errorf("descriptor: return type in %q: %w", desc, err)
	}
	if rest != "" {
		return nil, fmt.Errorf("descriptor: trailing data %q after return type in %q", rest, desc)
	}

	return &Parsed{ParamTypes: params, ReturnType: ret}, nil
}

func parseTypeList(s string) ([]string, error) {
	var out []string
	for s != "" {
		t, rest, err := parseOne(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		s = rest
	}
	return out, nil
}

// parseOne consumes exactly one field descriptor from the front of s and
// returns its source-level spelling plus the unconsumed remainder.
func parseOne(s string) (string, string, error) {
	if s == "" {
		return "", "", fmt.Errorf("unexpected end of descriptor")
	}

	arrayDims := 0
	for len(s) > 0 && s[0] == '[' {
		arrayDims++
		s = s[1:]
	}
	if s == "" {
		return "", "", fmt.Errorf("array descriptor missing element type")
	}

	var base string
	var rest string

	switch s[0] {
	case 'V':
		base, rest = "void", s[1:]
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return "", "", fmt.Errorf("unterminated object type %q", s)
		}
		base = binaryNameToSource(s[1:end])
		rest = s[end+1:]
	default:
		name, ok := primitive[s[0]]
		if !ok {
			return "", "", fmt.Errorf("unknown descriptor byte %q", s[0:1])
		}
		base, rest = name, s[1:]
	}

	return base + strings.Repeat("[]", arrayDims), rest, nil
}

// binaryNameToSource turns a binary class name (slash-separated, "$"-nested)
// into source-level dotted form, e.g. "java/util/Map$Entry" ->
// "java.util.Map$Entry".
func binaryNameToSource(binaryName string) string {
	return strings.ReplaceAll(binaryName, "/", ".")
}

// KeepPattern renders a parsed descriptor's parameter types as the
// "name(type, type, ...)" pattern the PreSlicer matches against (§4.2, §8
// scenario 5).
func (p *Parsed) KeepPattern(name string) string {
	return fmt.Sprintf("%s(%s)", name, strings.Join(p.ParamTypes, ", "))
}
