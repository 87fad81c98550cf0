package ast

import "strings"

// SymbolKind classifies what a Symbol identifies.
type SymbolKind int

const (
	SymPackage SymbolKind = iota
	SymClass
	SymInterface
	SymEnum
	SymAnnotation
	SymField
	SymMethod
	SymConstructor
	SymTypeParameter
)

func (k SymbolKind) String() string {
	switch k {
	case SymPackage:
		return "package"
	case SymClass:
		return "class"
	case SymInterface:
		return "interface"
	case SymEnum:
		return "enum"
	case SymAnnotation:
		return "annotation"
	case SymField:
		return "field"
	case SymMethod:
		return "method"
	case SymConstructor:
		return "constructor"
	case SymTypeParameter:
		return "type-parameter"
	default:
		return "unknown"
	}
}

// Symbol is a resolved identity for a type, member or package, per §3.
// Produced only by the external resolution oracle (pkg/oracle.ClasspathResolver)
// or by the Stubber once it materialises a plan.
type Symbol struct {
	// FQN is the fully-qualified name. Nested types use "$" separators
	// (pkg.Outer$Inner), matching JVM binary-name conventions.
	FQN string

	Kind SymbolKind

	// Arity is the declared type-parameter count, relevant for SymClass,
	// SymInterface and SymEnum (§4.4's "generic arity" rule).
	Arity int

	// FromJDK marks symbols rooted in java./javax./jakarta./sun./jdk.
	// packages: real platform types the Stubber must never materialise.
	FromJDK bool

	// Synthetic marks a Symbol created by the Stubber rather than resolved
	// against the classpath.
	Synthetic bool
}

// SimpleName returns the last "." and "$" delimited component of the FQN.
func (s *Symbol) SimpleName() string {
	return SimpleName(s.FQN)
}

// PackageName returns the FQN with its simple name (and any nested-type
// chain) stripped, i.e. everything before the last top-level "." that
// precedes the first "$".
func (s *Symbol) PackageName() string {
	return PackageOf(s.FQN)
}

// SimpleName extracts the simple name from an FQN: the text after the last
// "." (package separator) and, if the type is nested, after the last "$".
func SimpleName(fqn string) string {
	if idx := strings.LastIndexByte(fqn, '$'); idx >= 0 {
		return fqn[idx+1:]
	}
	if idx := strings.LastIndexByte(fqn, '.'); idx >= 0 {
		return fqn[idx+1:]
	}
	return fqn
}

// PackageOf returns the package portion of an FQN, i.e. everything before
// the simple name (and before any "$"-nested-type chain).
func PackageOf(fqn string) string {
	root := fqn
	if idx := strings.IndexByte(root, '$'); idx >= 0 {
		root = root[:idx]
	}
	if idx := strings.LastIndexByte(root, '.'); idx >= 0 {
		return root[:idx]
	}
	return ""
}

// jdkRoots lists package prefixes the Collector/Stubber must never plan
// against, per §3's invariant and §4.4's filtering rule.
var jdkRoots = []string{"java.", "javax.", "jakarta.", "sun.", "jdk."}

// IsJDKRooted reports whether fqn lies under a platform-reserved package.
func IsJDKRooted(fqn string) bool {
	for _, root := range jdkRoots {
		if strings.HasPrefix(fqn, root) {
			return true
		}
	}
	return false
}

// UnknownPackage is the distinguished package for placeholder types whose
// real package could not be inferred (§3).
const UnknownPackage = "unknown"

// UnknownType is the well-known universal fallback placeholder type.
const UnknownType = "unknown.Unknown"

// primitiveNames lists the keywords the Collector/Stubber must never plan a
// type for (§4.4, §8's "no emitted type has simple name equal to a primitive
// keyword" invariant).
var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

// IsPrimitiveName reports whether name is a primitive-type keyword.
func IsPrimitiveName(name string) bool {
	return primitiveNames[name]
}
