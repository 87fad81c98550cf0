package ast

import "go/token"

// TypeKind is the declared kind of a type, per §3's TypeStubPlan.kind enum.
type TypeKind int

const (
	Class TypeKind = iota
	Interface
	Annotation
	Enum
)

func (k TypeKind) String() string {
	switch k {
	case Interface:
		return "INTERFACE"
	case Annotation:
		return "ANNOTATION"
	case Enum:
		return "ENUM"
	default:
		return "CLASS"
	}
}

// Visibility mirrors the handful of access modifiers a MethodStubPlan needs
// to reconstruct (§3).
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
	PackagePrivate
)

// Import is a single import declaration.
type Import struct {
	Meta
	Path     string
	Asterisk bool
}

// CompilationUnit is the root of one source file's AST, per §3.
type CompilationUnit struct {
	Meta
	FileName string
	Package  string
	Imports  []*Import
	Types    []*TypeDecl
	FileSet  *token.FileSet
}

func (c *CompilationUnit) Pos() token.Pos { return 0 }
func (c *CompilationUnit) End() token.Pos { return 0 }

// TypeParam is a generic type parameter, e.g. <T extends Comparable<T>>.
type TypeParam struct {
	Meta
	Name  string
	Bound *TypeRef
}

// TypeRef is a reference to a type, possibly generic and/or an array, in a
// field/parameter/return/throws/supertype/cast/instanceof/annotation
// position (§4.4's scan targets).
type TypeRef struct {
	Meta
	// Name is the name as written in source (simple or qualified).
	Name string
	// TypeArgs are actual type arguments, e.g. the <String> in List<String>.
	TypeArgs []*TypeRef
	// ArrayDims is the number of trailing [] on this reference.
	ArrayDims int
}

// FQN returns the resolved FQN if bound, else the as-written Name.
func (t *TypeRef) FQN() string {
	if t.Sym != nil {
		return t.Sym.FQN
	}
	return t.Name
}

// FieldDecl is a field declaration.
type FieldDecl struct {
	Meta
	Name        string
	Type        *TypeRef
	Static      bool
	Initializer Expr
	Annotations []*AnnotationUse
}

// Param is a single method/constructor parameter.
type Param struct {
	Meta
	Name    string
	Type    *TypeRef
	Varargs bool
}

// MethodDecl is a method declaration.
type MethodDecl struct {
	Meta
	Name               string
	ReturnType         *TypeRef
	Params             []*Param
	TypeParams         []*TypeParam
	Thrown             []*TypeRef
	Visibility         Visibility
	Static             bool
	Abstract           bool
	DefaultOnInterface bool
	Varargs            bool
	Body               *Block
	Annotations        []*AnnotationUse
}

// Descriptor returns the (name, paramTypeNames...) pattern the PreSlicer
// matches keep-patterns against (§4.2).
func (m *MethodDecl) Descriptor() (string, []string) {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		if p.Type != nil {
			names[i] = p.Type.Name
		}
	}
	return m.Name, names
}

// ConstructorDecl is a constructor declaration.
type ConstructorDecl struct {
	Meta
	Params []*Param
	Thrown []*TypeRef
	Body   *Block
}

// AnnotationUse is a usage of an annotation type, e.g. @Tag("x").
type AnnotationUse struct {
	Meta
	Type *TypeRef
	Args []Expr
}

// TypeDecl is a class/interface/annotation/enum declaration, possibly
// nested (Nested holds member types; FQN uses "$" separators once bound).
type TypeDecl struct {
	Meta
	Name             string
	FQN              string
	Kind             TypeKind
	IsNonStaticInner bool
	TypeParams       []*TypeParam
	Superclass       *TypeRef
	Interfaces       []*TypeRef
	Fields           []*FieldDecl
	Methods          []*MethodDecl
	Constructors     []*ConstructorDecl
	Nested           []*TypeDecl
	Annotations      []*AnnotationUse
	EnumConstants    []string

	// Functional marks an interface the Collector/Reconciler have identified
	// as a single-abstract-method target (§4.5, §4.6 pass 5).
	Functional bool
}
