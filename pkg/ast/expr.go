package ast

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Block is a sequence of statements, i.e. a method/constructor body.
type Block struct {
	Meta
	Stmts []Stmt
}

func (*Block) stmtNode() {}

// ExprStmt is a bare expression used as a statement (e.g. a call).
type ExprStmt struct {
	Meta
	X Expr
}

func (*ExprStmt) stmtNode() {}

// ReturnStmt is a `return expr;` (Value nil for a bare `return;`).
type ReturnStmt struct {
	Meta
	Value Expr
}

func (*ReturnStmt) stmtNode() {}

// ThrowStmt is a `throw expr;`.
type ThrowStmt struct {
	Meta
	X Expr
}

func (*ThrowStmt) stmtNode() {}

// VarDeclStmt is a local variable declaration with optional initializer.
type VarDeclStmt struct {
	Meta
	Name string
	Type *TypeRef
	Init Expr
}

func (*VarDeclStmt) stmtNode() {}

// IfStmt is a conditional; Else may be nil.
type IfStmt struct {
	Meta
	Cond Expr
	Then *Block
	Else *Block
}

func (*IfStmt) stmtNode() {}

// LoopStmt covers for/while/do-while uniformly: only the child expressions
// and body matter to slicing/collecting, not the exact looping construct.
type LoopStmt struct {
	Meta
	Init Stmt
	Cond Expr
	Post Expr
	Body *Block
}

func (*LoopStmt) stmtNode() {}

// Ident is a bare identifier reference (a local, a field, or a simple type
// name used as a value, e.g. an enum constant).
type Ident struct {
	Meta
	Name string
}

func (*Ident) exprNode() {}

// Literal is a constant literal.
type Literal struct {
	Meta
	Kind  LiteralKind
	Value string
}

func (*Literal) exprNode() {}

// LiteralKind classifies a Literal, driving the Slicer's default-return
// rewrite (§4.3) and the Collector's null-literal-to-Unknown rule (§4.4).
type LiteralKind int

const (
	LitNull LiteralKind = iota
	LitBoolean
	LitInt
	LitLong
	LitFloat
	LitDouble
	LitChar
	LitString
)

// FieldAccessExpr is `receiver.name`. Receiver nil means an unqualified
// reference resolved against the enclosing type.
type FieldAccessExpr struct {
	Meta
	Receiver Expr
	Name     string

	// OwnerType is the Resolver's best-effort static type of Receiver (or of
	// the enclosing type, for an unqualified access). It may itself be
	// unresolved — the Collector's "unknown fallback" rule (§4.4, §8
	// scenario 6) keys off that.
	OwnerType *TypeRef
}

func (*FieldAccessExpr) exprNode() {}

// CallExpr is `receiver.name(args...)`. Receiver nil means an unqualified
// call resolved against the enclosing type (§4.4: "the enclosing type for
// unqualified calls").
type CallExpr struct {
	Meta
	Receiver Expr
	Name     string
	Args     []Expr

	// OwnerType mirrors FieldAccessExpr.OwnerType for calls.
	OwnerType *TypeRef
}

func (*CallExpr) exprNode() {}

// NewExpr is `new Type(args...)`.
type NewExpr struct {
	Meta
	Type *TypeRef
	Args []Expr
}

func (*NewExpr) exprNode() {}

// CastExpr is `(Type) x`.
type CastExpr struct {
	Meta
	Type *TypeRef
	X    Expr
}

func (*CastExpr) exprNode() {}

// InstanceOfExpr is `x instanceof Type`.
type InstanceOfExpr struct {
	Meta
	X    Expr
	Type *TypeRef
}

func (*InstanceOfExpr) exprNode() {}

// AssignExpr is `lhs = rhs` (also covers compound assignment; the operator
// itself never matters to slicing/collecting).
type AssignExpr struct {
	Meta
	LHS Expr
	RHS Expr
}

func (*AssignExpr) exprNode() {}

// LambdaExpr is a lambda literal, e.g. `(a, b) -> a + b`. Its presence as an
// argument implies the target parameter type is a functional interface
// (§4.4).
type LambdaExpr struct {
	Meta
	Params []*Param
	Body   Node // *Block or an Expr
}

func (*LambdaExpr) exprNode() {}

// MethodRefExpr is a method-reference expression, e.g. `String[]::new` or
// `Type::method`. Like LambdaExpr, its presence implies a functional
// interface target.
type MethodRefExpr struct {
	Meta
	// Qualifier is the declaring type when the reference is an array
	// constructor (T[]::new) or a static/unbound instance method reference.
	Qualifier *TypeRef
	// Receiver is set instead of Qualifier for a bound instance reference
	// (expr::method).
	Receiver Expr
	Name     string // "new" for constructor/array-constructor references
}

func (*MethodRefExpr) exprNode() {}
