package ast

// Visitor is called for every node during a Walk. Returning false prunes
// that node's children.
type Visitor func(Node) bool

// Walk traverses an arbitrary AST node, calling v for the node itself and
// then (unless v returns false) for each of its children. It plays the same
// role as the teacher's Dingo-specific ast.Walk that layers custom-node
// traversal on top of go/ast.Inspect — here there is no stdlib walker to
// delegate to, so every node kind knows how to visit its own children.
func Walk(n Node, v Visitor) {
	if n == nil || !v(n) {
		return
	}

	switch x := n.(type) {
	case *CompilationUnit:
		for _, t := range x.Types {
			Walk(t, v)
		}
	case *TypeDecl:
		if x.Superclass != nil {
			Walk(x.Superclass, v)
		}
		for _, i := range x.Interfaces {
			Walk(i, v)
		}
		for _, tp := range x.TypeParams {
			Walk(tp, v)
		}
		for _, f := range x.Fields {
			Walk(f, v)
		}
		for _, c := range x.Constructors {
			Walk(c, v)
		}
		for _, m := range x.Methods {
			Walk(m, v)
		}
		for _, n := range x.Nested {
			Walk(n, v)
		}
		for _, a := range x.Annotations {
			Walk(a, v)
		}
	case *TypeParam:
		if x.Bound != nil {
			Walk(x.Bound, v)
		}
	case *TypeRef:
		for _, a := range x.TypeArgs {
			Walk(a, v)
		}
	case *FieldDecl:
		Walk(x.Type, v)
		if x.Initializer != nil {
			Walk(x.Initializer, v)
		}
		for _, a := range x.Annotations {
			Walk(a, v)
		}
	case *Param:
		if x.Type != nil {
			Walk(x.Type, v)
		}
	case *MethodDecl:
		if x.ReturnType != nil {
			Walk(x.ReturnType, v)
		}
		for _, p := range x.Params {
			Walk(p, v)
		}
		for _, tp := range x.TypeParams {
			Walk(tp, v)
		}
		for _, th := range x.Thrown {
			Walk(th, v)
		}
		for _, a := range x.Annotations {
			Walk(a, v)
		}
		if x.Body != nil {
			Walk(x.Body, v)
		}
	case *ConstructorDecl:
		for _, p := range x.Params {
			Walk(p, v)
		}
		for _, th := range x.Thrown {
			Walk(th, v)
		}
		if x.Body != nil {
			Walk(x.Body, v)
		}
	case *AnnotationUse:
		Walk(x.Type, v)
		for _, a := range x.Args {
			Walk(a, v)
		}
	case *Block:
		for _, s := range x.Stmts {
			Walk(s, v)
		}
	case *ExprStmt:
		Walk(x.X, v)
	case *ReturnStmt:
		if x.Value != nil {
			Walk(x.Value, v)
		}
	case *ThrowStmt:
		Walk(x.X, v)
	case *VarDeclStmt:
		if x.Type != nil {
			Walk(x.Type, v)
		}
		if x.Init != nil {
			Walk(x.Init, v)
		}
	case *IfStmt:
		Walk(x.Cond, v)
		Walk(x.Then, v)
		if x.Else != nil {
			Walk(x.Else, v)
		}
	case *LoopStmt:
		if x.Init != nil {
			Walk(x.Init, v)
		}
		if x.Cond != nil {
			Walk(x.Cond, v)
		}
		if x.Post != nil {
			Walk(x.Post, v)
		}
		Walk(x.Body, v)
	case *FieldAccessExpr:
		if x.Receiver != nil {
			Walk(x.Receiver, v)
		}
	case *CallExpr:
		if x.Receiver != nil {
			Walk(x.Receiver, v)
		}
		for _, a := range x.Args {
			Walk(a, v)
		}
	case *NewExpr:
		Walk(x.Type, v)
		for _, a := range x.Args {
			Walk(a, v)
		}
	case *CastExpr:
		Walk(x.Type, v)
		Walk(x.X, v)
	case *InstanceOfExpr:
		Walk(x.X, v)
		Walk(x.Type, v)
	case *AssignExpr:
		Walk(x.LHS, v)
		Walk(x.RHS, v)
	case *LambdaExpr:
		for _, p := range x.Params {
			Walk(p, v)
		}
		Walk(x.Body, v)
	case *MethodRefExpr:
		if x.Qualifier != nil {
			Walk(x.Qualifier, v)
		}
		if x.Receiver != nil {
			Walk(x.Receiver, v)
		}
	case *Ident, *Literal:
		// leaves
	}
}

// Inspect is Walk with the visitor signature go/ast users expect
// (return true to recurse into children, false to skip them).
func Inspect(n Node, f func(Node) bool) { Walk(n, f) }
