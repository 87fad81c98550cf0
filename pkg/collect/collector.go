package collect

import (
	"strings"

	"github.com/jesslang/jess/pkg/ast"
)

// Options configures the Collector's filtering behaviour (§4.4).
type Options struct {
	// FailOnAmbiguity mirrors §6's option of the same name; unused directly
	// by the Collector (ambiguity is a Resolver-time concern) but threaded
	// through so callers can construct one Options value for the whole
	// pipeline.
	FailOnAmbiguity bool
}

// Collector walks a sliced compilation unit and produces the four ordered
// stub-plan multisets plus the implements-plan map described in §4.4.
type Collector struct {
	Opts Options

	typePlans   []*TypeStubPlan
	fieldPlans  []*FieldStubPlan
	ctorPlans   []*ConstructorStubPlan
	methodPlans []*MethodStubPlan
	implements  map[string]map[string]bool

	seenTypes map[string]bool

	arity map[string]int
}

// New constructs a Collector.
func New(opts Options) *Collector {
	return &Collector{
		Opts:       opts,
		implements: make(map[string]map[string]bool),
		seenTypes:  make(map[string]bool),
		arity:      make(map[string]int),
	}
}

// Result is the Collector's output (§4.4's "four ordered multisets plus one
// map").
type Result struct {
	TypePlans        []*TypeStubPlan
	FieldPlans       []*FieldStubPlan
	ConstructorPlans []*ConstructorStubPlan
	MethodPlans      []*MethodStubPlan
	Implements       map[string][]string
}

// Collect scans cu (already sliced) and every kept method/constructor body
// reachable from its types, returning the accumulated stub plans.
func (c *Collector) Collect(cu *ast.CompilationUnit) Result {
	for _, t := range cu.Types {
		c.visitType(t)
	}
	return c.finish()
}

func (c *Collector) finish() Result {
	impl := make(map[string][]string, len(c.implements))
	for owner, set := range c.implements {
		for iface := range set {
			impl[owner] = append(impl[owner], iface)
		}
	}
	for _, p := range c.typePlans {
		if n, ok := c.arity[p.FQN]; ok {
			p.Arity = n
		}
	}
	return Result{
		TypePlans:        c.typePlans,
		FieldPlans:       c.fieldPlans,
		ConstructorPlans: c.ctorPlans,
		MethodPlans:      c.methodPlans,
		Implements:       impl,
	}
}

func (c *Collector) visitType(t *ast.TypeDecl) {
	c.noteTypeRef(t.Superclass)
	for _, i := range t.Interfaces {
		c.noteTypeRef(i)
	}
	for _, a := range t.Annotations {
		c.noteTypeRef(a.Type)
	}
	for _, f := range t.Fields {
		c.noteTypeRef(f.Type)
		if f.Initializer != nil {
			c.visitExpr(f.Initializer, f.Type)
		}
	}
	for _, m := range t.Methods {
		c.noteTypeRef(m.ReturnType)
		for _, p := range m.Params {
			c.noteTypeRef(p.Type)
		}
		for _, th := range m.Thrown {
			c.noteTypeRef(th)
		}
		if m.Body != nil {
			c.visitBlock(m.Body)
		}
	}
	for _, ctor := range t.Constructors {
		for _, p := range ctor.Params {
			c.noteTypeRef(p.Type)
		}
		for _, th := range ctor.Thrown {
			c.noteTypeRef(th)
		}
		if ctor.Body != nil {
			c.visitBlock(ctor.Body)
		}
	}
	for _, n := range t.Nested {
		c.visitType(n)
	}
}

func (c *Collector) visitBlock(b *ast.Block) {
	for _, s := range b.Stmts {
		c.visitStmt(s)
	}
}

func (c *Collector) visitStmt(s ast.Stmt) {
	switch x := s.(type) {
	case *ast.ExprStmt:
		c.visitExpr(x.X, nil)
	case *ast.ReturnStmt:
		if x.Value != nil {
			c.visitExpr(x.Value, nil)
		}
	case *ast.ThrowStmt:
		c.visitExpr(x.X, nil)
	case *ast.VarDeclStmt:
		c.noteTypeRef(x.Type)
		if x.Init != nil {
			c.visitExpr(x.Init, x.Type)
		}
	case *ast.IfStmt:
		c.visitExpr(x.Cond, nil)
		c.visitBlock(x.Then)
		if x.Else != nil {
			c.visitBlock(x.Else)
		}
	case *ast.LoopStmt:
		if x.Init != nil {
			c.visitStmt(x.Init)
		}
		if x.Cond != nil {
			c.visitExpr(x.Cond, nil)
		}
		if x.Post != nil {
			c.visitExpr(x.Post, nil)
		}
		c.visitBlock(x.Body)
	}
}

// visitExpr walks e, collecting plans for any unresolved reference it
// contains. expected carries the surrounding context's expected type, per
// §4.4's return/field/parameter type-inference rule; nil when no context is
// available (fallback: Unknown).
func (c *Collector) visitExpr(e ast.Expr, expected *ast.TypeRef) {
	switch x := e.(type) {
	case *ast.CallExpr:
		if x.Receiver != nil {
			c.visitExpr(x.Receiver, nil)
		}
		c.collectCall(x, expected)
		for _, a := range x.Args {
			c.visitExpr(a, nil)
		}
	case *ast.FieldAccessExpr:
		if x.Receiver != nil {
			c.visitExpr(x.Receiver, nil)
		}
		c.collectField(x, expected)
	case *ast.NewExpr:
		c.noteTypeRef(x.Type)
		c.collectCtor(x)
		for _, a := range x.Args {
			c.visitExpr(a, nil)
		}
	case *ast.CastExpr:
		c.noteTypeRef(x.Type)
		c.visitExpr(x.X, x.Type)
	case *ast.InstanceOfExpr:
		c.noteTypeRef(x.Type)
		c.visitExpr(x.X, nil)
	case *ast.AssignExpr:
		c.visitExpr(x.LHS, nil)
		c.visitExpr(x.RHS, nil)
	case *ast.LambdaExpr:
		if expected != nil {
			c.markFunctional(expected)
		}
	case *ast.MethodRefExpr:
		if expected != nil {
			c.markFunctional(expected)
		}
		if x.Qualifier != nil {
			c.noteTypeRef(x.Qualifier)
		}
		if x.Receiver != nil {
			c.visitExpr(x.Receiver, nil)
		}
	}
}

func (c *Collector) collectCall(call *ast.CallExpr, expected *ast.TypeRef) {
	if call.Resolved() {
		return
	}
	owner := ownerFQN(call.OwnerType)
	if owner == "" || isFilteredFQN(owner) {
		return
	}
	if enumHelperCall(call.Name, len(call.Args)) {
		c.planEnumOwner(owner)
		return
	}

	paramTypes := make([]string, len(call.Args))
	for i, a := range call.Args {
		paramTypes[i] = c.inferArgType(a)
	}
	ret := c.inferType(expected)

	c.methodPlans = append(c.methodPlans, &MethodStubPlan{
		OwnerFQN:   owner,
		Name:       call.Name,
		ParamTypes: paramTypes,
		ReturnType: ret,
	})
	c.planOwnerType(owner, false)

	if ast.PackageOf(owner) == ast.UnknownPackage {
		c.methodPlans = append(c.methodPlans, &MethodStubPlan{
			OwnerFQN:   ast.UnknownType,
			Name:       call.Name,
			ParamTypes: paramTypes,
			ReturnType: ret,
		})
		c.planOwnerType(ast.UnknownType, true)
	}
}

func (c *Collector) collectField(fa *ast.FieldAccessExpr, expected *ast.TypeRef) {
	if fa.Resolved() {
		return
	}
	owner := ownerFQN(fa.OwnerType)
	if owner == "" || isFilteredFQN(owner) {
		return
	}
	c.fieldPlans = append(c.fieldPlans, &FieldStubPlan{
		OwnerFQN: owner,
		Name:     fa.Name,
		Type:     c.inferType(expected),
	})
	c.planOwnerType(owner, false)
}

func (c *Collector) collectCtor(ne *ast.NewExpr) {
	if ne.Resolved() {
		return
	}
	owner := ne.Type.FQN()
	if isFilteredFQN(owner) {
		return
	}
	paramTypes := make([]string, len(ne.Args))
	for i, a := range ne.Args {
		paramTypes[i] = c.inferArgType(a)
	}
	c.ctorPlans = append(c.ctorPlans, &ConstructorStubPlan{OwnerFQN: owner, ParamTypes: paramTypes})
	c.planOwnerType(owner, false)
}

func (c *Collector) markFunctional(expected *ast.TypeRef) {
	if expected.Resolved() {
		return
	}
	fqn := expected.FQN()
	if isFilteredFQN(fqn) {
		return
	}
	c.planOwnerTypeKind(fqn, ast.Interface)
	for _, p := range c.typePlans {
		if p.FQN == fqn {
			p.Functional = true
		}
	}
}

func (c *Collector) planEnumOwner(owner string) {
	c.planOwnerTypeKind(owner, ast.Enum)
}

// planOwnerType records a CLASS-kind TypeStubPlan for owner if one hasn't
// already been emitted, giving it java.lang.Error or
// java.lang.RuntimeException as superclass when its simple name ends in
// "Error" or "Exception". mirror is copied onto the plan's Mirror flag.
func (c *Collector) planOwnerType(owner string, mirror bool) {
	if c.seenTypes[owner] {
		return
	}
	if isFilteredFQN(owner) {
		return
	}
	c.seenTypes[owner] = true
	kind := ast.Class
	super := ""
	simple := ast.SimpleName(owner)
	switch {
	case strings.HasSuffix(simple, "Error"):
		super = "java.lang.Error"
	case strings.HasSuffix(simple, "Exception"):
		super = "java.lang.RuntimeException"
	}
	c.typePlans = append(c.typePlans, &TypeStubPlan{FQN: owner, Kind: kind, Superclass: super, Mirror: mirror})
}

func (c *Collector) planOwnerTypeKind(owner string, kind ast.TypeKind) {
	for _, p := range c.typePlans {
		if p.FQN == owner {
			p.Kind = kind
			return
		}
	}
	if isFilteredFQN(owner) {
		return
	}
	c.seenTypes[owner] = true
	c.typePlans = append(c.typePlans, &TypeStubPlan{FQN: owner, Kind: kind})
}

func (c *Collector) noteTypeRef(t *ast.TypeRef) {
	if t == nil || t.Resolved() {
		return
	}
	fqn := t.FQN()
	if isFilteredFQN(fqn) {
		return
	}
	if n := len(t.TypeArgs); n > c.arity[fqn] {
		c.arity[fqn] = n
	}
	for _, ta := range t.TypeArgs {
		c.noteTypeRef(ta)
	}
	c.planOwnerType(fqn, false)
}

// inferType implements §4.4's return/field type-inference rule: the
// expected context type if known, else the unknown fallback.
func (c *Collector) inferType(expected *ast.TypeRef) string {
	if expected == nil {
		return ast.UnknownType
	}
	return expected.FQN()
}

// inferArgType implements §4.4's parameter-type inference rule: an
// argument's own inferred type, driven by the expression's literal kind or
// its declared type at a cast/construction site. A null literal, and any
// expression shape this Collector cannot type on its own (an identifier, a
// nested unresolved call, a field access), falls back to Unknown.
func (c *Collector) inferArgType(a ast.Expr) string {
	switch x := a.(type) {
	case *ast.Literal:
		return literalTypeName(x.Kind)
	case *ast.CastExpr:
		return c.inferType(x.Type)
	case *ast.NewExpr:
		return c.inferType(x.Type)
	default:
		return ast.UnknownType
	}
}

// literalTypeName maps a literal's kind to its Java type name, per §4.4's
// "a null literal becomes Unknown" rule.
func literalTypeName(k ast.LiteralKind) string {
	switch k {
	case ast.LitBoolean:
		return "boolean"
	case ast.LitInt:
		return "int"
	case ast.LitLong:
		return "long"
	case ast.LitFloat:
		return "float"
	case ast.LitDouble:
		return "double"
	case ast.LitChar:
		return "char"
	case ast.LitString:
		return "java.lang.String"
	default:
		return ast.UnknownType
	}
}

func ownerFQN(ref *ast.TypeRef) string {
	if ref == nil {
		return ""
	}
	return ref.FQN()
}

// enumHelperCall reports whether (name, argc) matches one of the implicit
// enum helper methods (§4.4): values(), valueOf(String), name().
func enumHelperCall(name string, argc int) bool {
	switch name {
	case "values":
		return argc == 0
	case "valueOf":
		return argc == 1
	case "name":
		return argc == 0
	}
	return false
}

// isFilteredFQN applies §4.4's filtering rule: JDK-rooted FQNs, primitive
// names and malformed (trailing-dot or empty-simple-name) FQNs are never
// planned.
func isFilteredFQN(fqn string) bool {
	if fqn == "" {
		return true
	}
	if ast.IsJDKRooted(fqn) {
		return true
	}
	if ast.IsPrimitiveName(fqn) {
		return true
	}
	if strings.HasSuffix(fqn, ".") {
		return true
	}
	if ast.SimpleName(fqn) == "" {
		return true
	}
	return false
}
