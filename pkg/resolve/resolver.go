// Package resolve implements the Resolver, §4.1: two passes over the
// original AST (bind type references, then bind member references against
// the now-bound owner types), annotating every reference node with either
// its resolved Symbol or an UnresolvedKind tag.
package resolve

import (
	"fmt"

	"github.com/jesslang/jess/pkg/ast"
	"github.com/jesslang/jess/pkg/cache"
	"github.com/jesslang/jess/pkg/jesserrors"
	"github.com/jesslang/jess/pkg/jesslog"
	"github.com/jesslang/jess/pkg/oracle"
)

// Options configures Resolver behaviour per §6's options record.
type Options struct {
	FailOnAmbiguity        bool
	LooseSignatureMatching bool
}

// Resolver walks an AST and annotates every reference node, per §4.1.
type Resolver struct {
	Classpath oracle.ClasspathResolver
	Cache     *cache.ResolutionCache
	Logger    jesslog.Logger
	Options   Options

	// OtherUnits holds already-parsed compilation units from other source
	// roots, keyed by the FQN of their primary (first) type. The Resolver
	// treats these as resolvable in addition to Classpath, and records which
	// of them were actually touched as ForeignUnits (§4.1: "the set of
	// foreign compilation units ... touched transitively").
	OtherUnits map[string]*ast.CompilationUnit
}

// Result is the Resolver's output: the (now-annotated, in place) root AST
// plus the set of foreign compilation units transitively touched.
type Result struct {
	Root          *ast.CompilationUnit
	ForeignUnits  []*ast.CompilationUnit
	foreignByFQN  map[string]bool
}

// scope tracks local variable types within one method body, layered over
// the enclosing type's field types (§4.1's member-binding pass needs a
// receiver's static type before it can resolve a member on it).
type scope struct {
	vars   map[string]*ast.TypeRef
	parent *scope
}

func newScope(parent *scope) *scope { return &scope{vars: make(map[string]*ast.TypeRef), parent: parent} }

func (s *scope) lookup(name string) (*ast.TypeRef, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (s *scope) define(name string, t *ast.TypeRef) { s.vars[name] = t }

// New constructs a Resolver.
func New(classpath oracle.ClasspathResolver, c *cache.ResolutionCache, logger jesslog.Logger, opts Options) *Resolver {
	if logger == nil {
		logger = jesslog.Nop()
	}
	if c == nil {
		c = cache.New()
	}
	return &Resolver{Classpath: classpath, Cache: c, Logger: logger, Options: opts}
}

// Resolve runs both passes over root, mutating its nodes in place, and
// returns the set of foreign compilation units touched.
func (r *Resolver) Resolve(root *ast.CompilationUnit) (*Result, error) {
	res := &Result{Root: root, foreignByFQN: make(map[string]bool)}

	for _, t := range root.Types {
		if err := r.bindTypesInDecl(t, res); err != nil {
			return nil, err
		}
	}
	for _, t := range root.Types {
		fields := make(map[string]*ast.TypeRef)
		for _, f := range t.Fields {
			fields[f.Name] = f.Type
		}
		self := selfTypeRef(t)
		if err := r.bindMembersInDecl(t, self, fields, res); err != nil {
			return nil, err
		}
	}

	for fqn := range res.foreignByFQN {
		if u, ok := r.OtherUnits[fqn]; ok {
			res.ForeignUnits = append(res.ForeignUnits, u)
		}
	}

	return res, nil
}

func selfTypeRef(t *ast.TypeDecl) *ast.TypeRef {
	fqn := t.FQN
	if fqn == "" {
		fqn = t.Name
	}
	kind := ast.SymClass
	switch t.Kind {
	case ast.Interface:
		kind = ast.SymInterface
	case ast.Enum:
		kind = ast.SymEnum
	case ast.Annotation:
		kind = ast.SymAnnotation
	}
	sym := &ast.Symbol{FQN: fqn, Kind: kind, Arity: len(t.TypeParams)}
	return &ast.TypeRef{Name: t.Name, Meta: ast.Meta{Sym: sym}}
}

// bindTypesInDecl runs pass 1 (type-reference binding) over t and its
// members/nested types.
func (r *Resolver) bindTypesInDecl(t *ast.TypeDecl, res *Result) error {
	if t.Superclass != nil {
		r.bindType(t.Superclass, res)
	}
	for _, i := range t.Interfaces {
		r.bindType(i, res)
	}
	for _, a := range t.Annotations {
		r.bindType(a.Type, res)
	}
	for _, f := range t.Fields {
		r.bindType(f.Type, res)
	}
	for _, c := range t.Constructors {
		for _, p := range c.Params {
			r.bindType(p.Type, res)
		}
		for _, th := range c.Thrown {
			r.bindType(th, res)
		}
		r.bindTypesInStmt(c.Body, res)
	}
	for _, m := range t.Methods {
		r.bindType(m.ReturnType, res)
		for _, p := range m.Params {
			r.bindType(p.Type, res)
		}
		for _, th := range m.Thrown {
			r.bindType(th, res)
		}
		for _, a := range m.Annotations {
			r.bindType(a.Type, res)
		}
		r.bindTypesInStmt(m.Body, res)
	}
	for _, n := range t.Nested {
		if err := r.bindTypesInDecl(n, res); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) bindTypesInStmt(n ast.Node, res *Result) {
	if n == nil {
		return
	}
	ast.Walk(n, func(node ast.Node) bool {
		switch x := node.(type) {
		case *ast.VarDeclStmt:
			if x.Type != nil {
				r.bindType(x.Type, res)
			}
		case *ast.CastExpr:
			r.bindType(x.Type, res)
		case *ast.InstanceOfExpr:
			r.bindType(x.Type, res)
		case *ast.NewExpr:
			r.bindType(x.Type, res)
		case *ast.MethodRefExpr:
			if x.Qualifier != nil {
				r.bindType(x.Qualifier, res)
			}
		}
		return true
	})
}

// bindType resolves a single TypeRef (and its nested type arguments),
// per §4.1 pass 1.
func (r *Resolver) bindType(ref *ast.TypeRef, res *Result) {
	if ref == nil || ref.Name == "" {
		return
	}
	for _, arg := range ref.TypeArgs {
		r.bindType(arg, res)
	}
	if ast.IsPrimitiveName(ref.Name) {
		return
	}

	if sym, ok := r.Cache.GetType(ref.Name); ok {
		ref.Sym = &sym
		r.noteForeign(sym.FQN, res)
		return
	}

	if r.Classpath != nil {
		if sym, ok := r.Classpath.LookupType(ref.Name); ok {
			sym.FromJDK = ast.IsJDKRooted(sym.FQN)
			ref.Sym = &sym
			r.Cache.PutType(ref.Name, sym)
			r.noteForeign(sym.FQN, res)
			return
		}
	}

	ref.Unresolved = ast.UnresolvedType
}

func (r *Resolver) noteForeign(fqn string, res *Result) {
	if _, ok := r.OtherUnits[fqn]; ok {
		res.foreignByFQN[fqn] = true
	}
}

// bindMembersInDecl runs pass 2 over t, tracking field types for receiver
// resolution (§4.1 pass 2: "bind member references via signature matching
// on the now-bound owner types").
func (r *Resolver) bindMembersInDecl(t *ast.TypeDecl, self *ast.TypeRef, fields map[string]*ast.TypeRef, res *Result) error {
	for _, c := range t.Constructors {
		sc := newScope(nil)
		for _, p := range c.Params {
			sc.define(p.Name, p.Type)
		}
		if err := r.bindMembersInStmt(c.Body, self, fields, sc, res); err != nil {
			return err
		}
	}
	for _, m := range t.Methods {
		sc := newScope(nil)
		for _, p := range m.Params {
			sc.define(p.Name, p.Type)
		}
		if err := r.bindMembersInStmt(m.Body, self, fields, sc, res); err != nil {
			return err
		}
	}
	for _, f := range t.Fields {
		if f.Initializer != nil {
			if err := r.bindMembersInExpr(f.Initializer, self, fields, newScope(nil), res); err != nil {
				return err
			}
		}
	}
	for _, n := range t.Nested {
		nestedFields := make(map[string]*ast.TypeRef)
		for _, f := range n.Fields {
			nestedFields[f.Name] = f.Type
		}
		if err := r.bindMembersInDecl(n, selfTypeRef(n), nestedFields, res); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) bindMembersInStmt(n ast.Node, self *ast.TypeRef, fields map[string]*ast.TypeRef, sc *scope, res *Result) error {
	if n == nil {
		return nil
	}
	switch x := n.(type) {
	case *ast.Block:
		inner := newScope(sc)
		for _, s := range x.Stmts {
			if err := r.bindMembersInStmt(s, self, fields, inner, res); err != nil {
				return err
			}
		}
	case *ast.VarDeclStmt:
		sc.define(x.Name, x.Type)
		if x.Init != nil {
			return r.bindMembersInExpr(x.Init, self, fields, sc, res)
		}
	case *ast.ExprStmt:
		return r.bindMembersInExpr(x.X, self, fields, sc, res)
	case *ast.ReturnStmt:
		if x.Value != nil {
			return r.bindMembersInExpr(x.Value, self, fields, sc, res)
		}
	case *ast.ThrowStmt:
		return r.bindMembersInExpr(x.X, self, fields, sc, res)
	case *ast.IfStmt:
		if err := r.bindMembersInExpr(x.Cond, self, fields, sc, res); err != nil {
			return err
		}
		if err := r.bindMembersInStmt(x.Then, self, fields, sc, res); err != nil {
			return err
		}
		if x.Else != nil {
			return r.bindMembersInStmt(x.Else, self, fields, sc, res)
		}
	case *ast.LoopStmt:
		inner := newScope(sc)
		if x.Init != nil {
			if err := r.bindMembersInStmt(x.Init, self, fields, inner, res); err != nil {
				return err
			}
		}
		if x.Cond != nil {
			if err := r.bindMembersInExpr(x.Cond, self, fields, inner, res); err != nil {
				return err
			}
		}
		if x.Post != nil {
			if err := r.bindMembersInExpr(x.Post, self, fields, inner, res); err != nil {
				return err
			}
		}
		return r.bindMembersInStmt(x.Body, self, fields, inner, res)
	}
	return nil
}

func (r *Resolver) bindMembersInExpr(n ast.Expr, self *ast.TypeRef, fields map[string]*ast.TypeRef, sc *scope, res *Result) error {
	if n == nil {
		return nil
	}
	switch x := n.(type) {
	case *ast.CallExpr:
		for _, a := range x.Args {
			if err := r.bindMembersInExpr(a, self, fields, sc, res); err != nil {
				return err
			}
		}
		if x.Receiver != nil {
			if err := r.bindMembersInExpr(x.Receiver, self, fields, sc, res); err != nil {
				return err
			}
		}
		x.OwnerType = r.ownerTypeOf(x.Receiver, self, fields, sc)
		return r.bindMethodCall(x, res)
	case *ast.FieldAccessExpr:
		if x.Receiver != nil {
			if err := r.bindMembersInExpr(x.Receiver, self, fields, sc, res); err != nil {
				return err
			}
		}
		x.OwnerType = r.ownerTypeOf(x.Receiver, self, fields, sc)
		return r.bindFieldAccess(x, res)
	case *ast.NewExpr:
		for _, a := range x.Args {
			if err := r.bindMembersInExpr(a, self, fields, sc, res); err != nil {
				return err
			}
		}
		return r.bindConstructorCall(x, res)
	case *ast.CastExpr:
		return r.bindMembersInExpr(x.X, self, fields, sc, res)
	case *ast.InstanceOfExpr:
		return r.bindMembersInExpr(x.X, self, fields, sc, res)
	case *ast.AssignExpr:
		if err := r.bindMembersInExpr(x.LHS, self, fields, sc, res); err != nil {
			return err
		}
		return r.bindMembersInExpr(x.RHS, self, fields, sc, res)
	case *ast.LambdaExpr:
		inner := newScope(sc)
		for _, p := range x.Params {
			inner.define(p.Name, p.Type)
		}
		switch body := x.Body.(type) {
		case ast.Expr:
			return r.bindMembersInExpr(body, self, fields, inner, res)
		case *ast.Block:
			return r.bindMembersInStmt(body, self, fields, inner, res)
		}
	}
	return nil
}

// ownerTypeOf computes the Resolver's best-effort static type of a
// receiver expression, falling back to nil when it cannot be determined
// from the simplified scope model (an Open Question recorded in DESIGN.md).
func (r *Resolver) ownerTypeOf(receiver ast.Expr, self *ast.TypeRef, fields map[string]*ast.TypeRef, sc *scope) *ast.TypeRef {
	if receiver == nil {
		return self
	}
	switch x := receiver.(type) {
	case *ast.Ident:
		if t, ok := sc.lookup(x.Name); ok {
			return t
		}
		if t, ok := fields[x.Name]; ok {
			return t
		}
		// Bare identifier that resolves to neither a local nor a field:
		// treat its name as a (likely static) type reference.
		return &ast.TypeRef{Name: x.Name}
	case *ast.CastExpr:
		return x.Type
	case *ast.FieldAccessExpr:
		return x.OwnerType
	case *ast.CallExpr:
		return x.OwnerType
	}
	return nil
}

func (r *Resolver) bindMethodCall(call *ast.CallExpr, res *Result) error {
	if call.OwnerType == nil || call.OwnerType.Sym == nil {
		call.Unresolved = ast.UnresolvedMethod
		return nil
	}
	owner := *call.OwnerType.Sym
	candidates, ok := r.lookupMember(owner, call.Name, len(call.Args))
	if !ok || len(candidates) == 0 {
		call.Unresolved = ast.UnresolvedMethod
		return nil
	}
	sym, err := r.pickOverload(candidates)
	if err != nil {
		return err
	}
	call.Sym = sym
	return nil
}

func (r *Resolver) bindFieldAccess(fa *ast.FieldAccessExpr, res *Result) error {
	if fa.OwnerType == nil || fa.OwnerType.Sym == nil {
		fa.Unresolved = ast.UnresolvedField
		return nil
	}
	owner := *fa.OwnerType.Sym
	candidates, ok := r.lookupMember(owner, fa.Name, -1)
	if !ok || len(candidates) == 0 {
		fa.Unresolved = ast.UnresolvedField
		return nil
	}
	sym := candidates[0]
	fa.Sym = &sym
	return nil
}

func (r *Resolver) bindConstructorCall(ne *ast.NewExpr, res *Result) error {
	if ne.Type == nil || ne.Type.Sym == nil {
		ne.Unresolved = ast.UnresolvedCtor
		return nil
	}
	owner := *ne.Type.Sym
	candidates, ok := r.lookupMember(owner, "<init>", len(ne.Args))
	if !ok || len(candidates) == 0 {
		ne.Unresolved = ast.UnresolvedCtor
		return nil
	}
	sym, err := r.pickOverload(candidates)
	if err != nil {
		return err
	}
	ne.Sym = sym
	return nil
}

func (r *Resolver) lookupMember(owner ast.Symbol, name string, arity int) ([]ast.Symbol, bool) {
	if syms, ok := r.Cache.GetMembers(owner.FQN, name); ok {
		return syms, len(syms) > 0
	}
	if r.Classpath == nil {
		return nil, false
	}
	syms, ok := r.Classpath.LookupMember(owner, name, arity)
	r.Cache.PutMembers(owner.FQN, name, syms)
	return syms, ok
}

// pickOverload resolves ambiguity among equally applicable candidates, per
// §4.1: raises AmbiguityError when FailOnAmbiguity is set and
// LooseSignatureMatching is not; otherwise picks the first textual match.
func (r *Resolver) pickOverload(candidates []ast.Symbol) (*ast.Symbol, error) {
	if len(candidates) == 1 {
		sym := candidates[0]
		return &sym, nil
	}
	if r.Options.FailOnAmbiguity && !r.Options.LooseSignatureMatching {
		return nil, jesserrors.NewAmbiguityError(0, fmt.Sprintf("ambiguous overload among %d candidates", len(candidates)))
	}
	sym := candidates[0]
	return &sym, nil
}
