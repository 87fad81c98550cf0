// Package stub implements the Stubber stage (§4.5): turning the Collector's
// stub plans into synthetic ast.TypeDecl trees ready for the Reconciler.
package stub

import (
	"sort"
	"strings"

	"github.com/jesslang/jess/pkg/ast"
	"github.com/jesslang/jess/pkg/collect"
)

// Output is everything the Stubber materialised, keyed by top-level FQN so
// the pipeline can emit one file per top-level synthetic type (§6).
type Output struct {
	Types map[string]*ast.TypeDecl
	// Order preserves the emission order types were first created in, for
	// deterministic output across runs.
	Order []string
}

// Stubber applies a Collector.Result to produce synthetic declarations.
type Stubber struct {
	byFQN      map[string]*ast.TypeDecl
	order      []string
	functional map[string]bool
}

// New constructs a Stubber.
func New() *Stubber {
	return &Stubber{byFQN: make(map[string]*ast.TypeDecl), functional: make(map[string]bool)}
}

// Stub applies res's plans in the order prescribed by §4.5 and returns the
// resulting synthetic type forest.
func (s *Stubber) Stub(res collect.Result) Output {
	s.applyTypePlans(res.TypePlans)
	s.applyFieldPlans(res.FieldPlans)
	s.applyCtorPlans(res.ConstructorPlans)
	s.applyMethodPlans(res.MethodPlans)
	s.applyImplements(res.Implements)

	out := Output{Types: make(map[string]*ast.TypeDecl)}
	for _, fqn := range s.order {
		t := s.byFQN[fqn]
		if strings.Contains(fqn, "$") || t.IsNonStaticInner {
			continue // nested types live under their top-level type
		}
		out.Types[fqn] = t
		out.Order = append(out.Order, fqn)
	}
	return out
}

// applyTypePlans orders concrete-FQN plans before unknown-rooted ones and
// skips an unknown.X plan when a concrete *.X type with the same simple
// name already exists (§4.5).
func (s *Stubber) applyTypePlans(plans []*collect.TypeStubPlan) {
	concrete := make([]*collect.TypeStubPlan, 0, len(plans))
	unknownRooted := make([]*collect.TypeStubPlan, 0)
	for _, p := range plans {
		if ast.PackageOf(p.FQN) == ast.UnknownPackage {
			unknownRooted = append(unknownRooted, p)
		} else {
			concrete = append(concrete, p)
		}
	}
	sort.SliceStable(concrete, func(i, j int) bool { return concrete[i].FQN < concrete[j].FQN })
	sort.SliceStable(unknownRooted, func(i, j int) bool { return unknownRooted[i].FQN < unknownRooted[j].FQN })

	concreteSimpleNames := make(map[string]bool)
	for _, p := range concrete {
		concreteSimpleNames[ast.SimpleName(p.FQN)] = true
	}

	for _, p := range concrete {
		s.ensureTypeChain(p)
	}
	for _, p := range unknownRooted {
		if p.FQN != ast.UnknownType && concreteSimpleNames[ast.SimpleName(p.FQN)] {
			continue
		}
		s.ensureTypeChain(p)
	}
}

// ensureTypeChain materialises the `$`-nested chain for plan.FQN, per
// §4.5's member-type handling: pkg.Outer -> Outer$Inner -> Outer$Inner$Deeper,
// upgrading/downgrading an already-created node's kind if this plan is more
// specific than an earlier guess.
func (s *Stubber) ensureTypeChain(plan *collect.TypeStubPlan) *ast.TypeDecl {
	if existing, ok := s.byFQN[plan.FQN]; ok {
		if plan.Kind != ast.Class {
			existing.Kind = plan.Kind
		}
		if plan.Functional {
			s.functional[plan.FQN] = true
		}
		return existing
	}

	segments := strings.Split(plan.FQN, "$")
	var parent *ast.TypeDecl
	acc := segments[0]
	for i, seg := range segments {
		fqn := acc
		if i > 0 {
			fqn = acc + "$" + seg
			acc = fqn
		}
		isLast := i == len(segments)-1
		node, ok := s.byFQN[fqn]
		if !ok {
			kind := ast.Class
			if isLast {
				kind = plan.Kind
			}
			node = &ast.TypeDecl{
				Name: ast.SimpleName(fqn),
				FQN:  fqn,
				Kind: kind,
			}
			arity := 0
			if isLast {
				arity = plan.Arity
			}
			node.Meta.Sym = &ast.Symbol{FQN: fqn, Kind: symKindFor(kind), Synthetic: true, Arity: arity}
			if isLast && arity > 0 {
				node.TypeParams = syntheticTypeParams(arity)
			}
			if isLast && plan.Superclass != "" {
				node.Superclass = &ast.TypeRef{Name: plan.Superclass}
			}
			node.IsNonStaticInner = i > 0
			s.byFQN[fqn] = node
			s.order = append(s.order, fqn)
			if parent != nil {
				parent.Nested = append(parent.Nested, node)
			}
		} else if isLast && plan.Kind != ast.Class {
			node.Kind = plan.Kind
		}
		parent = node
	}
	if plan.Functional {
		s.functional[plan.FQN] = true
	}
	return s.byFQN[plan.FQN]
}

// syntheticTypeParams assigns the standard T,R,U,V,W,X,Y,Z names
// positionally when a synthetic type's formal type parameters have no
// recovered names, per §4.4.
func syntheticTypeParams(arity int) []*ast.TypeParam {
	standard := []string{"T", "R", "U", "V", "W", "X", "Y", "Z"}
	params := make([]*ast.TypeParam, arity)
	for i := 0; i < arity; i++ {
		name := "T" + string(rune('0'+i))
		if i < len(standard) {
			name = standard[i]
		}
		params[i] = &ast.TypeParam{Name: name}
	}
	return params
}

func symKindFor(k ast.TypeKind) ast.SymbolKind {
	switch k {
	case ast.Interface:
		return ast.SymInterface
	case ast.Enum:
		return ast.SymEnum
	case ast.Annotation:
		return ast.SymAnnotation
	default:
		return ast.SymClass
	}
}

func (s *Stubber) applyFieldPlans(plans []*collect.FieldStubPlan) {
	for _, p := range plans {
		owner, ok := s.byFQN[p.OwnerFQN]
		if !ok {
			continue
		}
		if hasField(owner, p.Name) {
			continue
		}
		owner.Fields = append(owner.Fields, &ast.FieldDecl{
			Name:   p.Name,
			Type:   s.rebindTypeParam(owner, &ast.TypeRef{Name: p.Type}),
			Static: p.Static,
		})
	}
}

func (s *Stubber) applyCtorPlans(plans []*collect.ConstructorStubPlan) {
	for _, p := range plans {
		owner, ok := s.byFQN[p.OwnerFQN]
		if !ok {
			continue
		}
		if hasCtorArity(owner, len(p.ParamTypes)) {
			continue
		}
		owner.Constructors = append(owner.Constructors, &ast.ConstructorDecl{
			Params: s.buildParams(owner, p.ParamTypes),
			Body:   &ast.Block{},
		})
	}
}

func (s *Stubber) applyMethodPlans(plans []*collect.MethodStubPlan) {
	for _, p := range plans {
		if p.Name == "getClass" && len(p.ParamTypes) == 0 {
			continue // §4.5 final-method collision
		}
		owner, ok := s.byFQN[p.OwnerFQN]
		if !ok {
			continue
		}
		if hasMethod(owner, p.Name, len(p.ParamTypes)) {
			continue
		}
		if s.functional[p.OwnerFQN] && p.Name != "apply" && p.Name != "make" && hasAbstractMethod(owner) {
			continue // already has its one SAM
		}

		m := &ast.MethodDecl{
			Name:       p.Name,
			ReturnType: s.rebindTypeParam(owner, &ast.TypeRef{Name: p.ReturnType}),
			Params:     s.buildParams(owner, p.ParamTypes),
			Static:     p.Static,
			Visibility: ast.Public,
		}

		switch owner.Kind {
		case ast.Interface:
			if p.Static {
				m.Body = defaultBodyFor(m.ReturnType)
			} else if s.functional[p.OwnerFQN] || p.Abstract {
				m.Abstract = true
			} else {
				m.DefaultOnInterface = true
				m.Body = defaultBodyFor(m.ReturnType)
			}
		default:
			if !p.Abstract {
				m.Body = defaultBodyFor(m.ReturnType)
			} else {
				m.Abstract = true
			}
		}

		owner.Methods = append(owner.Methods, m)
	}
}

func (s *Stubber) applyImplements(implements map[string][]string) {
	for owner, ifaces := range implements {
		t, ok := s.byFQN[owner]
		if !ok {
			continue
		}
		for _, iface := range ifaces {
			t.Interfaces = append(t.Interfaces, &ast.TypeRef{Name: iface})
		}
	}
}

// rebindTypeParam implements §4.5's generic-resolution rule: a bare
// single-uppercase-letter name with no package segment is rebound to
// owner's matching formal type parameter (by name, else positionally).
func (s *Stubber) rebindTypeParam(owner *ast.TypeDecl, t *ast.TypeRef) *ast.TypeRef {
	if t == nil || len(owner.TypeParams) == 0 {
		return t
	}
	if !isPlaceholderName(t.Name) {
		return t
	}
	for _, tp := range owner.TypeParams {
		if tp.Name == t.Name {
			return t
		}
	}
	return &ast.TypeRef{Name: owner.TypeParams[0].Name}
}

func isPlaceholderName(name string) bool {
	return len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z'
}

func (s *Stubber) buildParams(owner *ast.TypeDecl, types []string) []*ast.Param {
	params := make([]*ast.Param, len(types))
	for i, t := range types {
		arr := 0
		name := t
		varargs := false
		if i == len(types)-1 && strings.HasSuffix(t, "...") {
			name = strings.TrimSuffix(t, "...")
			varargs = true
			arr = 1
		}
		ref := s.rebindTypeParam(owner, &ast.TypeRef{Name: name, ArrayDims: arr})
		params[i] = &ast.Param{Name: syntheticParamName(i), Type: ref, Varargs: varargs}
	}
	return params
}

func syntheticParamName(i int) string {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	if i < len(names) {
		return names[i]
	}
	return "arg" + string(rune('0'+i))
}

func defaultBodyFor(t *ast.TypeRef) *ast.Block {
	if t == nil || t.Name == "void" || t.Name == "" {
		return &ast.Block{}
	}
	return &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: zeroLiteral(t)}}}
}

func zeroLiteral(t *ast.TypeRef) ast.Expr {
	if t.ArrayDims > 0 {
		return &ast.Literal{Kind: ast.LitNull, Value: "null"}
	}
	switch t.Name {
	case "boolean":
		return &ast.Literal{Kind: ast.LitBoolean, Value: "false"}
	case "byte", "short", "int":
		return &ast.Literal{Kind: ast.LitInt, Value: "0"}
	case "long":
		return &ast.Literal{Kind: ast.LitLong, Value: "0L"}
	case "float":
		return &ast.Literal{Kind: ast.LitFloat, Value: "0f"}
	case "double":
		return &ast.Literal{Kind: ast.LitDouble, Value: "0.0"}
	case "char":
		return &ast.Literal{Kind: ast.LitChar, Value: "'\\0'"}
	default:
		return &ast.Literal{Kind: ast.LitNull, Value: "null"}
	}
}

func hasField(t *ast.TypeDecl, name string) bool {
	for _, f := range t.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func hasCtorArity(t *ast.TypeDecl, arity int) bool {
	for _, c := range t.Constructors {
		if len(c.Params) == arity {
			return true
		}
	}
	return false
}

func hasMethod(t *ast.TypeDecl, name string, arity int) bool {
	for _, m := range t.Methods {
		if m.Name == name && len(m.Params) == arity {
			return true
		}
	}
	return false
}

func hasAbstractMethod(t *ast.TypeDecl) bool {
	for _, m := range t.Methods {
		if m.Abstract {
			return true
		}
	}
	return false
}
