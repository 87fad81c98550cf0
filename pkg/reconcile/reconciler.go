// Package reconcile implements the Reconciler stage (§4.6): nine ordered
// post-passes to patch up cross-cutting consistency issues no single
// earlier stage had enough context to fix. Eight of them run once over the
// Stubber's whole output forest (real slice plus synthetic types); pass 8
// (RemoveDeadImports) runs on one CompilationUnit at a time.
package reconcile

import (
	"sort"
	"strings"

	"github.com/jesslang/jess/pkg/ast"
)

// Reconciler mutates a type forest in place across its nine passes.
type Reconciler struct {
	// RepeatableOptOut disables pass 9's brittle "Base"+`s` container-type
	// heuristic (§9 open question) for FQNs it reports true for.
	RepeatableOptOut func(fqn string) bool
}

// New constructs a Reconciler with no opt-out hook.
func New() *Reconciler {
	return &Reconciler{RepeatableOptOut: func(string) bool { return false }}
}

// Universe is every type the Reconciler needs visibility into: the
// synthetic forest plus the real (sliced) types resolved symbols may point
// at. Passes 2, 4 and 7 also rewrite real types (type references, and
// auto-implemented methods on real classes); the other passes only mutate
// synthetic ones.
type Universe struct {
	Synthetic map[string]*ast.TypeDecl
	Real      map[string]*ast.TypeDecl
}

func (u *Universe) all() []*ast.TypeDecl {
	out := make([]*ast.TypeDecl, 0, len(u.Synthetic)+len(u.Real))
	for _, t := range u.Synthetic {
		out = append(out, t)
	}
	for _, t := range u.Real {
		out = append(out, t)
	}
	return out
}

func (u *Universe) lookup(fqn string) *ast.TypeDecl {
	if t, ok := u.Synthetic[fqn]; ok {
		return t
	}
	return u.Real[fqn]
}

// Reconcile runs passes 1–7 and 9 in order over u and returns it (mutated
// in place) for convenience chaining. Pass 8 works on a CompilationUnit
// rather than a Universe and is run separately through RemoveDeadImports.
func (r *Reconciler) Reconcile(u *Universe) *Universe {
	r.preserveGenericArgs(u)
	r.rebindUnknownPlaceholders(u)
	r.rebindUnknownSupertypes(u)
	r.autoImplement(u)
	r.enforceFunctionalSAM(u)
	r.completeBuilders(u)
	r.qualifyAmbiguousSimpleNames(u)
	r.canonicaliseMetaAnnotations(u)
	return u
}

// pass 1: preserveGenericArgs ensures every synthetic type's formal type-parameter
// list has at least as many entries as the largest observed actual-argument
// count anywhere in the universe (§4.6 pass 1, §8 invariant).
func (r *Reconciler) preserveGenericArgs(u *Universe) {
	maxArgs := make(map[string]int)
	var scan func(t *ast.TypeRef)
	scan = func(t *ast.TypeRef) {
		if t == nil {
			return
		}
		if n := len(t.TypeArgs); n > maxArgs[t.FQN()] {
			maxArgs[t.FQN()] = n
		}
		for _, a := range t.TypeArgs {
			scan(a)
		}
	}
	for _, t := range u.all() {
		scan(t.Superclass)
		for _, i := range t.Interfaces {
			scan(i)
		}
		for _, f := range t.Fields {
			scan(f.Type)
		}
		for _, m := range t.Methods {
			scan(m.ReturnType)
			for _, p := range m.Params {
				scan(p.Type)
			}
		}
	}
	for fqn, n := range maxArgs {
		t, ok := u.Synthetic[fqn]
		if !ok {
			continue
		}
		for len(t.TypeParams) < n {
			t.TypeParams = append(t.TypeParams, &ast.TypeParam{Name: standardTypeParamName(len(t.TypeParams))})
		}
	}
}

func standardTypeParamName(i int) string {
	standard := []string{"T", "R", "U", "V", "W", "X", "Y", "Z"}
	if i < len(standard) {
		return standard[i]
	}
	return "T" + string(rune('0'+i))
}

// pass 2: rebindUnknownPlaceholders rewrites every unknown.X TypeRef to the
// unique concrete type named X, when exactly one such concrete type exists
// (§4.6 pass 2).
func (r *Reconciler) rebindUnknownPlaceholders(u *Universe) {
	bySimple := concreteSimpleNameIndex(u)
	var fix func(t *ast.TypeRef)
	fix = func(t *ast.TypeRef) {
		if t == nil {
			return
		}
		if ast.PackageOf(t.FQN()) == ast.UnknownPackage && t.FQN() != ast.UnknownType {
			simple := ast.SimpleName(t.FQN())
			if matches := bySimple[simple]; len(matches) == 1 {
				t.Name = matches[0]
			}
		}
		for _, a := range t.TypeArgs {
			fix(a)
		}
	}
	walkAllTypeRefs(u, fix)
}

// concreteSimpleNameIndex maps a simple name to the list of concrete
// (non-unknown-rooted) FQNs sharing it.
func concreteSimpleNameIndex(u *Universe) map[string][]string {
	idx := make(map[string][]string)
	for _, t := range u.all() {
		if ast.PackageOf(t.FQN) == ast.UnknownPackage {
			continue
		}
		simple := ast.SimpleName(t.FQN)
		idx[simple] = append(idx[simple], t.FQN)
	}
	for k := range idx {
		sort.Strings(idx[k])
	}
	return idx
}

// pass 3: rebindUnknownSupertypes fixes a synthetic class's superclass
// still pointing into unknown., preferring a same-package concrete type
// over any concrete type sharing the simple name (§4.6 pass 3).
func (r *Reconciler) rebindUnknownSupertypes(u *Universe) {
	bySimple := concreteSimpleNameIndex(u)
	for _, t := range u.Synthetic {
		sc := t.Superclass
		if sc == nil || ast.PackageOf(sc.FQN()) != ast.UnknownPackage {
			continue
		}
		simple := ast.SimpleName(sc.FQN())
		candidates := bySimple[simple]
		if len(candidates) == 0 {
			continue
		}
		pkg := ast.PackageOf(t.FQN)
		chosen := candidates[0]
		for _, c := range candidates {
			if ast.PackageOf(c) == pkg {
				chosen = c
				break
			}
		}
		t.Superclass = &ast.TypeRef{Name: chosen}
	}
}

// pass 4: autoImplement clones any abstract, non-default, non-static
// interface method missing from a concrete class implementing that
// interface, substituting type parameters against the interface's actual
// type arguments, giving it a default-return body (§4.6 pass 4).
func (r *Reconciler) autoImplement(u *Universe) {
	for _, t := range u.all() {
		if t.Kind != ast.Class {
			continue
		}
		seen := make(map[string]bool) // first-interface-wins tie-break
		for _, iface := range t.Interfaces {
			decl := u.lookup(iface.FQN())
			if decl == nil {
				continue
			}
			subst := substitutionFor(decl, iface)
			for _, m := range allAbstractMethods(u, decl) {
				sig := m.Name + "/" + itoaLen(len(m.Params))
				if seen[sig] {
					continue
				}
				if hasConcreteOverride(t, m) {
					seen[sig] = true
					continue
				}
				seen[sig] = true
				clone := cloneMethodWithSubst(m, subst)
				clone.Abstract = false
				clone.DefaultOnInterface = false
				clone.Body = defaultBodyFor(clone.ReturnType)
				t.Methods = append(t.Methods, clone)
			}
		}
	}
}

func allAbstractMethods(u *Universe, iface *ast.TypeDecl) []*ast.MethodDecl {
	var out []*ast.MethodDecl
	for _, m := range iface.Methods {
		if m.Abstract && !m.Static {
			out = append(out, m)
		}
	}
	for _, super := range iface.Interfaces {
		if sd := u.lookup(super.FQN()); sd != nil {
			out = append(out, allAbstractMethods(u, sd)...)
		}
	}
	return out
}

func hasConcreteOverride(t *ast.TypeDecl, m *ast.MethodDecl) bool {
	for _, own := range t.Methods {
		if own.Name == m.Name && len(own.Params) == len(m.Params) && !own.Abstract {
			return true
		}
	}
	return false
}

func substitutionFor(decl *ast.TypeDecl, usage *ast.TypeRef) map[string]*ast.TypeRef {
	subst := make(map[string]*ast.TypeRef)
	for i, tp := range decl.TypeParams {
		if i < len(usage.TypeArgs) {
			subst[tp.Name] = usage.TypeArgs[i]
		}
	}
	return subst
}

func cloneMethodWithSubst(m *ast.MethodDecl, subst map[string]*ast.TypeRef) *ast.MethodDecl {
	clone := *m
	clone.ReturnType = substType(m.ReturnType, subst)
	clone.Params = make([]*ast.Param, len(m.Params))
	for i, p := range m.Params {
		np := *p
		np.Type = substType(p.Type, subst)
		clone.Params[i] = &np
	}
	return &clone
}

func substType(t *ast.TypeRef, subst map[string]*ast.TypeRef) *ast.TypeRef {
	if t == nil {
		return nil
	}
	if repl, ok := subst[t.Name]; ok && len(t.TypeArgs) == 0 {
		return repl
	}
	nt := *t
	nt.TypeArgs = make([]*ast.TypeRef, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		nt.TypeArgs[i] = substType(a, subst)
	}
	return &nt
}

func itoaLen(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// pass 5: enforceFunctionalSAM discards every abstract method beyond the
// SAM on a functional-marked interface (§4.6 pass 5).
func (r *Reconciler) enforceFunctionalSAM(u *Universe) {
	for _, t := range u.Synthetic {
		if !t.Functional {
			continue
		}
		kept := false
		filtered := make([]*ast.MethodDecl, 0, len(t.Methods))
		for _, m := range t.Methods {
			if m.Abstract {
				if kept {
					continue
				}
				kept = true
			}
			filtered = append(filtered, m)
		}
		t.Methods = filtered
	}
}

// pass 6: completeBuilders implements the builder-pattern completion rule
// (§4.6 pass 6): any synthetic method whose return type name contains
// "Builder" forces a nested static Builder type with get(): Owner. This
// pass adds no other methods to the Builder type: checkOrigin*/set*/with*
// calls on a builder target do not induce builder methods here.
func (r *Reconciler) completeBuilders(u *Universe) {
	for _, t := range u.Synthetic {
		for _, m := range t.Methods {
			if m.ReturnType == nil || !strings.Contains(m.ReturnType.Name, "Builder") {
				continue
			}
			r.ensureBuilderType(t, m.ReturnType.Name)
		}
	}
}

func (r *Reconciler) ensureBuilderType(owner *ast.TypeDecl, builderName string) {
	for _, n := range owner.Nested {
		if n.Name == builderName {
			ensureGetMethod(n, owner)
			return
		}
	}
	b := &ast.TypeDecl{
		Name:             builderName,
		FQN:              owner.FQN + "$" + builderName,
		Kind:             ast.Class,
		IsNonStaticInner: false,
	}
	ensureGetMethod(b, owner)
	owner.Nested = append(owner.Nested, b)
}

func ensureGetMethod(b *ast.TypeDecl, owner *ast.TypeDecl) {
	for _, m := range b.Methods {
		if m.Name == "get" && len(m.Params) == 0 {
			return
		}
	}
	b.Methods = append(b.Methods, &ast.MethodDecl{
		Name:       "get",
		ReturnType: &ast.TypeRef{Name: owner.Name},
		Visibility: ast.Public,
		Body:       &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitNull, Value: "null"}}}},
	})
}

// InferBuilderMethodReturn implements the per-name inference table from
// §4.6 pass 6 for a builder-target call. Neither Reconcile nor pkg/pipeline
// calls it.
func InferBuilderMethodReturn(methodName, builderFQN string) string {
	switch methodName {
	case "checkOriginFile":
		return "java.io.File"
	case "checkOriginByteArray":
		return "byte[]"
	case "checkOriginPath":
		return "java.nio.file.Path"
	}
	if strings.HasPrefix(methodName, "set") || strings.HasPrefix(methodName, "with") || strings.HasPrefix(methodName, "checkOrigin") {
		return builderFQN
	}
	return "java.lang.Object"
}

// pass 7: qualifyAmbiguousSimpleNames rewrites a bare TypeRef whose simple
// name is defined in two or more packages to explicitly name one chosen
// package, preferring `unknown` when it is among the candidates (§4.6
// pass 7, §9 open question — this rule is deliberately not "least
// surprise", and must not be changed).
func (r *Reconciler) qualifyAmbiguousSimpleNames(u *Universe) {
	bySimple := make(map[string]map[string]bool)
	for _, t := range u.all() {
		simple := ast.SimpleName(t.FQN)
		if bySimple[simple] == nil {
			bySimple[simple] = make(map[string]bool)
		}
		bySimple[simple][ast.PackageOf(t.FQN)] = true
	}

	choice := make(map[string]string)
	for simple, pkgs := range bySimple {
		if len(pkgs) < 2 {
			continue
		}
		if pkgs[ast.UnknownPackage] {
			choice[simple] = ast.UnknownPackage
			continue
		}
		var sorted []string
		for p := range pkgs {
			sorted = append(sorted, p)
		}
		sort.Strings(sorted)
		choice[simple] = sorted[0]
	}

	var fix func(t *ast.TypeRef)
	fix = func(t *ast.TypeRef) {
		if t == nil {
			return
		}
		simple := ast.SimpleName(t.Name)
		if pkg, ambiguous := choice[simple]; ambiguous && !strings.Contains(t.Name, ".") {
			if pkg == "" {
				t.Name = simple
			} else {
				t.Name = pkg + "." + simple
			}
		}
		for _, a := range t.TypeArgs {
			fix(a)
		}
	}
	walkAllTypeRefs(u, fix)
}

// pass 8: removeDeadImports drops `unknown.*` imports from compilation
// units that contain no remaining unknown.-rooted reference (§4.6 pass 8).
// Operates directly on the CompilationUnit's import list; call once per
// unit after the universe-wide passes above have run.
func (r *Reconciler) RemoveDeadImports(cu *ast.CompilationUnit) {
	usesUnknown := false
	for _, t := range cu.Types {
		ast.Walk(t, func(n ast.Node) bool {
			if tr, ok := n.(*ast.TypeRef); ok && ast.PackageOf(tr.FQN()) == ast.UnknownPackage {
				usesUnknown = true
			}
			return true
		})
	}
	if usesUnknown {
		return
	}
	filtered := cu.Imports[:0]
	for _, imp := range cu.Imports {
		if imp.Path == ast.UnknownPackage || strings.HasPrefix(imp.Path, ast.UnknownPackage+".") {
			continue
		}
		filtered = append(filtered, imp)
	}
	cu.Imports = filtered
}

// pass 9: canonicaliseMetaAnnotations rebinds the five meta-annotations to
// their platform FQNs and auto-wires @Repeatable(XContainer.class) when a
// sibling "Base"+`s` annotation type exists (§4.6 pass 9, §9 open
// question — a deliberately brittle heuristic with an opt-out hook).
func (r *Reconciler) canonicaliseMetaAnnotations(u *Universe) {
	canon := map[string]string{
		"Target":     "java.lang.annotation.Target",
		"Retention":  "java.lang.annotation.Retention",
		"Repeatable": "java.lang.annotation.Repeatable",
		"Documented": "java.lang.annotation.Documented",
		"Inherited":  "java.lang.annotation.Inherited",
	}
	for _, t := range u.Synthetic {
		if t.Kind != ast.Annotation {
			continue
		}
		for _, a := range t.Annotations {
			if fqn, ok := canon[a.Type.Name]; ok {
				a.Type.Name = fqn
			}
		}
		if r.RepeatableOptOut(t.FQN) {
			continue
		}
		containerName := t.Name + "s"
		container := findSibling(u, t, containerName)
		if container == nil {
			continue
		}
		hasRepeatable := false
		for _, a := range t.Annotations {
			if a.Type.Name == canon["Repeatable"] {
				hasRepeatable = true
			}
		}
		if !hasRepeatable {
			t.Annotations = append(t.Annotations, &ast.AnnotationUse{
				Type: &ast.TypeRef{Name: canon["Repeatable"]},
				Args: []ast.Expr{&ast.FieldAccessExpr{Receiver: &ast.Ident{Name: container.Name}, Name: "class"}},
			})
		}
		ensureValueMethod(container, t)
	}
}

func findSibling(u *Universe, t *ast.TypeDecl, name string) *ast.TypeDecl {
	pkg := ast.PackageOf(t.FQN)
	for _, cand := range u.all() {
		if cand.Name == name && ast.PackageOf(cand.FQN) == pkg {
			return cand
		}
	}
	return nil
}

func ensureValueMethod(container, element *ast.TypeDecl) {
	for _, m := range container.Methods {
		if m.Name == "value" {
			return
		}
	}
	container.Methods = append(container.Methods, &ast.MethodDecl{
		Name:       "value",
		ReturnType: &ast.TypeRef{Name: element.FQN, ArrayDims: 1},
		Abstract:   true,
	})
}

func walkAllTypeRefs(u *Universe, fix func(*ast.TypeRef)) {
	for _, t := range u.all() {
		fix(t.Superclass)
		for _, i := range t.Interfaces {
			fix(i)
		}
		for _, f := range t.Fields {
			fix(f.Type)
		}
		for _, m := range t.Methods {
			fix(m.ReturnType)
			for _, p := range m.Params {
				fix(p.Type)
			}
		}
		for _, c := range t.Constructors {
			for _, p := range c.Params {
				fix(p.Type)
			}
		}
	}
}

func defaultBodyFor(t *ast.TypeRef) *ast.Block {
	if t == nil || t.Name == "void" || t.Name == "" {
		return &ast.Block{}
	}
	if t.ArrayDims > 0 {
		return &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitNull, Value: "null"}}}}
	}
	switch t.Name {
	case "boolean":
		return &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitBoolean, Value: "false"}}}}
	case "byte", "short", "int":
		return &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitInt, Value: "0"}}}}
	case "long":
		return &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitLong, Value: "0L"}}}}
	case "float":
		return &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitFloat, Value: "0f"}}}}
	case "double":
		return &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitDouble, Value: "0.0"}}}}
	case "char":
		return &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitChar, Value: "'\\0'"}}}}
	default:
		return &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.LitNull, Value: "null"}}}}
	}
}
