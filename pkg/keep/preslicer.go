package keep

import "github.com/jesslang/jess/pkg/ast"

// PreSlicer computes the initial (and, by fixpoint, the final) keep-set for
// a target, per §4.2.
type PreSlicer struct {
	// LooseMatching enables §4.1/§4.2's "loose matching compares only name +
	// arity when signatures don't unify" fallback.
	LooseMatching bool
}

// typeIndex is built once per Slice call over the whole root+nested tree so
// internal member lookups (and ancestor-chain marking) don't re-walk the
// tree on every reference.
type typeIndex struct {
	byFQN   map[string]*ast.TypeDecl
	parent  map[*ast.TypeDecl]*ast.TypeDecl
}

func buildTypeIndex(root *ast.TypeDecl) *typeIndex {
	idx := &typeIndex{byFQN: make(map[string]*ast.TypeDecl), parent: make(map[*ast.TypeDecl]*ast.TypeDecl)}
	var visit func(t, parent *ast.TypeDecl)
	visit = func(t, parent *ast.TypeDecl) {
		if t.FQN != "" {
			idx.byFQN[t.FQN] = t
		}
		idx.byFQN[t.Name] = t
		if parent != nil {
			idx.parent[t] = parent
		}
		for _, n := range t.Nested {
			visit(n, t)
		}
	}
	visit(root, nil)
	return idx
}

func (idx *typeIndex) markAncestors(t *ast.TypeDecl) {
	for cur := t; cur != nil; cur = idx.parent[cur] {
		cur.Keep = true
	}
}

// Slice computes the keep-set for root given the §6 keep-pattern list. An
// empty patterns list means "keep every method in the target type" (§4.2).
func (p *PreSlicer) Slice(root *ast.TypeDecl, patterns []MethodPattern, keepStaticInit, keepInstanceInit bool) *KeepSet {
	ks := &KeepSet{Patterns: patterns, KeepStaticInit: keepStaticInit, KeepInstanceInit: keepInstanceInit, Root: root}
	idx := buildTypeIndex(root)

	root.Keep = true

	var worklist []*ast.MethodDecl
	var ctorWorklist []*ast.ConstructorDecl

	if len(patterns) == 0 {
		for _, m := range root.Methods {
			m.Keep = true
			worklist = append(worklist, m)
			ks.MatchedMethods = append(ks.MatchedMethods, m)
		}
	} else {
		for _, pat := range patterns {
			matches := matchPattern(root, pat, p.LooseMatching)
			for _, m := range matches {
				if !m.Keep {
					m.Keep = true
					worklist = append(worklist, m)
				}
				ks.MatchedMethods = append(ks.MatchedMethods, m)
			}
		}
	}

	if keepStaticInit {
		for _, f := range root.Fields {
			if f.Static && f.Initializer != nil {
				f.Keep = true
			}
		}
	}
	if keepInstanceInit {
		for _, f := range root.Fields {
			if !f.Static && f.Initializer != nil {
				f.Keep = true
			}
		}
	}

	// Fixpoint: process the worklist, discovering more kept members as we
	// walk kept bodies, until nothing new is found (§4.2).
	for len(worklist) > 0 || len(ctorWorklist) > 0 {
		var m *ast.MethodDecl
		if len(worklist) > 0 {
			m, worklist = worklist[0], worklist[1:]
			newMethods, newCtors := markReferencedMembers(m.Body, idx)
			worklist = append(worklist, newMethods...)
			ctorWorklist = append(ctorWorklist, newCtors...)
			continue
		}
		var c *ast.ConstructorDecl
		c, ctorWorklist = ctorWorklist[0], ctorWorklist[1:]
		newMethods, newCtors := markReferencedMembers(c.Body, idx)
		worklist = append(worklist, newMethods...)
		ctorWorklist = append(ctorWorklist, newCtors...)
	}

	return ks
}

func matchPattern(root *ast.TypeDecl, pat MethodPattern, loose bool) []*ast.MethodDecl {
	var exact []*ast.MethodDecl
	var looseMatches []*ast.MethodDecl
	for _, m := range root.Methods {
		if m.Name != pat.Name {
			continue
		}
		if paramsEqual(m, pat.ParamTypes) {
			exact = append(exact, m)
		}
		if len(m.Params) == len(pat.ParamTypes) || (pat.ExactArity >= 0 && len(m.Params) == pat.ExactArity) {
			looseMatches = append(looseMatches, m)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	if loose {
		return looseMatches
	}
	return nil
}

func paramsEqual(m *ast.MethodDecl, types []string) bool {
	if len(types) == 0 {
		return len(m.Params) == 0
	}
	if len(m.Params) != len(types) {
		return false
	}
	for i, p := range m.Params {
		want := types[i]
		if p.Type == nil || (p.Type.Name != want && p.Type.FQN() != want) {
			return false
		}
	}
	return true
}

// markReferencedMembers walks a kept body and marks every internally
// resolvable field/method/nested-type reference as kept too (§4.2 rule i
// and ii), returning newly-kept methods/constructors for the fixpoint
// worklist.
func markReferencedMembers(body *ast.Block, idx *typeIndex) (newMethods []*ast.MethodDecl, newCtors []*ast.ConstructorDecl) {
	if body == nil {
		return nil, nil
	}
	ast.Walk(body, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.CallExpr:
			owner := ownerType(x.OwnerType, idx)
			if owner == nil {
				return true
			}
			idx.markAncestors(owner)
			for _, m := range owner.Methods {
				if m.Name == x.Name && !m.Keep {
					m.Keep = true
					newMethods = append(newMethods, m)
				}
			}
		case *ast.FieldAccessExpr:
			owner := ownerType(x.OwnerType, idx)
			if owner == nil {
				return true
			}
			idx.markAncestors(owner)
			for _, f := range owner.Fields {
				if f.Name == x.Name {
					f.Keep = true
				}
			}
		case *ast.Ident:
			// A bare identifier that happens to name a field or nested type
			// of the enclosing tree (accessed without an explicit receiver).
			if t, ok := idx.byFQN[x.Name]; ok {
				idx.markAncestors(t)
			}
			for _, t := range idx.byFQN {
				for _, f := range t.Fields {
					if f.Name == x.Name {
						f.Keep = true
					}
				}
			}
		case *ast.TypeRef:
			if x.Sym != nil {
				if t, ok := idx.byFQN[x.Sym.FQN]; ok {
					idx.markAncestors(t)
				}
			}
		case *ast.NewExpr:
			if x.Type != nil && x.Type.Sym != nil {
				if t, ok := idx.byFQN[x.Type.Sym.FQN]; ok {
					idx.markAncestors(t)
					for _, c := range t.Constructors {
						if len(c.Params) == len(x.Args) && !c.Keep {
							c.Keep = true
							newCtors = append(newCtors, c)
						}
					}
				}
			}
		}
		return true
	})
	return newMethods, newCtors
}

func ownerType(ref *ast.TypeRef, idx *typeIndex) *ast.TypeDecl {
	if ref == nil || ref.Sym == nil {
		return nil
	}
	t, ok := idx.byFQN[ref.Sym.FQN]
	if !ok {
		return nil
	}
	return t
}
