package binding

import (
	language "github.com/mjmahone/fragc/internal/language"
)

// Site is one reachable fragment spread together with the bindings in
// effect for the target fragment's body at that site.
type Site struct {
	Fragment *language.FragmentDefinition
	Spread   *language.FragmentSpread
	// Path lists the fragment names on the spread chain from the
	// operation root down to and including this site.
	Path     []string
	Bindings Bindings
}

// Resolver resolves and memoizes bindings for one document. The memo table
// is keyed by fragment name plus the fingerprint of the resolved spread
// arguments, which bounds the walk to one body expansion per distinct
// binding set instead of one per spread chain.
type Resolver struct {
	doc  *language.Document
	memo map[string]Bindings
}

func NewResolver(doc *language.Document) *Resolver {
	return &Resolver{doc: doc, memo: make(map[string]Bindings)}
}

// Resolve computes the value of every argument declared by frag for a
// spread supplying spreadArgs, where parent holds the bindings in effect at
// the spread site. Resolve is total: completeness of required arguments is
// the validator's concern, absence resolves to default or null here.
func (r *Resolver) Resolve(frag *language.FragmentDefinition, spreadArgs language.ArgumentList, parent Bindings) Bindings {
	b := make(Bindings, len(frag.ArgumentDefinitions))
	for _, def := range frag.ArgumentDefinitions {
		if arg := spreadArgs.ForName(def.Variable); arg != nil {
			b[def.Variable] = SubstituteValue(arg.Value, parent)
			continue
		}
		if def.DefaultValue != nil {
			b[def.Variable] = def.DefaultValue
			continue
		}
		b[def.Variable] = nullValue(def.Position)
	}
	key := frag.Name + "|" + Fingerprint(b)
	if memoized, ok := r.memo[key]; ok {
		return memoized
	}
	r.memo[key] = b
	return b
}

// Walk visits every fragment spread reachable from op, depth first in
// document order, calling fn with the resolved bindings at each site. A
// fragment body is expanded at most once per distinct binding set, so the
// walk is linear in the size of the spread graph. Spreads that would
// re-enter a fragment already on the active chain are skipped; reporting
// such cycles is the validator's job, the walk merely terminates.
func (r *Resolver) Walk(op *language.OperationDefinition, fn func(Site)) {
	expanded := make(map[string]bool)
	var visit func(set language.SelectionSet, parent Bindings, chain []string)
	visit = func(set language.SelectionSet, parent Bindings, chain []string) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *language.Field:
				visit(s.SelectionSet, parent, chain)
			case *language.InlineFragment:
				visit(s.SelectionSet, parent, chain)
			case *language.FragmentSpread:
				frag := r.doc.Fragments.ForName(s.Name)
				if frag == nil || onChain(chain, s.Name) {
					continue
				}
				b := r.Resolve(frag, s.Arguments, parent)
				next := make([]string, len(chain)+1)
				copy(next, chain)
				next[len(chain)] = s.Name
				fn(Site{Fragment: frag, Spread: s, Path: next, Bindings: b})
				key := s.Name + "|" + Fingerprint(b)
				if expanded[key] {
					continue
				}
				expanded[key] = true
				visit(frag.SelectionSet, b, next)
			}
		}
	}
	visit(op.SelectionSet, nil, nil)
}

func onChain(chain []string, name string) bool {
	for _, link := range chain {
		if link == name {
			return true
		}
	}
	return false
}
