package validation

import (
	language "github.com/mjmahone/fragc/internal/language"
)

// checkArgumentLocality enforces the strict locality rule: every argument a
// fragment declares must be referenced as a variable directly within that
// fragment's own selection set. References inside spread-in child fragments
// do not count, but a variable forwarded as an argument to a child spread
// does. Symmetrically, a variable referenced in a fragment body must be
// either a declared argument or a variable of every operation reaching the
// fragment.
func (c *checker) checkArgumentLocality() {
	reachedBy := c.reachedBy()

	for _, frag := range c.doc.Fragments {
		refs := collectDirectRefs(frag)

		for _, def := range frag.ArgumentDefinitions {
			if !refs.has(def.Variable) {
				c.add(violationUnusedFragmentArgument(frag.Name, def.Variable, def.Position))
			}
		}

		for _, ref := range refs.ordered {
			if frag.ArgumentDefinitions.ForName(ref.name) != nil {
				continue
			}
			ops := reachedBy[frag.Name]
			if len(ops) == 0 {
				c.add(violationUndefinedFragmentVariable(frag.Name, ref.name, ref.pos))
				continue
			}
			for _, op := range ops {
				if op.VariableDefinitions.ForName(ref.name) == nil {
					c.add(violationUndefinedFragmentVariableInOperation(frag.Name, ref.name, operationName(op), ref.pos))
				}
			}
		}
	}
}

type varRef struct {
	name string
	pos  *language.Position
}

// varRefSet records first-seen variable references in document order so
// violation output is deterministic.
type varRefSet struct {
	ordered []varRef
	seen    map[string]bool
}

func (s *varRefSet) add(name string, pos *language.Position) {
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.ordered = append(s.ordered, varRef{name: name, pos: pos})
}

func (s *varRefSet) has(name string) bool { return s.seen[name] }

// collectDirectRefs gathers the variable references that occur directly in
// the fragment's own selection set: field and directive argument values,
// including nested list and object values, and values passed as arguments
// to child spreads. The bodies of spread-in fragments are not entered.
func collectDirectRefs(frag *language.FragmentDefinition) *varRefSet {
	refs := &varRefSet{seen: make(map[string]bool)}
	collectDirectiveRefs(frag.Directives, refs)
	collectSelectionRefs(frag.SelectionSet, refs)
	return refs
}

func collectSelectionRefs(set language.SelectionSet, refs *varRefSet) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.Field:
			collectArgumentRefs(s.Arguments, refs)
			collectDirectiveRefs(s.Directives, refs)
			collectSelectionRefs(s.SelectionSet, refs)
		case *language.InlineFragment:
			collectDirectiveRefs(s.Directives, refs)
			collectSelectionRefs(s.SelectionSet, refs)
		case *language.FragmentSpread:
			collectArgumentRefs(s.Arguments, refs)
			collectDirectiveRefs(s.Directives, refs)
		}
	}
}

func collectArgumentRefs(args language.ArgumentList, refs *varRefSet) {
	for _, arg := range args {
		collectValueRefs(arg.Value, refs)
	}
}

func collectDirectiveRefs(dirs language.DirectiveList, refs *varRefSet) {
	for _, d := range dirs {
		collectArgumentRefs(d.Arguments, refs)
	}
}

func collectValueRefs(v *language.Value, refs *varRefSet) {
	if v == nil {
		return
	}
	switch v.Kind {
	case language.Variable:
		refs.add(v.Raw, v.Position)
	case language.ListValue, language.ObjectValue:
		for _, child := range v.Children {
			collectValueRefs(child.Value, refs)
		}
	}
}

// reachedBy maps each fragment name to the operations it is transitively
// reachable from, in document order, each operation at most once.
func (c *checker) reachedBy() map[string][]*language.OperationDefinition {
	out := make(map[string][]*language.OperationDefinition)
	for _, op := range c.doc.Operations {
		seen := make(map[string]bool)
		var visit func(set language.SelectionSet)
		visit = func(set language.SelectionSet) {
			forEachSpread(set, func(s *language.FragmentSpread) {
				if seen[s.Name] {
					return
				}
				seen[s.Name] = true
				out[s.Name] = append(out[s.Name], op)
				if frag := c.doc.Fragments.ForName(s.Name); frag != nil {
					visit(frag.SelectionSet)
				}
			})
		}
		visit(op.SelectionSet)
	}
	return out
}
