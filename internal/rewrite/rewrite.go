// Package rewrite lowers fragment argument syntax out of a validated
// document. The output is a plain GraphQL document any server accepts:
// fragment definitions lose their argument lists, spreads lose their
// supplied arguments, and every reference to a fragment argument inside a
// fragment body is replaced with its resolved value. Each fragment keeps a
// single definition; the validator guarantees every reachable spread
// resolves it to the same bindings, so one body serves all sites.
package rewrite

import (
	binding "github.com/mjmahone/fragc/internal/binding"
	language "github.com/mjmahone/fragc/internal/language"
)

// Rewrite returns a copy of doc with fragment argument syntax removed and
// resolved values substituted into fragment bodies, along with the bindings
// applied to each fragment that declares arguments. The input document is
// not modified. Rewrite assumes doc passed validation; on an unvalidated
// document it still terminates but the substituted values are whichever
// spread site resolved first.
func Rewrite(doc *language.Document) (*language.Document, map[string]binding.Bindings) {
	resolved := resolveAll(doc)

	out := &language.Document{Position: doc.Position}
	for _, op := range doc.Operations {
		oc := *op
		oc.SelectionSet = rewriteSelections(op.SelectionSet, nil)
		out.Operations = append(out.Operations, &oc)
	}
	for _, frag := range doc.Fragments {
		fc := *frag
		fc.ArgumentDefinitions = nil
		b := resolved[frag.Name]
		fc.Directives = rewriteDirectives(frag.Directives, b)
		fc.SelectionSet = rewriteSelections(frag.SelectionSet, b)
		out.Fragments = append(out.Fragments, &fc)
	}
	return out, resolved
}

// resolveAll walks every operation and records the first resolved binding
// set for each fragment that declares arguments. Fragments no operation
// reaches still get bindings from their declared defaults so their bodies
// rewrite to something well formed.
func resolveAll(doc *language.Document) map[string]binding.Bindings {
	resolved := make(map[string]binding.Bindings)
	r := binding.NewResolver(doc)
	for _, op := range doc.Operations {
		r.Walk(op, func(site binding.Site) {
			if len(site.Fragment.ArgumentDefinitions) == 0 {
				return
			}
			if _, ok := resolved[site.Fragment.Name]; !ok {
				resolved[site.Fragment.Name] = site.Bindings
			}
		})
	}
	for _, frag := range doc.Fragments {
		if len(frag.ArgumentDefinitions) == 0 {
			continue
		}
		if _, ok := resolved[frag.Name]; ok {
			continue
		}
		resolved[frag.Name] = r.Resolve(frag, nil, nil)
	}
	return resolved
}

func rewriteSelections(set language.SelectionSet, b binding.Bindings) language.SelectionSet {
	if set == nil {
		return nil
	}
	out := make(language.SelectionSet, 0, len(set))
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.Field:
			fc := *s
			fc.Arguments = rewriteArguments(s.Arguments, b)
			fc.Directives = rewriteDirectives(s.Directives, b)
			fc.SelectionSet = rewriteSelections(s.SelectionSet, b)
			out = append(out, &fc)
		case *language.InlineFragment:
			ic := *s
			ic.Directives = rewriteDirectives(s.Directives, b)
			ic.SelectionSet = rewriteSelections(s.SelectionSet, b)
			out = append(out, &ic)
		case *language.FragmentSpread:
			sc := *s
			sc.Arguments = nil
			sc.Directives = rewriteDirectives(s.Directives, b)
			out = append(out, &sc)
		}
	}
	return out
}

func rewriteArguments(args language.ArgumentList, b binding.Bindings) language.ArgumentList {
	if args == nil {
		return nil
	}
	out := make(language.ArgumentList, len(args))
	for i, arg := range args {
		ac := *arg
		ac.Value = binding.SubstituteValue(arg.Value, b)
		out[i] = &ac
	}
	return out
}

func rewriteDirectives(dirs language.DirectiveList, b binding.Bindings) language.DirectiveList {
	if dirs == nil {
		return nil
	}
	out := make(language.DirectiveList, len(dirs))
	for i, d := range dirs {
		dc := *d
		dc.Arguments = rewriteArguments(d.Arguments, b)
		out[i] = &dc
	}
	return out
}
