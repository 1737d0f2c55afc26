package validation

import (
	binding "github.com/mjmahone/fragc/internal/binding"
	language "github.com/mjmahone/fragc/internal/language"
)

// checkConflictingArguments resolves the argument values of every reachable
// spread site and requires each fragment to resolve to one binding set per
// operation. The rewriter emits a single body per fragment for the whole
// document, so the same comparison also runs across operations.
func (c *checker) checkConflictingArguments() {
	res := binding.NewResolver(c.doc)

	type occurrence struct {
		bindings binding.Bindings
		pos      *language.Position
	}
	type fragmentUses struct {
		// distinct binding sets per operation, first-seen order
		perOp   map[string][]occurrence
		opOrder []string
	}

	uses := make(map[string]*fragmentUses)
	var fragOrder []string

	for _, op := range c.doc.Operations {
		opName := operationName(op)
		res.Walk(op, func(site binding.Site) {
			if len(site.Fragment.ArgumentDefinitions) == 0 {
				return
			}
			u := uses[site.Fragment.Name]
			if u == nil {
				u = &fragmentUses{perOp: make(map[string][]occurrence)}
				uses[site.Fragment.Name] = u
				fragOrder = append(fragOrder, site.Fragment.Name)
			}
			if _, ok := u.perOp[opName]; !ok {
				u.opOrder = append(u.opOrder, opName)
			}
			occs := u.perOp[opName]
			for _, occ := range occs {
				if binding.Equal(occ.bindings, site.Bindings) {
					return
				}
			}
			u.perOp[opName] = append(occs, occurrence{bindings: site.Bindings, pos: site.Spread.Position})
		})
	}

	for _, fragName := range fragOrder {
		u := uses[fragName]

		conflicted := false
		for _, opName := range u.opOrder {
			occs := u.perOp[opName]
			if len(occs) < 2 {
				continue
			}
			conflicted = true
			sets := make([]string, len(occs))
			for i, occ := range occs {
				sets[i] = binding.Fingerprint(occ.bindings)
			}
			c.add(violationConflictingFragmentArguments(fragName, opName, sets, occs[0].pos))
		}
		if conflicted || len(u.opOrder) < 2 {
			continue
		}

		// Every operation is internally consistent; compare across them.
		first := u.perOp[u.opOrder[0]][0]
		crossConflict := false
		for _, opName := range u.opOrder[1:] {
			if !binding.Equal(first.bindings, u.perOp[opName][0].bindings) {
				crossConflict = true
				break
			}
		}
		if crossConflict {
			sets := make([]string, len(u.opOrder))
			for i, opName := range u.opOrder {
				sets[i] = binding.Fingerprint(u.perOp[opName][0].bindings)
			}
			c.add(violationConflictingFragmentArgumentsAcrossOperations(fragName, u.opOrder, sets, first.pos))
		}
	}
}
