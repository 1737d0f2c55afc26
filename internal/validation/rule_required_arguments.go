package validation

import (
	language "github.com/mjmahone/fragc/internal/language"
)

// checkRequiredArguments verifies, per spread site, that every non-null
// argument without a default on the target fragment is supplied. The same
// fragment may be spread with different completeness at different call
// sites, so each site is checked independently.
func (c *checker) checkRequiredArguments() {
	c.forEachDocumentSpread(func(s *language.FragmentSpread) {
		frag := c.doc.Fragments.ForName(s.Name)
		if frag == nil {
			return
		}
		for _, def := range frag.ArgumentDefinitions {
			if def.DefaultValue != nil || def.Type == nil || !def.Type.NonNull {
				continue
			}
			if s.Arguments.ForName(def.Variable) == nil {
				c.add(violationMissingRequiredFragmentArgument(frag.Name, def.Variable, s.Position))
			}
		}
	})
}
