package validation

import (
	language "github.com/mjmahone/fragc/internal/language"
)

// Validate runs every fragment argument check over doc and collects all
// violations instead of stopping at the first. A nil result means the
// document passed and may be handed to the rewriter.
func Validate(doc *language.Document) ValidationError {
	c := &checker{doc: doc}
	walkable := c.checkFragmentStructure()
	c.checkArgumentLocality()
	c.checkRequiredArguments()
	// The conflict check resolves bindings transitively and needs known
	// spread targets and an acyclic graph to walk.
	if walkable {
		c.checkConflictingArguments()
	}
	if len(c.violations) == 0 {
		return nil
	}
	return ValidationError(c.violations)
}

type checker struct {
	doc        *language.Document
	violations []*Violation
}

func (c *checker) add(v ...*Violation) {
	c.violations = append(c.violations, v...)
}

// forEachSpread visits every fragment spread syntactically contained in
// set, including spreads nested under fields and inline fragments. It does
// not follow spreads into their target fragments.
func forEachSpread(set language.SelectionSet, fn func(*language.FragmentSpread)) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.Field:
			forEachSpread(s.SelectionSet, fn)
		case *language.InlineFragment:
			forEachSpread(s.SelectionSet, fn)
		case *language.FragmentSpread:
			fn(s)
		}
	}
}

// forEachDocumentSpread visits every spread in the document, operations
// first, then fragment bodies, in document order.
func (c *checker) forEachDocumentSpread(fn func(*language.FragmentSpread)) {
	for _, op := range c.doc.Operations {
		forEachSpread(op.SelectionSet, fn)
	}
	for _, frag := range c.doc.Fragments {
		forEachSpread(frag.SelectionSet, fn)
	}
}

func operationName(op *language.OperationDefinition) string {
	if op.Name != "" {
		return op.Name
	}
	return "(anonymous)"
}
