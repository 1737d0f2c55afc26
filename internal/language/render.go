package language

import "strings"

// Render produces GraphQL source from doc.
// Deterministic output: definitions keep document order, two-space indent,
// one blank line between definitions. Values and types render through
// gqlparser's own String methods.
func Render(doc *Document) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder
	for _, op := range doc.Operations {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		renderOperation(&b, op)
	}
	for _, frag := range doc.Fragments {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		renderFragment(&b, frag)
	}
	return b.String()
}

func renderOperation(b *strings.Builder, op *OperationDefinition) {
	shorthand := op.Operation == Query && op.Name == "" &&
		len(op.VariableDefinitions) == 0 && len(op.Directives) == 0
	if !shorthand {
		b.WriteString(string(op.Operation))
		if op.Name != "" {
			b.WriteString(" ")
			b.WriteString(op.Name)
		}
		renderVariableDefinitions(b, op.VariableDefinitions)
		renderDirectives(b, op.Directives)
		b.WriteString(" ")
	}
	renderSelectionSet(b, op.SelectionSet, 0)
	b.WriteString("\n")
}

func renderFragment(b *strings.Builder, frag *FragmentDefinition) {
	b.WriteString("fragment ")
	b.WriteString(frag.Name)
	renderVariableDefinitions(b, frag.ArgumentDefinitions)
	b.WriteString(" on ")
	b.WriteString(frag.TypeCondition)
	renderDirectives(b, frag.Directives)
	b.WriteString(" ")
	renderSelectionSet(b, frag.SelectionSet, 0)
	b.WriteString("\n")
}

func renderVariableDefinitions(b *strings.Builder, defs VariableDefinitionList) {
	if len(defs) == 0 {
		return
	}
	b.WriteString("(")
	for i, def := range defs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("$")
		b.WriteString(def.Variable)
		b.WriteString(": ")
		b.WriteString(def.Type.String())
		if def.DefaultValue != nil {
			b.WriteString(" = ")
			b.WriteString(def.DefaultValue.String())
		}
	}
	b.WriteString(")")
}

func renderArguments(b *strings.Builder, args ArgumentList) {
	if len(args) == 0 {
		return
	}
	b.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Name)
		b.WriteString(": ")
		b.WriteString(arg.Value.String())
	}
	b.WriteString(")")
}

func renderDirectives(b *strings.Builder, dirs DirectiveList) {
	for _, d := range dirs {
		b.WriteString(" @")
		b.WriteString(d.Name)
		renderArguments(b, d.Arguments)
	}
}

func renderSelectionSet(b *strings.Builder, set SelectionSet, depth int) {
	b.WriteString("{\n")
	inner := strings.Repeat("  ", depth+1)
	for _, sel := range set {
		b.WriteString(inner)
		switch s := sel.(type) {
		case *Field:
			if s.Alias != "" && s.Alias != s.Name {
				b.WriteString(s.Alias)
				b.WriteString(": ")
			}
			b.WriteString(s.Name)
			renderArguments(b, s.Arguments)
			renderDirectives(b, s.Directives)
			if len(s.SelectionSet) > 0 {
				b.WriteString(" ")
				renderSelectionSet(b, s.SelectionSet, depth+1)
			}
		case *FragmentSpread:
			b.WriteString("...")
			b.WriteString(s.Name)
			renderArguments(b, s.Arguments)
			renderDirectives(b, s.Directives)
		case *InlineFragment:
			b.WriteString("...")
			if s.TypeCondition != "" {
				b.WriteString(" on ")
				b.WriteString(s.TypeCondition)
			}
			renderDirectives(b, s.Directives)
			b.WriteString(" ")
			renderSelectionSet(b, s.SelectionSet, depth+1)
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString("}")
}
