// Package binding resolves the value every fragment argument takes on at a
// given spread site. Resolution is a pure function of the spread chain:
// supplied values win over declared defaults, defaults over an implicit
// null, and a supplied variable resolves through the parent spread's
// bindings until a literal or an operation-level variable is reached.
package binding

import (
	"sort"
	"strings"

	language "github.com/mjmahone/fragc/internal/language"
)

// Bindings maps an argument name to its resolved value. A resolved value is
// a literal (with any forwarded fragment arguments already substituted), a
// variable reference naming an operation-level variable, or an explicit
// null for an absent nullable argument without a default.
type Bindings map[string]*language.Value

// Equal reports whether two binding sets resolve every argument to
// structurally equal values.
func Equal(a, b Bindings) bool {
	if len(a) != len(b) {
		return false
	}
	for name, av := range a {
		bv, ok := b[name]
		if !ok || !language.ValueEqual(av, bv) {
			return false
		}
	}
	return true
}

// Fingerprint renders b in a canonical sorted form. Used as a memo key and
// in conflict diagnostics.
func Fingerprint(b Bindings) string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	sb.WriteString("(")
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(b[name].String())
	}
	sb.WriteString(")")
	return sb.String()
}

// SubstituteValue returns v with every variable reference bound in b
// replaced by its bound value, recursing into list and object children.
// Unbound variables stay as references. The input value is never modified;
// unchanged subtrees are shared with the input.
func SubstituteValue(v *language.Value, b Bindings) *language.Value {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case language.Variable:
		if bound, ok := b[v.Raw]; ok {
			return bound
		}
		return v
	case language.ListValue, language.ObjectValue:
		changed := false
		children := make(language.ChildValueList, len(v.Children))
		for i, child := range v.Children {
			sub := SubstituteValue(child.Value, b)
			if sub != child.Value {
				changed = true
			}
			children[i] = &language.ChildValue{Name: child.Name, Value: sub, Position: child.Position}
		}
		if !changed {
			return v
		}
		out := *v
		out.Children = children
		return &out
	default:
		return v
	}
}

func nullValue(pos *language.Position) *language.Value {
	return &language.Value{Kind: language.NullValue, Raw: "null", Position: pos}
}
