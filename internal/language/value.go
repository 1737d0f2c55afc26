package language

// ValueEqual reports structural equality of two values. List entries are
// compared in order, object fields by name regardless of order, and variable
// references only match a reference to the same variable. A nil value equals
// only another nil value: callers deal in resolved values, where absence has
// already been normalized to an explicit null.
func ValueEqual(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ListValue:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !ValueEqual(a.Children[i].Value, b.Children[i].Value) {
				return false
			}
		}
		return true
	case ObjectValue:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for _, child := range a.Children {
			if !ValueEqual(child.Value, b.Children.ForName(child.Name)) {
				return false
			}
		}
		return true
	default:
		return a.Raw == b.Raw
	}
}
