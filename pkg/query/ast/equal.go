package ast

// Equal reports whether two trees are structurally equal: same variant at
// every segment, same axis on leaves, equal constraint lists (element-wise,
// in order) and recursively equal children. nil is equal only to nil.
// A nil constraint list equals an empty one.
func Equal(a, b Node) bool {
	for {
		if a == nil || b == nil {
			return a == nil && b == nil
		}

		switch x := a.(type) {
		case *ProjectNode:
			y, ok := b.(*ProjectNode)
			if !ok || !EqualConstraints(x.Constraints, y.Constraints) {
				return false
			}
			a, b = x.Child, y.Child
		case *TargetNode:
			y, ok := b.(*TargetNode)
			if !ok || !EqualConstraints(x.Constraints, y.Constraints) {
				return false
			}
			a, b = x.Child, y.Child
		case *TaskNode:
			y, ok := b.(*TaskNode)
			if !ok || !EqualConstraints(x.Constraints, y.Constraints) {
				return false
			}
			a, b = x.Child, y.Child
		case *MessageNode:
			y, ok := b.(*MessageNode)
			return ok && x.Axis == y.Axis
		case *WarningNode:
			y, ok := b.(*WarningNode)
			return ok && x.Axis == y.Axis
		case *ErrorNode:
			y, ok := b.(*ErrorNode)
			return ok && x.Axis == y.Axis
		default:
			return false
		}
	}
}

// EqualConstraints compares two constraint lists element-wise, in order.
func EqualConstraints(a, b []Constraint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalConstraint(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalConstraint(a, b Constraint) bool {
	switch x := a.(type) {
	case IDConstraint:
		y, ok := b.(IDConstraint)
		return ok && x.Value == y.Value
	default:
		return false
	}
}
