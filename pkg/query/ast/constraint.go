package ast

import "strconv"

// Constraint is an attribute filter attached to a structural segment.
// IDConstraint is currently the only implementation.
type Constraint interface {
	// Key returns the canonical attribute name the constraint tests.
	Key() string

	constraint()
}

// IDConstraint requires the log node's ID attribute to equal Value.
type IDConstraint struct {
	Value uint64
}

// ID returns an IDConstraint for v.
func ID(v uint64) IDConstraint {
	return IDConstraint{Value: v}
}

// Key returns "id".
func (IDConstraint) Key() string { return "id" }

func (IDConstraint) constraint() {}

// String returns the constraint in source form, e.g. "Id=42".
func (c IDConstraint) String() string {
	return "Id=" + strconv.FormatUint(c.Value, 10)
}

// IDs returns the values of every IDConstraint in constraints, in order.
// Duplicates are kept; whether several IDs combine with AND or OR is up to
// the evaluator.
func IDs(constraints []Constraint) []uint64 {
	var ids []uint64
	for _, c := range constraints {
		if id, ok := c.(IDConstraint); ok {
			ids = append(ids, id.Value)
		}
	}
	return ids
}
