package ast

// Node is a segment of a parsed path query.
//
// The set of implementations is closed: ProjectNode, TargetNode and TaskNode
// are structural nodes that may own a child and a constraint list;
// MessageNode, WarningNode and ErrorNode are terminal leaves that carry an
// Axis. Code that inspects a tree should switch on the concrete type.
type Node interface {
	// Kind returns the node kind (project, target, task, message, ...).
	Kind() Kind

	// Rank returns the nesting rank used to enforce segment ordering.
	Rank() Rank

	node()
}

// ProjectNode selects project nodes of the build log.
type ProjectNode struct {
	Child       Node         // Next segment, nil when the path ends here
	Constraints []Constraint // Attribute filters, in source order
}

// TargetNode selects target nodes of the build log.
type TargetNode struct {
	Child       Node         // Next segment, nil when the path ends here
	Constraints []Constraint // Attribute filters, in source order
}

// TaskNode selects task nodes of the build log.
type TaskNode struct {
	Child       Node         // Next segment, nil when the path ends here
	Constraints []Constraint // Attribute filters, in source order
}

// MessageNode selects message entries. It is always the last segment.
type MessageNode struct {
	Axis Axis
}

// WarningNode selects warning entries. It is always the last segment.
type WarningNode struct {
	Axis Axis
}

// ErrorNode selects error entries. It is always the last segment.
type ErrorNode struct {
	Axis Axis
}

func (*ProjectNode) Kind() Kind { return KindProject }
func (*TargetNode) Kind() Kind  { return KindTarget }
func (*TaskNode) Kind() Kind    { return KindTask }
func (*MessageNode) Kind() Kind { return KindMessage }
func (*WarningNode) Kind() Kind { return KindWarning }
func (*ErrorNode) Kind() Kind   { return KindError }

func (*ProjectNode) Rank() Rank { return RankProject }
func (*TargetNode) Rank() Rank  { return RankTarget }
func (*TaskNode) Rank() Rank    { return RankTask }
func (*MessageNode) Rank() Rank { return RankLeaf }
func (*WarningNode) Rank() Rank { return RankLeaf }
func (*ErrorNode) Rank() Rank   { return RankLeaf }

func (*ProjectNode) node() {}
func (*TargetNode) node()  {}
func (*TaskNode) node()    {}
func (*MessageNode) node() {}
func (*WarningNode) node() {}
func (*ErrorNode) node()   {}

// NewProject returns a project node owning child and constraints.
func NewProject(child Node, constraints ...Constraint) *ProjectNode {
	return &ProjectNode{Child: child, Constraints: constraints}
}

// NewTarget returns a target node owning child and constraints.
func NewTarget(child Node, constraints ...Constraint) *TargetNode {
	return &TargetNode{Child: child, Constraints: constraints}
}

// NewTask returns a task node owning child and constraints.
func NewTask(child Node, constraints ...Constraint) *TaskNode {
	return &TaskNode{Child: child, Constraints: constraints}
}

// NewMessage returns a message leaf with the given axis.
func NewMessage(axis Axis) *MessageNode {
	return &MessageNode{Axis: axis}
}

// NewWarning returns a warning leaf with the given axis.
func NewWarning(axis Axis) *WarningNode {
	return &WarningNode{Axis: axis}
}

// NewError returns an error leaf with the given axis.
func NewError(axis Axis) *ErrorNode {
	return &ErrorNode{Axis: axis}
}

// NewStructural builds the structural node of the given kind.
// It returns nil if kind is not structural.
func NewStructural(kind Kind, child Node, constraints []Constraint) Node {
	switch kind {
	case KindProject:
		return &ProjectNode{Child: child, Constraints: constraints}
	case KindTarget:
		return &TargetNode{Child: child, Constraints: constraints}
	case KindTask:
		return &TaskNode{Child: child, Constraints: constraints}
	default:
		return nil
	}
}

// NewLeaf builds the leaf node of the given kind.
// It returns nil if kind is not a leaf kind.
func NewLeaf(kind Kind, axis Axis) Node {
	switch kind {
	case KindMessage:
		return &MessageNode{Axis: axis}
	case KindWarning:
		return &WarningNode{Axis: axis}
	case KindError:
		return &ErrorNode{Axis: axis}
	default:
		return nil
	}
}

// ChildOf returns the child segment of a structural node.
// Leaves and nil have no child.
func ChildOf(n Node) Node {
	switch n := n.(type) {
	case *ProjectNode:
		return n.Child
	case *TargetNode:
		return n.Child
	case *TaskNode:
		return n.Child
	default:
		return nil
	}
}

// ConstraintsOf returns the constraint list of a structural node.
// Leaves and nil have no constraints.
func ConstraintsOf(n Node) []Constraint {
	switch n := n.(type) {
	case *ProjectNode:
		return n.Constraints
	case *TargetNode:
		return n.Constraints
	case *TaskNode:
		return n.Constraints
	default:
		return nil
	}
}

// AxisOf returns the axis of a leaf node. Structural nodes always match
// direct children only, so they report AxisDirect.
func AxisOf(n Node) Axis {
	switch n := n.(type) {
	case *MessageNode:
		return n.Axis
	case *WarningNode:
		return n.Axis
	case *ErrorNode:
		return n.Axis
	default:
		return AxisDirect
	}
}

// IsLeaf returns true if n is a message, warning or error node.
func IsLeaf(n Node) bool {
	switch n.(type) {
	case *MessageNode, *WarningNode, *ErrorNode:
		return true
	default:
		return false
	}
}

// Path returns the segments of the tree rooted at n, root first.
func Path(n Node) []Node {
	var segments []Node
	for ; n != nil; n = ChildOf(n) {
		segments = append(segments, n)
	}
	return segments
}

// Depth returns the number of segments in the tree rooted at n.
func Depth(n Node) int {
	depth := 0
	for ; n != nil; n = ChildOf(n) {
		depth++
	}
	return depth
}

// Leaf returns the terminal leaf of the tree rooted at n, or nil if the
// path ends on a structural node.
func Leaf(n Node) Node {
	for ; n != nil; n = ChildOf(n) {
		if IsLeaf(n) {
			return n
		}
	}
	return nil
}
