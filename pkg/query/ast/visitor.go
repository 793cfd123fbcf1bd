package ast

// Visitor provides an interface for traversing a query tree.
// Implement this interface to inspect or analyze parsed queries.
type Visitor interface {
	VisitProject(*ProjectNode) error
	VisitTarget(*TargetNode) error
	VisitTask(*TaskNode) error
	VisitLeaf(Node) error
	VisitConstraint(Constraint) error
}

// Walk traverses the tree from the root segment to the leaf and calls the
// visitor for each node and each of its constraints. It returns the first
// error encountered, or nil if traversal completes.
func Walk(root Node, visitor Visitor) error {
	for n := root; n != nil; n = ChildOf(n) {
		var err error
		switch n := n.(type) {
		case *ProjectNode:
			err = visitor.VisitProject(n)
		case *TargetNode:
			err = visitor.VisitTarget(n)
		case *TaskNode:
			err = visitor.VisitTask(n)
		case *MessageNode, *WarningNode, *ErrorNode:
			err = visitor.VisitLeaf(n)
		}
		if err != nil {
			return err
		}

		// Visit constraints of structural nodes
		for _, c := range ConstraintsOf(n) {
			if err := visitor.VisitConstraint(c); err != nil {
				return err
			}
		}
	}
	return nil
}
