// Package ast provides the Abstract Syntax Tree (AST) for logq path queries.
//
// A path query such as
//
//	/Project[Id=1]/Target[Id=2]/Task[Id=3]//Message
//
// is parsed into a chain of nodes, root first. Each segment owns at most one
// child, so a tree is really a path: Project -> Target -> Task -> Message.
//
// # Core Types
//
// Node: sealed interface implemented by the six segment types
//
// ProjectNode, TargetNode, TaskNode: structural segments with an optional
// Child and an ordered list of Constraints
//
// MessageNode, WarningNode, ErrorNode: terminal leaves carrying an Axis
//
// Constraint: sealed interface; IDConstraint is the only implementation
//
// Axis: AxisDirect ("/", immediate children) or AxisAll ("//", any depth)
//
// Rank: project < target < task < leaf; a child always ranks above its parent
//
// # Invariants
//
// Trees produced by the parser satisfy:
//   - every child ranks strictly higher than its parent, so each structural
//     kind appears at most once
//   - a leaf is always the last segment
//   - only leaves carry an axis; structural segments always match direct children
//   - "[]" and no brackets both produce an empty constraint list
//
// Trees are never mutated after construction and may be shared across
// goroutines without synchronization.
//
// # Evaluating a Tree
//
// Evaluation is not part of this package. An evaluator walks the log graph
// alongside the tree: a structural node requires the current log node to have
// the same kind and to satisfy its constraints, then the child segment is
// matched against the log node's direct children. A leaf matches direct
// children for AxisDirect and any descendant for AxisAll. Whether several
// IDConstraints on one node combine with AND or OR is the evaluator's choice.
//
// Use type switches, or the helpers ChildOf, ConstraintsOf and AxisOf:
//
//	for n := root; n != nil; n = ast.ChildOf(n) {
//	    fmt.Println(n.Kind(), ast.IDs(ast.ConstraintsOf(n)), ast.AxisOf(n))
//	}
//
// Compare trees with Equal, which is independent of node identity.
package ast
