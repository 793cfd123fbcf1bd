package main

import (
	"fmt"
	"strings"

	"github.com/binlog-hq/logq/pkg/query/ast"
)

// segmentView is the printable form of one path segment.
type segmentView struct {
	Kind string   `json:"kind" yaml:"kind"`
	Axis string   `json:"axis,omitempty" yaml:"axis,omitempty"`
	IDs  []uint64 `json:"ids,omitempty" yaml:"ids,omitempty"`
}

// pathView is the printable form of a parsed expression.
type pathView struct {
	Name       string        `json:"name,omitempty" yaml:"name,omitempty"`
	Source     string        `json:"source,omitempty" yaml:"source,omitempty"`
	Expression string        `json:"expression" yaml:"expression"`
	Depth      int           `json:"depth" yaml:"depth"`
	Segments   []segmentView `json:"segments" yaml:"segments"`
}

func newPathView(expression string, root ast.Node) pathView {
	v := pathView{Expression: expression, Depth: ast.Depth(root)}
	for _, n := range ast.Path(root) {
		seg := segmentView{Kind: n.Kind().String()}
		if ast.IsLeaf(n) {
			seg.Axis = ast.AxisOf(n).String()
		} else {
			seg.IDs = ast.IDs(ast.ConstraintsOf(n))
		}
		v.Segments = append(v.Segments, seg)
	}
	return v
}

// String renders the tree as an indented outline, one segment per line.
func (v pathView) String() string {
	var b strings.Builder
	if v.Name != "" {
		fmt.Fprintf(&b, "%s (%s)\n", v.Name, v.Source)
	}
	b.WriteString(v.Expression)
	for i, seg := range v.Segments {
		b.WriteString("\n")
		b.WriteString(strings.Repeat("  ", i+1))
		b.WriteString(seg.Kind)
		if seg.Axis != "" {
			fmt.Fprintf(&b, " axis=%s", seg.Axis)
		}
		if len(seg.IDs) > 0 {
			ids := make([]string, len(seg.IDs))
			for j, id := range seg.IDs {
				ids[j] = fmt.Sprint(id)
			}
			fmt.Fprintf(&b, " ids=%s", strings.Join(ids, ","))
		}
	}
	return b.String()
}
