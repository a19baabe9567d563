package cfa

import (
	"fmt"
	"io"
)

// DumpDOT renders a Scope as a Graphviz DOT digraph to w, one node per
// CFNode labeled with its abstraction's name (or, for unnamed nodes
// such as AnonymousLambdas, its tag and index in s.Nodes), edges
// labeled by EdgeKind. Supplements the
// distilled spec with shady's dump_cf_node/dump_cfg_scope/dump_cfg
// debugging aid.
func DumpDOT(w io.Writer, s *Scope) {
	fmt.Fprintln(w, "digraph Scope {")
	ids := make(map[*CFNode]int, len(s.Nodes))
	for i, n := range s.Nodes {
		ids[n] = i
		label := n.Node.Name()
		if label == "" {
			label = fmt.Sprintf("%s_%d", n.Node.Tag, i)
		}
		fmt.Fprintf(w, "  n%d [label=%q];\n", i, label)
	}
	for _, n := range s.Nodes {
		for _, e := range n.Succs {
			fmt.Fprintf(w, "  n%d -> n%d [label=%q];\n", ids[e.Src], ids[e.Dst], e.Kind.String())
		}
	}
	fmt.Fprintln(w, "}")
}
