package cfa

import "testing"

func TestComputeRPOEntryIsFirst(t *testing.T) {
	_, fn := buildDiamond(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)

	if len(rpo) != len(s.Nodes) {
		t.Fatalf("RPO dropped reachable nodes: got %d, want %d", len(rpo), len(s.Nodes))
	}
	if rpo[0] != s.Entry {
		t.Fatalf("entry is not first in RPO order")
	}
	if rpo[0].RPOIndex() != 0 {
		t.Fatalf("entry's RPOIndex should be 0, got %d", rpo[0].RPOIndex())
	}
}

func TestComputeRPOOrdersPredecessorsBeforeSuccessors(t *testing.T) {
	_, fn := buildLoop(t)
	s := BuildScope(fn, nil)
	ComputeRPO(s)

	indexOf := func(n *CFNode) int { return n.RPOIndex() }

	header := byName(s, "header")
	body := byName(s, "body")
	exit := byName(s, "exit")

	if indexOf(s.Entry) >= indexOf(header) {
		t.Fatalf("the function's own entry node should precede header in RPO")
	}
	if indexOf(header) >= indexOf(body) {
		t.Fatalf("header should precede body in RPO")
	}
	if indexOf(header) >= indexOf(exit) {
		t.Fatalf("header should precede exit in RPO")
	}
}

func TestComputeRPOExcludesUnreachableNodes(t *testing.T) {
	// A Scope only ever contains nodes discovered by traversal from the
	// entry, so every node BuildScope produces is reachable by
	// construction; ComputeRPO should therefore assign every node a
	// non-negative index and never shrink the set.
	_, fn := buildDiamond(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	for _, n := range rpo {
		if n.RPOIndex() < 0 {
			t.Fatalf("node %q has unset RPOIndex after ComputeRPO", n.Node.Name())
		}
	}
}
