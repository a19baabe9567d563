package cfa

import "testing"

func byName(s *Scope, name string) *CFNode {
	for _, n := range s.Nodes {
		if n.Node.Name() == name {
			return n
		}
	}
	return nil
}

func TestComputeDomTreeDiamond(t *testing.T) {
	_, fn := buildDiamond(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	tree := ComputeDomTree(s, rpo)

	arm1 := byName(s, "arm1")
	arm2 := byName(s, "arm2")
	merge := byName(s, "merge")

	if tree.IDom(s.Entry) != nil {
		t.Fatalf("the function's own entry node's immediate dominator should be nil")
	}
	if tree.IDom(arm1) != s.Entry {
		t.Fatalf("arm1's immediate dominator should be the entry node")
	}
	if tree.IDom(arm2) != s.Entry {
		t.Fatalf("arm2's immediate dominator should be the entry node")
	}
	// merge is reached through both arms, so neither arm dominates it:
	// its immediate dominator is the arms' common dominator, the entry
	// node where the diamond branches.
	if tree.IDom(merge) != s.Entry {
		t.Fatalf("merge's immediate dominator should be the entry node (the diamond's branch point), got %v", tree.IDom(merge))
	}

	if !tree.Dominates(s.Entry, merge) {
		t.Fatalf("entry should dominate merge")
	}
	if tree.Dominates(arm1, merge) {
		t.Fatalf("arm1 should not dominate merge (arm2 reaches it too)")
	}
	if !tree.Dominates(s.Entry, s.Entry) {
		t.Fatalf("Dominates should be reflexive")
	}
}

func TestComputeDomTreeChildren(t *testing.T) {
	_, fn := buildDiamond(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	tree := ComputeDomTree(s, rpo)

	kids := tree.Children(s.Entry)
	if len(kids) != 3 {
		t.Fatalf("entry should dominate-tree-parent arm1, arm2, and merge directly; got %d children", len(kids))
	}
}

func TestComputeDomTreeLoopHeaderDominatesBody(t *testing.T) {
	_, fn := buildLoop(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	tree := ComputeDomTree(s, rpo)

	header := byName(s, "header")
	body := byName(s, "body")
	exit := byName(s, "exit")

	if tree.IDom(body) != header {
		t.Fatalf("loop body's immediate dominator should be header")
	}
	if tree.IDom(exit) != header {
		t.Fatalf("exit's immediate dominator should be header")
	}
	if !tree.Dominates(header, body) {
		t.Fatalf("header should dominate body")
	}
	if tree.Dominates(body, header) {
		t.Fatalf("body should not dominate header")
	}
}
