package cfa

import "testing"

func TestDominanceFrontierDiamond(t *testing.T) {
	_, fn := buildDiamond(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	tree := ComputeDomTree(s, rpo)
	df := DominanceFrontier(tree, rpo)

	arm1 := byName(s, "arm1")
	arm2 := byName(s, "arm2")
	merge := byName(s, "merge")

	assertContains := func(node *CFNode, want *CFNode) {
		for _, n := range df[node] {
			if n == want {
				return
			}
		}
		t.Fatalf("dominance frontier of %q should contain %q", node.Node.Name(), want.Node.Name())
	}
	assertContains(arm1, merge)
	assertContains(arm2, merge)

	if _, ok := df[s.Entry]; ok {
		t.Fatalf("the function's own entry node dominates merge outright, so it should have an empty dominance frontier")
	}
}

func TestDominanceFrontierLoopBodyContainsHeader(t *testing.T) {
	_, fn := buildLoop(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	tree := ComputeDomTree(s, rpo)
	df := DominanceFrontier(tree, rpo)

	header := byName(s, "header")
	body := byName(s, "body")

	found := false
	for _, n := range df[body] {
		if n == header {
			found = true
		}
	}
	if !found {
		t.Fatalf("loop body's dominance frontier should contain the header (the back edge target)")
	}
}
