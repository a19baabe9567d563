package cfa

import (
	"testing"

	"github.com/vkshade/shadyc/ir"
)

func newArenaForPostdomTest(t *testing.T) *ir.Arena {
	t.Helper()
	return ir.NewArena(ir.DefaultConfig())
}

func TestComputePostDomTreeDiamond(t *testing.T) {
	_, fn := buildDiamond(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	tree := ComputePostDomTree(s, rpo)

	arm1 := byName(s, "arm1")
	arm2 := byName(s, "arm2")
	merge := byName(s, "merge")

	if tree.IDom(arm1) != merge {
		t.Fatalf("arm1 should be post-dominated immediately by merge")
	}
	if tree.IDom(arm2) != merge {
		t.Fatalf("arm2 should be post-dominated immediately by merge")
	}
	if !tree.Dominates(merge, s.Entry) {
		t.Fatalf("merge should post-dominate the entry node, since every path out of it reaches merge")
	}
}

func TestComputePostDomTreeSingleSinkBecomesEntry(t *testing.T) {
	// buildLoop's only sink is exit, so exit should become the
	// post-dominator tree's root with no immediate post-dominator.
	_, fn := buildLoop(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	tree := ComputePostDomTree(s, rpo)

	exit := byName(s, "exit")
	if tree.IDom(exit) != nil {
		t.Fatalf("sole sink should be the post-dom tree root with a nil immediate post-dominator")
	}
	header := byName(s, "header")
	if !tree.Dominates(exit, header) {
		t.Fatalf("exit should post-dominate header, since the loop's only way out passes through it")
	}
}

func TestComputePostDomTreeTwoSinksGetSyntheticEntry(t *testing.T) {
	// Build a scope with two distinct sinks by branching straight to
	// two separate Return blocks instead of a shared merge.
	a := newArenaForPostdomTest(t)
	retA := a.NewBasicBlockHeader("retA", nil)
	a.SetBasicBlockBody(retA, a.NewReturn(nil))
	retB := a.NewBasicBlockHeader("retB", nil)
	a.SetBasicBlockBody(retB, a.NewReturn(nil))

	cond := a.NewIntLiteral(1)
	fn := a.NewFunctionHeader("twosinks", nil, nil, true)
	a.SetFunctionBody(fn, []*ir.Node{retA, retB}, a.NewBranch(cond, retA, retB, nil))

	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	tree := ComputePostDomTree(s, rpo)

	retACF := byName(s, "retA")
	retBCF := byName(s, "retB")

	// Neither sink post-dominates the entry node, since the other path
	// skips it.
	if tree.Dominates(retACF, s.Entry) {
		t.Fatalf("retA should not post-dominate entry when retB is also reachable")
	}
	if tree.Dominates(retBCF, s.Entry) {
		t.Fatalf("retB should not post-dominate entry when retA is also reachable")
	}
}
