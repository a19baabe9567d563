package cfa

import (
	"testing"

	"github.com/vkshade/shadyc/ir"
)

func TestComputeLoopTreeSingleLoop(t *testing.T) {
	_, fn := buildLoop(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	tree := ComputeDomTree(s, rpo)
	lt := ComputeLoopTree(tree, rpo)

	header := byName(s, "header")
	body := byName(s, "body")
	exit := byName(s, "exit")

	ln, ok := lt.ByHeader[header]
	if !ok {
		t.Fatalf("expected a loop headed by header")
	}
	if len(lt.Roots) != 1 || lt.Roots[0] != ln {
		t.Fatalf("the single loop should be the tree's only root")
	}
	if !ln.Members[header] || !ln.Members[body] {
		t.Fatalf("loop should contain both header and body")
	}
	if ln.Members[s.Entry] || ln.Members[exit] {
		t.Fatalf("loop should not contain the function's entry node or exit")
	}
	if lt.LoopFor(body) != ln {
		t.Fatalf("LoopFor(body) should resolve to the header's loop")
	}
	if lt.LoopFor(s.Entry) != nil {
		t.Fatalf("LoopFor(entry) should be nil, entry is outside any loop")
	}
}

func TestComputeLoopTreeDiamondHasNoLoops(t *testing.T) {
	_, fn := buildDiamond(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	tree := ComputeDomTree(s, rpo)
	lt := ComputeLoopTree(tree, rpo)

	if len(lt.Roots) != 0 || len(lt.ByHeader) != 0 {
		t.Fatalf("an acyclic diamond should have no natural loops")
	}
}

// buildNestedLoop builds an outer loop whose body contains a nested
// two-block loop:
//
//	fn -> outerHeader --cond--> innerHeader --cond--> innerBody -> innerHeader (inner back edge)
//	                 \                             \-- else --> outerHeader (outer back edge)
//	                  \-- else --> exit
func buildNestedLoop(t *testing.T) (*ir.Arena, *ir.Node) {
	t.Helper()
	a := ir.NewArena(ir.DefaultConfig())

	exit := a.NewBasicBlockHeader("exit", nil)
	a.SetBasicBlockBody(exit, a.NewReturn(nil))

	outerHeader := a.NewBasicBlockHeader("outerHeader", nil)
	innerHeader := a.NewBasicBlockHeader("innerHeader", nil)
	innerBody := a.NewBasicBlockHeader("innerBody", nil)
	a.SetBasicBlockBody(innerBody, a.NewJump(innerHeader, nil))

	condInner := a.NewIntLiteral(1)
	a.SetBasicBlockBody(innerHeader, a.NewBranch(condInner, innerBody, outerHeader, nil))

	condOuter := a.NewIntLiteral(1)
	a.SetBasicBlockBody(outerHeader, a.NewBranch(condOuter, innerHeader, exit, nil))

	fn := a.NewFunctionHeader("nested", nil, nil, true)
	a.SetFunctionBody(fn, []*ir.Node{outerHeader, innerHeader, innerBody, exit}, a.NewJump(outerHeader, nil))
	return a, fn
}

func TestComputeLoopTreeNesting(t *testing.T) {
	_, fn := buildNestedLoop(t)
	s := BuildScope(fn, nil)
	rpo := ComputeRPO(s)
	tree := ComputeDomTree(s, rpo)
	lt := ComputeLoopTree(tree, rpo)

	outerHeader := byName(s, "outerHeader")
	innerHeader := byName(s, "innerHeader")
	innerBody := byName(s, "innerBody")

	outer, ok := lt.ByHeader[outerHeader]
	if !ok {
		t.Fatalf("expected a loop headed by outerHeader")
	}
	inner, ok := lt.ByHeader[innerHeader]
	if !ok {
		t.Fatalf("expected a loop headed by innerHeader")
	}

	if inner.Parent != outer {
		t.Fatalf("inner loop's parent should be the outer loop")
	}
	found := false
	for _, c := range outer.Children {
		if c == inner {
			found = true
		}
	}
	if !found {
		t.Fatalf("outer loop's children should include the inner loop")
	}
	if len(lt.Roots) != 1 || lt.Roots[0] != outer {
		t.Fatalf("only the outer loop should be a root")
	}
	if lt.LoopFor(innerBody) != inner {
		t.Fatalf("LoopFor(innerBody) should resolve to the innermost loop")
	}
	if !outer.Members[innerHeader] || !outer.Members[innerBody] {
		t.Fatalf("outer loop should contain every inner loop member too")
	}
}
