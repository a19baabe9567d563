package cfa

import (
	"testing"

	"github.com/vkshade/shadyc/ir"
)

// buildDiamond builds a Function whose entry body branches into two
// arms that rejoin at a common merge block:
//
//	fn --cond--> arm1 --> merge
//	    \-- else--> arm2 --/
//
// The Function's own body is the branch terminator directly (the same
// convention ir/abstraction_test.go uses for a single-block function),
// so the Function's own CFNode serves as the Scope's entry — there is
// no separate "entry" BasicBlock.
func buildDiamond(t *testing.T) (*ir.Arena, *ir.Node) {
	t.Helper()
	a := ir.NewArena(ir.DefaultConfig())

	merge := a.NewBasicBlockHeader("merge", nil)
	a.SetBasicBlockBody(merge, a.NewReturn(nil))

	arm1 := a.NewBasicBlockHeader("arm1", nil)
	a.SetBasicBlockBody(arm1, a.NewJump(merge, nil))

	arm2 := a.NewBasicBlockHeader("arm2", nil)
	a.SetBasicBlockBody(arm2, a.NewJump(merge, nil))

	cond := a.NewIntLiteral(1)
	fn := a.NewFunctionHeader("diamond", nil, nil, true)
	a.SetFunctionBody(fn, []*ir.Node{arm1, arm2, merge}, a.NewBranch(cond, arm1, arm2, nil))
	return a, fn
}

// buildLoop builds a Function with a single natural loop:
//
//	fn -> header --cond--> body -> header (back edge)
//	             \-- else --> exit
func buildLoop(t *testing.T) (*ir.Arena, *ir.Node) {
	t.Helper()
	a := ir.NewArena(ir.DefaultConfig())

	exit := a.NewBasicBlockHeader("exit", nil)
	a.SetBasicBlockBody(exit, a.NewReturn(nil))

	header := a.NewBasicBlockHeader("header", nil)
	body := a.NewBasicBlockHeader("body", nil)
	a.SetBasicBlockBody(body, a.NewJump(header, nil))

	cond := a.NewIntLiteral(1)
	a.SetBasicBlockBody(header, a.NewBranch(cond, body, exit, nil))

	fn := a.NewFunctionHeader("loop", nil, nil, true)
	a.SetFunctionBody(fn, []*ir.Node{header, body, exit}, a.NewJump(header, nil))
	return a, fn
}

func TestBuildScopePanicsOnNonFunction(t *testing.T) {
	a := ir.NewArena(ir.DefaultConfig())
	bb := a.NewBasicBlockHeader("b", nil)
	a.SetBasicBlockBody(bb, a.NewReturn(nil))

	defer func() {
		if recover() == nil {
			t.Fatalf("BuildScope on a non-Function node did not panic")
		}
	}()
	BuildScope(bb, nil)
}

func TestBuildScopeDiamond(t *testing.T) {
	_, fn := buildDiamond(t)
	s := BuildScope(fn, nil)

	if len(s.Nodes) != 4 {
		t.Fatalf("want 4 nodes (entry, arm1, arm2, merge), got %d", len(s.Nodes))
	}

	entryCF, ok := s.Lookup(fn)
	if !ok || entryCF != s.Entry {
		t.Fatalf("Scope.Entry does not resolve to the Function's own CFNode")
	}
	if len(entryCF.Succs) != 2 {
		t.Fatalf("entry should have 2 successors, got %d", len(entryCF.Succs))
	}
	for _, e := range entryCF.Succs {
		if e.Kind != ForwardEdge {
			t.Fatalf("branch edges should be ForwardEdge, got %s", e.Kind)
		}
	}

	mergeNode, ok := s.Lookup(mergeBlockOf(t, fn))
	if !ok {
		t.Fatalf("merge block missing from scope")
	}
	if len(mergeNode.Preds) != 2 {
		t.Fatalf("merge block should have 2 preds, got %d", len(mergeNode.Preds))
	}
}

// mergeBlockOf recovers the diamond's merge block by name for lookup
// purposes, since the fixture builders don't return intermediate nodes.
func mergeBlockOf(t *testing.T, fn *ir.Node) *ir.Node {
	t.Helper()
	fp, ok := fn.Payload.(*ir.FunctionPayload)
	if !ok {
		t.Fatalf("fn is not a Function")
	}
	for _, bb := range fp.BasicBlocks {
		if bb.Name() == "merge" {
			return bb
		}
	}
	t.Fatalf("no block named merge in function")
	return nil
}

func TestBuildScopeWithLoopTreeFiltersToLoopMembers(t *testing.T) {
	_, fn := buildLoop(t)
	full := BuildScope(fn, nil)
	rpo := ComputeRPO(full)
	tree := ComputeDomTree(full, rpo)
	lt := ComputeLoopTree(tree, rpo)

	header := byName(full, "header")
	exit := byName(full, "exit")

	sub := BuildScope(header.Node, lt)

	if sub.Entry.Node != header.Node {
		t.Fatalf("filtered sub-scope's entry should be the loop header")
	}
	if _, ok := sub.Lookup(exit.Node); ok {
		t.Fatalf("filtered sub-scope should not contain exit, which is outside the loop")
	}
	bodyCF := byName(full, "body")
	if _, ok := sub.Lookup(bodyCF.Node); !ok {
		t.Fatalf("filtered sub-scope should contain body, a loop member")
	}

	for _, e := range sub.Entry.Preds {
		if e.Src.Node == bodyCF.Node {
			t.Fatalf("the back edge into the loop header should be pruned, not re-added")
		}
	}
}

func TestBuildScopeWithLoopTreeRequiresALoopHeader(t *testing.T) {
	_, fn := buildLoop(t)
	full := BuildScope(fn, nil)
	rpo := ComputeRPO(full)
	tree := ComputeDomTree(full, rpo)
	lt := ComputeLoopTree(tree, rpo)

	exit := byName(full, "exit")

	defer func() {
		if recover() == nil {
			t.Fatalf("BuildScope with a non-header fn and a LoopTree should panic")
		}
	}()
	BuildScope(exit.Node, lt)
}

func TestEdgeKindIsStructural(t *testing.T) {
	if ForwardEdge.IsStructural() {
		t.Fatalf("ForwardEdge should not be structural")
	}
	for _, k := range []EdgeKind{IfBodyEdge, MatchBodyEdge, LoopBodyEdge, ControlBodyEdge, BlockBodyEdge, LetTailEdge} {
		if !k.IsStructural() {
			t.Fatalf("%s should be structural", k)
		}
	}
}
