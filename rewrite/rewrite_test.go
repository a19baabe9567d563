package rewrite

import (
	"testing"

	"github.com/vkshade/shadyc/ir"
)

func TestIdentityRewritePreservesStructure(t *testing.T) {
	src := ir.NewArena(ir.DefaultConfig())
	one := src.NewIntLiteral(1)
	two := src.NewIntLiteral(2)
	sum := src.NewPrimOp(ir.OpAdd, []*ir.Node{one, two}, nil)
	ret := src.NewReturn([]*ir.Node{sum})

	fn := src.NewFunctionHeader("main", nil, []*ir.Node{src.NewQualified(ir.UniformityUnknown, src.NewInt())}, true)
	src.SetFunctionBody(fn, nil, ret)
	root := src.NewRoot([]*ir.Node{fn})

	dst := ir.NewArena(ir.DefaultConfig())
	out := RewriteRoot(src, dst, root, Hooks{})

	if out == nil || out.Tag != ir.TagRoot {
		t.Fatalf("RewriteRoot returned %v, want a Root node", out)
	}

	rp := out.Payload.(*ir.RootPayload)
	if len(rp.Decls) != 1 || rp.Decls[0].Name() != "main" {
		t.Fatalf("rewritten root decls = %v, want one Function named main", rp.Decls)
	}

	gotFn := rp.Decls[0]
	body := gotFn.Body()
	if body == nil || body.Tag != ir.TagReturn {
		t.Fatalf("rewritten function body = %v, want a Return terminator", body)
	}
	rpay := body.Payload.(ir.ReturnPayload)
	if len(rpay.Args) != 1 || rpay.Args[0].Tag != ir.TagPrimOp {
		t.Fatalf("rewritten return args = %v, want one PrimOp", rpay.Args)
	}

	// The rewritten 1 and 2 literals must still be distinct, canonical
	// nodes in the destination arena (structural sharing preserved
	// across the rewrite).
	one2 := dst.NewIntLiteral(1)
	two2 := dst.NewIntLiteral(2)
	primop := rpay.Args[0].Payload.(ir.PrimOpPayload)
	if primop.Operands[0] != one2 {
		t.Fatalf("rewritten literal 1 is not hash-consed with a freshly constructed 1 in dst")
	}
	if primop.Operands[1] != two2 {
		t.Fatalf("rewritten literal 2 is not hash-consed with a freshly constructed 2 in dst")
	}
}

func TestHookInterceptsSpecificTag(t *testing.T) {
	src := ir.NewArena(ir.DefaultConfig())
	lit := src.NewIntLiteral(41)
	ret := src.NewReturn([]*ir.Node{lit})
	fn := src.NewFunctionHeader("f", nil, nil, false)
	src.SetFunctionBody(fn, nil, ret)
	root := src.NewRoot([]*ir.Node{fn})

	dst := ir.NewArena(ir.DefaultConfig())
	hooks := Hooks{
		RewriteNode: func(rw *Rewriter, n *ir.Node) (*ir.Node, bool) {
			if n.Tag == ir.TagIntLiteral {
				p := n.Payload.(ir.IntLiteralPayload)
				return dst.NewIntLiteral(p.Value + 1), true
			}
			return nil, false
		},
	}
	out := RewriteRoot(src, dst, root, hooks)
	rp := out.Payload.(*ir.RootPayload)
	body := rp.Decls[0].Body()
	rpay := body.Payload.(ir.ReturnPayload)
	got := rpay.Args[0].Payload.(ir.IntLiteralPayload).Value
	if got != 42 {
		t.Fatalf("hooked literal = %d, want 42", got)
	}
}

// TestSelfReferentialAbstractionDoesNotInfinitelyRecurse exercises the
// two-phase header/body protocol: a loop body that jumps back to its
// own basic block must not send RewriteAbstraction into infinite
// recursion (spec.md §9's "header-first, body-later" requirement).
func TestSelfReferentialAbstractionDoesNotInfinitelyRecurse(t *testing.T) {
	src := ir.NewArena(ir.DefaultConfig())
	bbHeader := src.NewBasicBlockHeader("loop_header", nil)
	jumpToSelf := src.NewJump(bbHeader, nil)
	src.SetBasicBlockBody(bbHeader, jumpToSelf)

	entryJump := src.NewJump(bbHeader, nil)
	fn := src.NewFunctionHeader("loopy", nil, nil, false)
	src.SetFunctionBody(fn, []*ir.Node{bbHeader}, entryJump)
	root := src.NewRoot([]*ir.Node{fn})

	dst := ir.NewArena(ir.DefaultConfig())
	out := RewriteRoot(src, dst, root, Hooks{})

	rp := out.Payload.(*ir.RootPayload)
	gotFn := rp.Decls[0]
	fp := gotFn.Payload.(*ir.FunctionPayload)
	if len(fp.BasicBlocks) != 1 {
		t.Fatalf("rewritten function has %d basic blocks, want 1", len(fp.BasicBlocks))
	}
	bb := fp.BasicBlocks[0]
	bbBody := bb.Body().Payload.(ir.JumpPayload)
	if bbBody.Target != bb {
		t.Fatalf("rewritten self-jump target = %v, want the basic block itself", bbBody.Target)
	}
}
