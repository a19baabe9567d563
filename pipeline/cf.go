package pipeline

import (
	"github.com/vkshade/shadyc/cfa"
	"github.com/vkshade/shadyc/diag"
	"github.com/vkshade/shadyc/ir"
	"github.com/vkshade/shadyc/rewrite"
)

// optInlineJumps collapses chains of trivial jumps: a Jump whose
// target BasicBlock takes no parameters and whose own body is in turn
// an unconditional Jump is rewritten straight to the chain's end,
// mirroring shady's opt_inline_jumps (spec.md §4.F runs this twice:
// once right after normalize_builtins, once after the lowering
// passes that introduce fresh jump chains of their own).
func optInlineJumps(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	hooks := rewrite.Hooks{
		RewriteNode: func(rw *rewrite.Rewriter, n *ir.Node) (*ir.Node, bool) {
			if n.Tag != ir.TagJump {
				return nil, false
			}
			jp := n.Payload.(ir.JumpPayload)
			target, args := chaseTrivialJumpChain(jp.Target, jp.Args)
			return rw.Dst.NewJump(rw.Rewrite(target), rw.RewriteList(args)), true
		},
	}
	return hookRewrite(src, prog, nil, hooks)
}

// chaseTrivialJumpChain follows target as long as it is a
// zero-parameter BasicBlock whose body is itself an unconditional
// Jump with no forwarded arguments, returning the final target and
// the original args (which only ever applied to the first hop, since
// every intermediate hop takes no parameters).
func chaseTrivialJumpChain(target *ir.Node, args ir.NodeList) (*ir.Node, ir.NodeList) {
	seen := map[*ir.Node]bool{}
	for target.IsBasicBlock() && !seen[target] {
		seen[target] = true
		bp := target.Payload.(*ir.BasicBlockPayload)
		if len(bp.Params) != 0 || bp.Body == nil {
			break
		}
		jp, ok := bp.Body.Payload.(ir.JumpPayload)
		if !ok || len(jp.Args) != 0 {
			break
		}
		target = jp.Target
	}
	return target, args
}

// lcssa is spec.md §4.F's loop-closed-SSA stage. This IR's Loop
// instruction already forces every value that escapes the loop body
// to flow out through an explicit MergeBreak argument matched against
// LoopPayload.YieldTypes — the grammar itself enforces the LCSSA
// discipline C-style SSA needs a dedicated pass for, so there is no
// additional rewrite to perform here; the stage exists so the pipeline
// still has a clearly named point where a target that modeled loop
// exits less strictly would plug in its LCSSA construction.
func lcssa(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}

// reconvergenceHeuristics validates spec.md's uniqueness invariant —
// every AnonymousLambda has at most one predecessor in its Function's
// Scope — across every Function in the program, then passes the
// program through unchanged. A violation is a fatal KindStructural
// diagnostic: it means an earlier pass duplicated a continuation
// instead of re-deriving it, and shady's own reconvergence heuristics
// exist precisely to choose which predecessor should own a lambda
// before this invariant would otherwise be violated by later
// restructuring passes.
func reconvergenceHeuristics(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	rp, ok := prog.Payload.(*ir.RootPayload)
	if !ok {
		return nil, nil, diag.New(diag.KindStructural, diag.Position{}, "", "reconvergence_heuristics: expected Root node")
	}
	for _, decl := range rp.Decls {
		if !decl.IsFunction() {
			continue
		}
		scope := cfa.BuildScope(decl, nil)
		for _, node := range scope.Nodes {
			if node.Node.IsAnonymousLambda() && len(node.Preds) > 1 {
				return nil, nil, diag.New(diag.KindStructural, diag.Position{}, decl.Name(),
					"anonymous lambda has %d predecessors, want at most 1", len(node.Preds))
			}
		}
	}
	return identityRewrite(src, prog, nil)
}

// lowerCFInstrs would ordinarily flatten structured If/Match/Loop/
// Control/Block instructions into raw basic-block branches ahead of a
// target that only understands unstructured control flow. The SPIR-V
// target this pipeline feeds (package spirv) emits structured
// instructions by recursive descent over their own bodies, producing
// OpSelectionMerge/OpLoopMerge straight from If/Loop nodes, so there is nothing here to
// flatten — this stage is the documented no-op that keeps the stage
// name and its position in spec.md §4.F's order available to a future
// target that does need flattening.
func lowerCFInstrs(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}
