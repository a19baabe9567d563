package pipeline

import (
	"strconv"

	"github.com/vkshade/shadyc/ir"
	"github.com/vkshade/shadyc/rewrite"
)

// normalize is spec.md §4.F's second stage: it resolves every
// UntypedNumber literal to a concrete IntLiteral (the surface grammar
// has no separate float-literal token, so "untyped" here only ever
// means "not yet known to be consumed by an Int or Bool context"), and
// constant-folds PrimOps whose operands are all literals. AllowFold is
// raised on the destination arena so later stages may keep folding
// opportunistically at construction time.
func normalize(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	hooks := rewrite.Hooks{
		RewriteNode: func(rw *rewrite.Rewriter, n *ir.Node) (*ir.Node, bool) {
			switch n.Tag {
			case ir.TagUntypedNumber:
				up := n.Payload.(ir.UntypedNumberPayload)
				v, err := strconv.ParseInt(up.Text, 10, 64)
				if err != nil {
					return nil, false
				}
				return rw.Dst.NewIntLiteral(v), true

			case ir.TagPrimOp:
				pp := n.Payload.(ir.PrimOpPayload)
				operands := rw.RewriteList(pp.Operands)
				if folded, ok := foldPrimOp(rw.Dst, pp.Op, operands); ok {
					return folded, true
				}
				return rw.Dst.NewPrimOp(pp.Op, operands, rw.Rewrite(pp.TypeArg)), true
			}
			return nil, false
		},
	}
	return hookRewrite(src, prog, func(c *ir.Config) { c.AllowFold = true }, hooks)
}

func foldPrimOp(a *ir.Arena, op ir.PrimOpKind, operands []*ir.Node) (*ir.Node, bool) {
	vals := make([]int64, len(operands))
	for i, o := range operands {
		lp, ok := o.Payload.(ir.IntLiteralPayload)
		if !ok {
			return nil, false
		}
		vals[i] = lp.Value
	}
	boolAsInt := func(b bool) int64 {
		if b {
			return 1
		}
		return 0
	}
	switch op {
	case ir.OpAdd:
		return a.NewIntLiteral(vals[0] + vals[1]), true
	case ir.OpSub:
		return a.NewIntLiteral(vals[0] - vals[1]), true
	case ir.OpMul:
		return a.NewIntLiteral(vals[0] * vals[1]), true
	case ir.OpDiv:
		if vals[1] == 0 {
			return nil, false
		}
		return a.NewIntLiteral(vals[0] / vals[1]), true
	case ir.OpMod:
		if vals[1] == 0 {
			return nil, false
		}
		return a.NewIntLiteral(vals[0] % vals[1]), true
	case ir.OpLt:
		return a.NewIntLiteral(boolAsInt(vals[0] < vals[1])), true
	case ir.OpLte:
		return a.NewIntLiteral(boolAsInt(vals[0] <= vals[1])), true
	case ir.OpGt:
		return a.NewIntLiteral(boolAsInt(vals[0] > vals[1])), true
	case ir.OpGte:
		return a.NewIntLiteral(boolAsInt(vals[0] >= vals[1])), true
	case ir.OpEq:
		return a.NewIntLiteral(boolAsInt(vals[0] == vals[1])), true
	case ir.OpNeq:
		return a.NewIntLiteral(boolAsInt(vals[0] != vals[1])), true
	case ir.OpAnd:
		return a.NewIntLiteral(vals[0] & vals[1]), true
	case ir.OpOr:
		return a.NewIntLiteral(vals[0] | vals[1]), true
	case ir.OpXor:
		return a.NewIntLiteral(vals[0] ^ vals[1]), true
	}
	return nil, false
}

// knownBuiltins is the canonical type each recognized builtin
// GlobalVariable must carry (spec.md's ValidateBuiltinTypes gate).
// Everything here models compute-shader thread identification, the
// one builtin family spec.md's examples exercise.
var knownBuiltins = map[string]func(a *ir.Arena) *ir.Node{
	"GlobalInvocationId": func(a *ir.Arena) *ir.Node { return a.NewInt() },
	"LocalInvocationId":  func(a *ir.Arena) *ir.Node { return a.NewInt() },
	"WorkgroupId":        func(a *ir.Arena) *ir.Node { return a.NewInt() },
	"SubgroupId":         func(a *ir.Arena) *ir.Node { return a.NewInt() },
	"SubgroupInvocationId": func(a *ir.Arena) *ir.Node { return a.NewInt() },
	"SubgroupSize":       func(a *ir.Arena) *ir.Node { return a.NewInt() },
}

// normalizeBuiltins is spec.md §4.F's normalize_builtins stage:
// GlobalVariables whose Builtin field names a recognized builtin are
// rewritten to carry that builtin's canonical pointee type, and the
// destination arena asserts ValidateBuiltinTypes from then on.
func normalizeBuiltins(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	hooks := rewrite.Hooks{
		RewriteNode: func(rw *rewrite.Rewriter, n *ir.Node) (*ir.Node, bool) {
			if n.Tag != ir.TagGlobalVariable {
				return nil, false
			}
			gp := n.Payload.(*ir.GlobalVariablePayload)
			mk, ok := knownBuiltins[gp.Builtin]
			if !ok {
				return nil, false
			}
			return rw.Dst.NewGlobalVariable(gp.Name, gp.Space, mk(rw.Dst), gp.Builtin, rw.Rewrite(gp.Init)), true
		},
	}
	return hookRewrite(src, prog, func(c *ir.Config) { c.ValidateBuiltinTypes = true }, hooks)
}
