// Package typecheck implements spec.md §4.C: the rewrite from an
// untyped arena into a CheckTypes arena, attaching each node's
// resolved type and validating grammar well-formedness.
//
// Per spec.md §4.B, type attachment already happens at construction
// time inside package ir's NewXxx constructors whenever the
// destination arena has Config.CheckTypes set — that is what makes
// typing deterministic (spec.md §8 property 2) independent of which
// pass triggers construction. InferProgram's job is therefore the
// rewrite itself (source arena -> a freshly CheckTypes-enabled
// destination arena) plus the grammar-membership validation spec.md
// §4.B requires ("only values appear as operands, only instructions
// under Let, only terminators at block ends").
package typecheck

import (
	"github.com/vkshade/shadyc/diag"
	"github.com/vkshade/shadyc/ir"
	"github.com/vkshade/shadyc/rewrite"
)

// InferProgram rewrites root from src into a new arena whose Config
// equals src's but with CheckTypes forced on, then validates the
// result. It is pipeline stage 3 (`infer_program`, spec.md §4.F).
func InferProgram(src *ir.Arena, root *ir.Node) (*ir.Arena, *ir.Node, error) {
	cfg := src.Config
	cfg.CheckTypes = true
	dst := ir.NewArena(cfg)

	out := rewrite.RewriteRoot(src, dst, root, rewrite.Hooks{})

	if err := validate(out); err != nil {
		return nil, nil, err
	}
	return dst, out, nil
}

// validate walks every Function in root and checks the grammar and
// typing invariants spec.md §4.B names: PrimOp operands must be values,
// instructions only appear under a Let, terminators only at block
// ends (guaranteed by the IR's own type system here, so this mainly
// re-checks the things *.Type cannot statically express: that Store's
// target truly carries a pointer type, and that every value/
// instruction that is supposed to carry a type does).
func validate(root *ir.Node) error {
	rp, ok := root.Payload.(*ir.RootPayload)
	if !ok {
		return diag.New(diag.KindStructural, diag.Position{}, root.Tag.String(), "expected Root node")
	}
	for _, decl := range rp.Decls {
		if decl.Tag != ir.TagFunction {
			continue
		}
		if err := validateFunction(decl); err != nil {
			return err
		}
	}
	return nil
}

func validateFunction(fn *ir.Node) error {
	fp := fn.Payload.(*ir.FunctionPayload)
	if fp.Body == nil {
		return diag.New(diag.KindStructural, diag.Position{}, fp.Name, "function has no body")
	}
	if err := validateTerminator(fp.Name, fp.Body); err != nil {
		return err
	}
	for _, bb := range fp.BasicBlocks {
		bp := bb.Payload.(*ir.BasicBlockPayload)
		if bp.Body == nil {
			return diag.New(diag.KindStructural, diag.Position{}, bp.Name, "basic block has no body")
		}
		if err := validateTerminator(fp.Name, bp.Body); err != nil {
			return err
		}
	}
	return nil
}

func validateTerminator(ctx string, n *ir.Node) error {
	if !n.IsTerminator() {
		return diag.New(diag.KindStructural, diag.Position{}, ctx,
			"abstraction body must be a terminator, got %s", n.Tag)
	}
	if n.Tag == ir.TagLet {
		lp := n.Payload.(ir.LetPayload)
		if !lp.Instruction.IsInstruction() {
			return diag.New(diag.KindStructural, diag.Position{}, ctx,
				"Let binds a non-instruction node %s", lp.Instruction.Tag)
		}
		if err := validateInstruction(ctx, lp.Instruction); err != nil {
			return err
		}
		if lp.Tail != nil {
			return validateAbstractionBody(ctx, lp.Tail)
		}
	}
	return nil
}

func validateInstruction(ctx string, n *ir.Node) error {
	switch p := n.Payload.(type) {
	case ir.PrimOpPayload:
		for i, op := range p.Operands {
			if !op.IsValue() {
				return diag.New(diag.KindType, diag.Position{}, ctx,
					"PrimOp operand %d is not a value: %s", i, op.Tag)
			}
		}
		if op := p.Op; op == ir.OpLoad || op == ir.OpStore {
			if len(p.Operands) == 0 || p.Operands[0].Type == nil {
				return diag.New(diag.KindType, diag.Position{}, ctx, "%s target has no type", op)
			}
			inner, _ := ir.Unqualify(p.Operands[0].Type)
			if inner == nil || inner.Tag != ir.TagPtr {
				return diag.New(diag.KindType, diag.Position{}, ctx, "%s target is not a pointer", op)
			}
		}
	case ir.CallPayload:
		if p.Callee == nil || !p.Callee.IsFunction() {
			return diag.New(diag.KindType, diag.Position{}, ctx, "Call callee is not a Function")
		}
		for i, arg := range p.Args {
			if !arg.IsValue() {
				return diag.New(diag.KindType, diag.Position{}, ctx, "Call arg %d is not a value: %s", i, arg.Tag)
			}
		}
	}
	return nil
}

func validateAbstractionBody(ctx string, lam *ir.Node) error {
	if !lam.IsAbstraction() {
		return diag.New(diag.KindStructural, diag.Position{}, ctx, "Let tail is not an abstraction: %s", lam.Tag)
	}
	body := lam.Body()
	if body == nil {
		return diag.New(diag.KindStructural, diag.Position{}, ctx, "Let tail has no body")
	}
	return validateTerminator(ctx, body)
}

// Uniformity returns n's uniformity qualifier, reading it off n.Type
// (a value/instruction node always carries a Qualified type once
// CheckTypes is set; propagation itself happens inside the ir
// constructors' inferPrimOpType/binopResultType — see spec.md §4.C
// "Uniformity inference").
func Uniformity(n *ir.Node) ir.Uniformity {
	if n == nil || n.Type == nil {
		return ir.UniformityUnknown
	}
	_, q := ir.Unqualify(n.Type)
	return q
}

// TypeOf is a small convenience wrapper used by later lowering passes
// that need a value's unqualified type without caring about
// uniformity.
func TypeOf(n *ir.Node) *ir.Node {
	if n == nil || n.Type == nil {
		return nil
	}
	inner, _ := ir.Unqualify(n.Type)
	return inner
}
