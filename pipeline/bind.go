package pipeline

import (
	"github.com/vkshade/shadyc/diag"
	"github.com/vkshade/shadyc/ir"
	"github.com/vkshade/shadyc/rewrite"
)

// bindProgram is spec.md §4.F's first stage: every Unbound identifier
// must resolve to a module-scope declaration before any later stage
// can run (no pass after this one is allowed to see TagUnbound).
// Unresolved names are a fatal KindBinding diagnostic, matching
// spec.md §7's "no recovery" policy.
//
// A name resolves to a Constant's value directly (the identifier
// stands for that value), or to a GlobalVariable's address as a
// Variable reference carrying the global's pointer type (later loads
// dereference it explicitly, matching how every other address in this
// IR is modeled).
func bindProgram(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	var bindErr error

	hooks := rewrite.Hooks{
		RewriteNode: func(rw *rewrite.Rewriter, n *ir.Node) (*ir.Node, bool) {
			if n.Tag != ir.TagUnbound {
				return nil, false
			}
			up := n.Payload.(ir.UnboundPayload)
			decl, ok := src.LookupByName(up.Name)
			if !ok {
				bindErr = diag.New(diag.KindBinding, diag.Position{}, up.Name, "unresolved identifier %q", up.Name)
				return rw.Dst.NewUnbound(up.Name), true
			}
			switch dp := decl.Payload.(type) {
			case *ir.ConstantPayload:
				return rw.Rewrite(dp.Value), true
			case *ir.GlobalVariablePayload:
				gv := rw.Rewrite(decl)
				gp := gv.Payload.(*ir.GlobalVariablePayload)
				return rw.Dst.NewVariable(up.Name, rw.Dst.NewQualified(ir.UniformityUniform, rw.Dst.NewPtr(gp.Space, gp.Type))), true
			default:
				bindErr = diag.New(diag.KindBinding, diag.Position{}, up.Name, "identifier %q does not resolve to a value", up.Name)
				return rw.Dst.NewUnbound(up.Name), true
			}
		},
	}

	dstArena, out, err := hookRewrite(src, prog, func(c *ir.Config) { c.NameBound = true }, hooks)
	if err != nil {
		return nil, nil, err
	}
	if bindErr != nil {
		return nil, nil, bindErr
	}
	return dstArena, out, nil
}
