package pipeline

import (
	"github.com/vkshade/shadyc/ir"
)

// simt2d would rewrite implicit per-invocation (SIMT) parallelism into
// explicit per-subgroup SIMD vector operations — a real vectorizing
// transform whose individual rewrite rules spec.md's Non-goals place
// out of scope (no explicit SIMD vector PrimOp or type exists in this
// grammar to vectorize into). Gated by Config.Lower.SIMTToExplicitSIMD,
// it marks the arena's dialect as no-longer-SIMT so a later stage
// could tell the two representations apart, and otherwise passes the
// program through unchanged.
func simt2d(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, func(c *ir.Config) { c.IsSIMT = false })
}

// specializeForEntryPoint keeps exactly the named entry point Function
// and its transitive call closure, dropping every other Function from
// Root.Decls — the one concrete form of dead-code elimination spec.md
// §6's specialization config calls for. Global variables and
// constants are left untouched: a dropped function may still have
// been the only reader of one, but pruning those requires full
// liveness over declarations this stage does not attempt.
func specializeForEntryPoint(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	dst, out, err := identityRewrite(src, prog, nil)
	if err != nil {
		return nil, nil, err
	}
	rp := out.Payload.(*ir.RootPayload)

	byName := map[string]*ir.Node{}
	for _, d := range rp.Decls {
		if d.IsFunction() {
			byName[d.Name()] = d
		}
	}
	entry, ok := byName[cfg.Specialization.EntryPoint]
	if !ok {
		return dst, out, nil // nothing named that; leave the module untouched
	}

	keep := map[*ir.Node]bool{}
	collectCallees(entry, keep, map[*ir.Node]bool{})

	var decls ir.NodeList
	for _, d := range rp.Decls {
		if !d.IsFunction() || keep[d] {
			decls = append(decls, d)
		}
	}
	return dst, dst.NewRoot(decls), nil
}

func collectCallees(fn *ir.Node, keep map[*ir.Node]bool, visited map[*ir.Node]bool) {
	if keep[fn] {
		return
	}
	keep[fn] = true
	walkBodyForCallees(fn.Body(), keep, visited)
	if fp, ok := fn.Payload.(*ir.FunctionPayload); ok {
		for _, bb := range fp.BasicBlocks {
			walkBodyForCallees(bb.Body(), keep, visited)
		}
	}
}

func walkBodyForCallees(n *ir.Node, keep map[*ir.Node]bool, visited map[*ir.Node]bool) {
	if n == nil || visited[n] {
		return
	}
	visited[n] = true
	switch p := n.Payload.(type) {
	case ir.LetPayload:
		walkInstrForCallees(p.Instruction, keep, visited)
		walkBodyForCallees(p.Tail.Body(), keep, visited)
	case ir.TailCallPayload:
		if p.Callee != nil && p.Callee.IsFunction() {
			collectCallees(p.Callee, keep, visited)
		}
	}
}

func walkInstrForCallees(n *ir.Node, keep map[*ir.Node]bool, visited map[*ir.Node]bool) {
	switch p := n.Payload.(type) {
	case ir.CallPayload:
		if p.Callee != nil && p.Callee.IsFunction() {
			collectCallees(p.Callee, keep, visited)
		}
	case ir.IfPayload:
		walkBodyForCallees(p.True.Body(), keep, visited)
		walkBodyForCallees(p.False.Body(), keep, visited)
	case ir.MatchPayload:
		for _, c := range p.Cases {
			walkBodyForCallees(c.Body.Body(), keep, visited)
		}
		walkBodyForCallees(p.Default.Body(), keep, visited)
	case ir.LoopPayload:
		walkBodyForCallees(p.Body.Body(), keep, visited)
	case ir.ControlPayload:
		walkBodyForCallees(p.Inside.Body(), keep, visited)
	case ir.BlockPayload:
		walkBodyForCallees(p.Inside.Body(), keep, visited)
	}
}

// lowerFill materializes an explicit zero Init (IntLiteral 0 or False)
// for every Int- or Bool-typed GlobalVariable declared without an
// initializer. Globals of any other type keep a nil Init, which
// spirv.Emit emits as an OpVariable with no initializer.
func lowerFill(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	dst, out, err := identityRewrite(src, prog, nil)
	if err != nil {
		return nil, nil, err
	}
	rp := out.Payload.(*ir.RootPayload)
	for _, d := range rp.Decls {
		if d.Tag != ir.TagGlobalVariable {
			continue
		}
		gp := d.Payload.(*ir.GlobalVariablePayload)
		if gp.Init != nil {
			continue
		}
		gp.Init = zeroValueFor(dst, gp.Type)
	}
	return dst, out, nil
}

func zeroValueFor(a *ir.Arena, ty *ir.Node) *ir.Node {
	if ty == nil {
		return nil
	}
	switch ty.Tag {
	case ir.TagInt:
		return a.NewIntLiteral(0)
	case ir.TagBool:
		return a.NewFalse()
	default:
		return nil
	}
}
