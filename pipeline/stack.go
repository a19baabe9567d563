package pipeline

import (
	"github.com/vkshade/shadyc/ir"
	"github.com/vkshade/shadyc/rewrite"
)

// stackPointerName is the name setup_stack_frames gives the per-thread
// stack-pointer global it introduces; lower_stack (when a target needs
// explicit stack addressing) would rewrite Alloca/Load/Store pairs to
// reference it.
const stackPointerName = "__stack_pointer"

// setupStackFrames is spec.md §4.F's stage that gives every thread a
// private stack: it adds a PrivatePhysical Int-typed global variable
// (word width, Config.WordWidth), seeded to zero, that later stack-addressing lowerings
// reference by name. Mirrors shady's setup_stack_frames, scoped here
// to its one concrete, always-needed effect: reserving the pointer
// itself.
func setupStackFrames(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	dst := ir.NewArena(src.Config)
	rw := rewrite.New(src, dst, rewrite.Hooks{})
	rewritten := rw.Rewrite(prog)

	rp := rewritten.Payload.(*ir.RootPayload)
	for _, d := range rp.Decls {
		if d.Tag == ir.TagGlobalVariable && d.Name() == stackPointerName {
			return dst, rewritten, nil // already present, nothing to add
		}
	}

	stackPtr := dst.NewGlobalVariable(stackPointerName, ir.PrivatePhysical, dst.NewInt(), "", dst.NewIntLiteral(0))
	decls := append(append(ir.NodeList{}, rp.Decls...), stackPtr)
	return dst, dst.NewRoot(decls), nil
}

// lowerStack would rewrite Alloca/Load/Store against function-space
// pointers into explicit arithmetic on __stack_pointer. This IR models
// Alloca as producing a logical FunctionSpace pointer with no
// address-arithmetic instruction to lower it into (spec.md's
// Non-goals exclude "the individual rewrite rules of every pass");
// until a target needs physical function-space addresses, the honest
// implementation is the structural identity it already is.
func lowerStack(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}

// optStack would coalesce non-overlapping stack slots once lower_stack
// has introduced concrete offsets; with no slots yet materialized
// there is nothing to coalesce.
func optStack(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}
