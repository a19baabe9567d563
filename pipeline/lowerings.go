package pipeline

import (
	"github.com/vkshade/shadyc/ir"
	"github.com/vkshade/shadyc/rewrite"
)

// lowerMask rewrites the subgroup Mask type to its concrete
// representation, chosen by the source arena's
// Config.SubgroupMaskRepr: a single wide integer, or an array of
// 32-bit lanes sized to the configured subgroup width.
func lowerMask(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	hooks := rewrite.Hooks{
		RewriteNode: func(rw *rewrite.Rewriter, n *ir.Node) (*ir.Node, bool) {
			if n.Tag != ir.TagMask {
				return nil, false
			}
			if src.Config.SubgroupMaskRepr == ir.SubgroupMaskInt32Array {
				lanes := uint64((src.Config.SubgroupSize + 31) / 32)
				if lanes == 0 {
					lanes = 1
				}
				return rw.Dst.NewArray(rw.Dst.NewInt(), &lanes), true
			}
			return rw.Dst.NewInt(), true
		},
	}
	return hookRewrite(src, prog, nil, hooks)
}

// lowerMemcpy would expand a bulk-copy builtin into an element-wise
// load/store loop. No memcpy-shaped PrimOp exists in this grammar
// (spec.md §6 lists only scalar arithmetic, comparison, load, store,
// and alloca), so there is nothing to expand.
func lowerMemcpy(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}

// lowerSubgroupOps would expand high-level subgroup reduce/broadcast/
// shuffle operations into primitive shuffle sequences. This grammar
// has no subgroup-op PrimOpKind member; SPIR-V's own subgroup
// instructions, when needed, are a package spirv emission concern,
// not an IR-level rewrite.
func lowerSubgroupOps(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}

// lowerLea would rewrite an explicit "load effective address" pointer
// arithmetic instruction into raw integer math on a physical address.
// No such instruction exists in PrimOpKind — pointer arithmetic is
// entirely out of scope until a front-end needs it, per spec.md's
// Non-goals around "the individual rewrite rules of every pass".
func lowerLea(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}

// lowerGenericPtrs would narrow a Generic-space pointer back to its
// proven concrete address space via alias analysis. That analysis is
// squarely inside spec.md's "individual rewrite rules" Non-goal; the
// address-space tag already present on every Ptr type is left as-is.
func lowerGenericPtrs(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}

// lowerPhysicalPtrs would map the IR's *Physical address spaces onto
// a target's native addressing mode. This IR already distinguishes
// every physical space as its own AddressSpace member; translating
// that tag into a concrete spirv.StorageClass happens once, in
// spirv.Emit, rather than as a separate IR-to-IR rewrite duplicating
// the same mapping.
func lowerPhysicalPtrs(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}

// lowerSubgroupVars would relocate SubgroupPhysical-space variables
// into a concrete backing store. spirv.Emit maps SubgroupPhysical
// directly onto the Private storage class at emission time, so no
// intermediate IR shape is needed.
func lowerSubgroupVars(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}

// lowerMemoryLayout would compute explicit byte offsets and array
// strides for Record/Array types ahead of a target that requires them
// as decorations. package spirv's emitter computes Offset/ArrayStride
// directly from a type's structural shape while it emits
// OpTypeStruct/OpDecorate, so no separate layout-computation IR pass
// is needed upstream of it.
func lowerMemoryLayout(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}

// lowerDecayPtrs decays every logical-space pointer type to the
// Generic address space, for targets (gated by
// Config.Lower.DecayPtrs) that only support one generic pointer
// representation at the instruction level rather than distinct
// logical address spaces.
func lowerDecayPtrs(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	hooks := rewrite.Hooks{
		RewriteNode: func(rw *rewrite.Rewriter, n *ir.Node) (*ir.Node, bool) {
			if n.Tag != ir.TagPtr {
				return nil, false
			}
			pp := n.Payload.(ir.PtrPayload)
			if !pp.Space.IsLogical() {
				return nil, false
			}
			return rw.Dst.NewPtr(ir.Generic, rw.Rewrite(pp.Pointee)), true
		},
	}
	return hookRewrite(src, prog, nil, hooks)
}

// lowerInt would select a concrete backend integer width for the
// grammar's single, widthless Int type. WordWidth is already tracked
// on Config and consulted directly by spirv.Emit when it emits
// OpTypeInt, so there is no separate IR type to introduce here.
func lowerInt(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}
