package pipeline

import "github.com/vkshade/shadyc/ir"

// lowerSwitchBtree would split a many-case Switch into a binary tree
// of equality Branches for targets whose native jump-table support is
// limited. SPIR-V's OpSwitch (package spirv) accepts an arbitrary
// number of literal/target pairs directly, so this pipeline's one
// target needs no such rewrite; the stage stays in the sequence,
// structurally a no-op, at the exact position spec.md §4.F and
// SPEC_FULL.md §11's ordering decision pin it to (immediately before
// opt_restructurize).
func lowerSwitchBtree(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}

// optRestructurize would re-derive structured If/Loop instructions
// from a CFG that an earlier pass had flattened into raw
// Branch/Switch terminators. Nothing upstream of this stage ever
// flattens structured control flow in this pipeline (package spirv
// emits OpSelectionMerge/OpLoopMerge straight from the structured
// If/Loop nodes a front-end already produced), so there is no
// unstructured graph left to restructure.
func optRestructurize(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return identityRewrite(src, prog, nil)
}
