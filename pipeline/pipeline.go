package pipeline

import (
	"fmt"

	"github.com/vkshade/shadyc/ir"
)

// Stage is one pipeline pass: a pure function from a (src arena, src
// program) pair to a freshly populated (dst arena, dst program) pair.
type Stage func(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error)

// namedStage pairs a stage with its spec.md §4.F name, so StageOrder
// can be asserted literally by tests (SPEC_FULL.md §11, decision 2:
// "pin it with pipeline/pipeline_test.go's TestStageOrder").
type namedStage struct {
	name    string
	stage   Stage
	gate    func(cfg Config) bool // nil means always runs
}

// StageOrder is the exact, load-bearing order of spec.md §4.F. A
// change here must be deliberate — TestStageOrder pins it.
var StageOrder = []string{
	"bind_program",
	"normalize",
	"infer_program",
	"normalize_builtins",
	"opt_inline_jumps",
	"lcssa",
	"reconvergence_heuristics",
	"setup_stack_frames",
	"lower_cf_instrs",
	"mark_leaf_functions",
	"lower_callf",
	"opt_inline",
	"lift_indirect_targets",
	"opt_stack",
	"lower_tailcalls",
	"lower_switch_btree",
	"opt_restructurize",
	"opt_inline_jumps_2",
	"lower_mask",
	"lower_memcpy",
	"lower_subgroup_ops",
	"lower_stack",
	"lower_lea",
	"lower_generic_ptrs",
	"lower_physical_ptrs",
	"lower_subgroup_vars",
	"lower_memory_layout",
	"lower_decay_ptrs",
	"lower_int",
	"simt2d",
	"specialize_for_entry_point",
	"lower_fill",
}

func gateMarkLeaf(cfg Config) bool          { return !cfg.Hacks.ForceJoinPointLifting }
func gateDecayPtrs(cfg Config) bool         { return cfg.Lower.DecayPtrs }
func gateSIMT2D(cfg Config) bool            { return cfg.Lower.SIMTToExplicitSIMD }
func gateEntryPointSpecialize(cfg Config) bool { return cfg.Specialization.EntryPoint != "" }

func stageTable() []namedStage {
	return []namedStage{
		{"bind_program", bindProgram, nil},
		{"normalize", normalize, nil},
		{"infer_program", inferProgramStage, nil},
		{"normalize_builtins", normalizeBuiltins, nil},
		{"opt_inline_jumps", optInlineJumps, nil},
		{"lcssa", lcssa, nil},
		{"reconvergence_heuristics", reconvergenceHeuristics, nil},
		{"setup_stack_frames", setupStackFrames, nil},
		{"lower_cf_instrs", lowerCFInstrs, nil},
		{"mark_leaf_functions", markLeafFunctions, gateMarkLeaf},
		{"lower_callf", lowerCallf, nil},
		{"opt_inline", optInline, nil},
		{"lift_indirect_targets", liftIndirectTargets, nil},
		{"opt_stack", optStack, nil},
		{"lower_tailcalls", lowerTailcalls, nil},
		{"lower_switch_btree", lowerSwitchBtree, nil},
		{"opt_restructurize", optRestructurize, nil},
		{"opt_inline_jumps_2", optInlineJumps, nil},
		{"lower_mask", lowerMask, nil},
		{"lower_memcpy", lowerMemcpy, nil},
		{"lower_subgroup_ops", lowerSubgroupOps, nil},
		{"lower_stack", lowerStack, nil},
		{"lower_lea", lowerLea, nil},
		{"lower_generic_ptrs", lowerGenericPtrs, nil},
		{"lower_physical_ptrs", lowerPhysicalPtrs, nil},
		{"lower_subgroup_vars", lowerSubgroupVars, nil},
		{"lower_memory_layout", lowerMemoryLayout, nil},
		{"lower_decay_ptrs", lowerDecayPtrs, gateDecayPtrs},
		{"lower_int", lowerInt, nil},
		{"simt2d", simt2d, gateSIMT2D},
		{"specialize_for_entry_point", specializeForEntryPoint, gateEntryPointSpecialize},
		{"lower_fill", lowerFill, nil},
	}
}

// Result carries the pipeline's final arena/program along with the
// name of every stage that actually ran (gated stages it skipped are
// omitted), useful for -debug CLI output and tests.
type Result struct {
	Arena *ir.Arena
	Prog  *ir.Node
	Ran   []string
}

// Run drives every stage of StageOrder over (src, prog) in order,
// retiring each source arena immediately after its stage completes
// (spec.md §5: at most two arenas live at any moment). A stage
// returning an error aborts the whole compilation immediately,
// per spec.md §7's "all errors are fatal" policy.
func Run(cfg Config, src *ir.Arena, prog *ir.Node) (*Result, error) {
	if cfg.DynamicScheduling {
		prog = PrependScheduler(src, prog)
	}

	table := stageTable()
	curArena, curProg := src, prog
	var ran []string

	for _, ns := range table {
		if ns.gate != nil && !ns.gate(cfg) {
			continue
		}
		nextArena, nextProg, err := ns.stage(cfg, curArena, curProg)
		if err != nil {
			return nil, fmt.Errorf("pipeline stage %q: %w", ns.name, err)
		}
		if curArena != nextArena {
			curArena.Destroy()
		}
		curArena, curProg = nextArena, nextProg
		ran = append(ran, ns.name)
	}

	return &Result{Arena: curArena, Prog: curProg, Ran: ran}, nil
}
