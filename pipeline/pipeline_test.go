package pipeline

import (
	"testing"

	"github.com/vkshade/shadyc/ir"
)

// TestStageOrder pins the exact sequence spec.md §4.F specifies,
// including the lower_switch_btree-before-opt_restructurize ordering
// decided in SPEC_FULL.md §11 — a change here must be deliberate.
func TestStageOrder(t *testing.T) {
	want := []string{
		"bind_program", "normalize", "infer_program", "normalize_builtins",
		"opt_inline_jumps", "lcssa", "reconvergence_heuristics",
		"setup_stack_frames", "lower_cf_instrs", "mark_leaf_functions",
		"lower_callf", "opt_inline", "lift_indirect_targets", "opt_stack",
		"lower_tailcalls", "lower_switch_btree", "opt_restructurize",
		"opt_inline_jumps_2", "lower_mask", "lower_memcpy", "lower_subgroup_ops",
		"lower_stack", "lower_lea", "lower_generic_ptrs", "lower_physical_ptrs",
		"lower_subgroup_vars", "lower_memory_layout", "lower_decay_ptrs",
		"lower_int", "simt2d", "specialize_for_entry_point", "lower_fill",
	}
	if len(StageOrder) != len(want) {
		t.Fatalf("StageOrder has %d stages, want %d", len(StageOrder), len(want))
	}
	for i, name := range want {
		if StageOrder[i] != name {
			t.Fatalf("StageOrder[%d] = %q, want %q", i, StageOrder[i], name)
		}
	}

	// lower_switch_btree must immediately precede opt_restructurize.
	btree, restruct := -1, -1
	for i, name := range StageOrder {
		if name == "lower_switch_btree" {
			btree = i
		}
		if name == "opt_restructurize" {
			restruct = i
		}
	}
	if restruct != btree+1 {
		t.Fatalf("opt_restructurize must immediately follow lower_switch_btree, got indices %d and %d", btree, restruct)
	}
}

func buildTrivialProgram(a *ir.Arena) *ir.Node {
	lit := a.NewIntLiteral(7)
	ret := a.NewReturn([]*ir.Node{lit})
	fn := a.NewFunctionHeader("main", nil, []*ir.Node{a.NewQualified(ir.UniformityUniform, a.NewInt())}, true)
	a.SetFunctionBody(fn, nil, ret)
	return a.NewRoot([]*ir.Node{fn})
}

func TestRunCompletesEveryStageOnATrivialProgram(t *testing.T) {
	src := ir.NewArena(ir.DefaultConfig())
	prog := buildTrivialProgram(src)

	res, err := Run(DefaultConfig(), src, prog)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// DefaultConfig leaves lower_decay_ptrs, simt2d, and
	// specialize_for_entry_point gated off.
	wantRan := len(StageOrder) - 3
	if len(res.Ran) != wantRan {
		t.Fatalf("Run executed %d stages, want %d", len(res.Ran), wantRan)
	}

	rp, ok := res.Prog.Payload.(*ir.RootPayload)
	if !ok {
		t.Fatalf("final program is not a Root")
	}
	var foundMain bool
	for _, d := range rp.Decls {
		if d.IsFunction() && d.Name() == "main" {
			foundMain = true
		}
	}
	if !foundMain {
		t.Fatalf("final program lost the main function across the pipeline")
	}
}

func TestRunRespectsEntryPointSpecializationGate(t *testing.T) {
	src := ir.NewArena(ir.DefaultConfig())
	unused := src.NewFunctionHeader("dead_weight", nil, nil, false)
	src.SetFunctionBody(unused, nil, src.NewReturn(nil))

	lit := src.NewIntLiteral(1)
	ret := src.NewReturn([]*ir.Node{lit})
	fn := src.NewFunctionHeader("main", nil, []*ir.Node{src.NewQualified(ir.UniformityUniform, src.NewInt())}, true)
	src.SetFunctionBody(fn, nil, ret)
	root := src.NewRoot([]*ir.Node{fn, unused})

	cfg := DefaultConfig()
	cfg.Specialization.EntryPoint = "main"

	res, err := Run(cfg, src, root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	rp := res.Prog.Payload.(*ir.RootPayload)
	for _, d := range rp.Decls {
		if d.IsFunction() && d.Name() == "dead_weight" {
			t.Fatalf("specialize_for_entry_point left an unreachable function in the final program")
		}
	}
}
