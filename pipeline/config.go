// Package pipeline drives the fixed, ordered sequence of rewrite
// passes that lowers a bound, typed program through to a form the
// SPIR-V emitter (package spirv) accepts (spec.md §4.F).
//
// Each stage is a pure function (src arena, src program) -> (dst
// arena, dst program), built on package rewrite. Between stages the
// driver strengthens the destination arena's ir.Config, mirroring
// shady/compile.c's RUN_PASS macro; at most two arenas are ever live
// at once (spec.md §5's resource policy), since Run releases the
// source arena immediately after each stage returns.
package pipeline

// Config is the compiler-wide configuration of spec.md §6, analogous
// to shady's CompilerConfig (as opposed to ir.Config, which is the
// per-arena dialect — shady's ArenaConfig). It is threaded explicitly
// through every stage and never stored globally (spec.md §9, "The
// current arena config is not global").
type Config struct {
	// DynamicScheduling prepends a built-in scheduler function to the
	// module before bind_program runs (supplemented feature, §9 of
	// SPEC_FULL.md; mirrors shady's generate_dummy_constants).
	DynamicScheduling bool

	PerThreadStackSize   int
	PerSubgroupStackSize int

	TargetSPIRVMajor uint8
	TargetSPIRVMinor uint8

	Specialization SpecializationConfig

	Lower LowerGates

	Hacks HackGates

	Logging LoggingConfig
}

// SpecializationConfig configures subgroup size and optional entry
// point specialization (spec.md §6).
type SpecializationConfig struct {
	SubgroupSize int
	// EntryPoint, when non-empty, enables specialize_for_entry_point.
	EntryPoint string
}

// LowerGates enables optional lowering stages (spec.md §6).
type LowerGates struct {
	DecayPtrs          bool
	SIMTToExplicitSIMD bool
}

// HackGates enables workaround behaviors (spec.md §6).
type HackGates struct {
	ForceJoinPointLifting bool
}

// LoggingConfig filters which warnings reach the log sink (spec.md §6).
type LoggingConfig struct {
	SkipInternal  bool
	SkipGenerated bool
}

// DefaultConfig mirrors shady's default_compiler_config(): SPIR-V 1.4,
// an 8-lane subgroup, no specialization, no hacks.
func DefaultConfig() Config {
	return Config{
		PerThreadStackSize:   4096,
		PerSubgroupStackSize: 4096,
		TargetSPIRVMajor:     1,
		TargetSPIRVMinor:     4,
		Specialization:       SpecializationConfig{SubgroupSize: 8},
	}
}
