// Package spirv lowers a fully-pipelined shadyc program to a SPIR-V
// binary module, and separately provides the low-level binary writer
// that lowering is built on.
//
// # Emit
//
// Emit consumes the *ir.Node Root returned by pipeline.Run and produces
// a SPIR-V binary ready to hand to a driver:
//
//	result, err := pipeline.Run(pipeline.DefaultConfig(), arena, prog)
//	if err != nil {
//		log.Fatal(err)
//	}
//	binary, err := spirv.Emit(spirv.DefaultEmitOptions(), result.Prog)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Emit assumes every precondition the pipeline's lowering stages
// establish by the time it runs: Unbound/UntypedNumber nodes resolved,
// subgroup masks rewritten to concrete Int/Array types, tail calls
// eliminated. It does not assume logical-space pointers have been
// decayed to Generic, since lower_decay_ptrs is gated and off by
// default — logical and physical address spaces both map directly onto
// a SPIR-V storage class.
//
// Structured control flow (If, Match, Loop, Control, Block) is emitted
// by direct recursive descent over each instruction's own body
// pointers, threading an explicit stack of enclosing merge points
// through the walk, rather than by walking a cfa.Scope: that package
// models reachability for reconvergence analysis, not the
// body-to-merge-point relationship structured emission needs. The
// legacy, explicitly-addressed Jump/Branch/Switch path targeting named
// BasicBlocks is emitted with a separate worklist that resolves phi
// operands as each predecessor is visited.
//
// # Binary writer
//
// ModuleBuilder assembles a SPIR-V module section by section, keeping
// each of the binary's regions (capabilities, types, globals,
// functions, ...) separate until Build concatenates them in the order
// the spec requires:
//
//	builder := spirv.NewModuleBuilder(spirv.Version1_4)
//	builder.AddCapability(spirv.CapabilityShader)
//	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//
//	floatType := builder.AddTypeFloat(32)
//	vec4Type := builder.AddTypeVector(floatType, 4)
//
//	binary := builder.Build()
//
// A SPIR-V module's sections, in the order Build emits them: header
// (magic, version, generator, bound, schema), capabilities, extensions,
// extended instruction imports, memory model, entry points, execution
// modes, debug strings and names, annotations (decorations), types and
// constants, global variables, and function bodies.
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
