package pipeline

import (
	"github.com/vkshade/shadyc/ir"
	"github.com/vkshade/shadyc/typecheck"
)

// inferProgramStage wraps typecheck.InferProgram as the pipeline's
// infer_program stage (spec.md §4.F, §4.C): every value/instruction
// gets a resolved type, and the result is validated for grammar
// well-formedness.
func inferProgramStage(cfg Config, src *ir.Arena, prog *ir.Node) (*ir.Arena, *ir.Node, error) {
	return typecheck.InferProgram(src, prog)
}
