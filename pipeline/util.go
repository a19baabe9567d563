package pipeline

import (
	"github.com/vkshade/shadyc/ir"
	"github.com/vkshade/shadyc/rewrite"
)

// identityRewrite is the workhorse behind every stage whose pass body
// does not need a per-tag hook: it rewrites prog into a fresh arena
// whose Config has been strengthened by strengthen, and nothing else.
// Several passes named in spec.md §4.F target IR constructs (explicit
// stack frames, subgroup masks, generic pointers, ...) that this
// simplified IR does not model as distinct node shapes; for those,
// the honest implementation is exactly this — a structural copy plus
// the config bit the next stage's precondition depends on — and each
// call site says so in its own doc comment.
func identityRewrite(src *ir.Arena, prog *ir.Node, strengthen func(*ir.Config)) (*ir.Arena, *ir.Node, error) {
	cfg := src.Config
	if strengthen != nil {
		strengthen(&cfg)
	}
	dst := ir.NewArena(cfg)
	out := rewrite.RewriteRoot(src, dst, prog, rewrite.Hooks{})
	return dst, out, nil
}

// hookRewrite is identityRewrite's counterpart for stages that do
// intercept specific tags.
func hookRewrite(src *ir.Arena, prog *ir.Node, strengthen func(*ir.Config), hooks rewrite.Hooks) (*ir.Arena, *ir.Node, error) {
	cfg := src.Config
	if strengthen != nil {
		strengthen(&cfg)
	}
	dst := ir.NewArena(cfg)
	out := rewrite.RewriteRoot(src, dst, prog, hooks)
	return dst, out, nil
}

func noop(*ir.Config) {}
