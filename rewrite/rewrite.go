// Package rewrite implements the generic rewriter framework of
// spec.md §4.E: a node-to-node transform from a source Arena into a
// destination Arena that preserves DAG sharing via memoization and
// breaks abstraction cycles with a two-phase header-then-body visit.
//
// Every pipeline pass (package pipeline) is built on top of a
// Rewriter: passes differ only in which per-tag hook they override,
// never in how traversal, memoization, or cycle-breaking work.
package rewrite

import "github.com/vkshade/shadyc/ir"

// Hooks lets a pass intercept specific node tags before the default,
// structural rewrite runs. A hook returns (nil, false) to fall
// through to the default rewrite. Hooks are consulted for every node
// family except abstractions, which always go through the two-phase
// header/body protocol (RewriteAbstraction).
type Hooks struct {
	// RewriteNode, when non-nil, is tried first for every node. Return
	// ok=false to fall through to the default field-by-field rewrite.
	RewriteNode func(rw *Rewriter, n *ir.Node) (*ir.Node, bool)
}

// Rewriter maps every node reachable from a root in Src into Dst,
// memoizing by source-node identity so that DAG sharing survives the
// rewrite (spec.md "Memoization maps keyed by node identity... Cross-
// arena rewriter maps must key on source-arena identity").
type Rewriter struct {
	Src   *ir.Arena
	Dst   *ir.Arena
	Hooks Hooks

	memo map[*ir.Node]*ir.Node
}

// New creates a Rewriter from src into dst. dst is typically a freshly
// created Arena whose Config has been strengthened relative to src's,
// per the pipeline's monotonicity invariant (spec.md §4.F).
func New(src, dst *ir.Arena, hooks Hooks) *Rewriter {
	return &Rewriter{Src: src, Dst: dst, Hooks: hooks, memo: make(map[*ir.Node]*ir.Node, 256)}
}

// Rewrite maps n (which must belong to rw.Src, or be nil) into rw.Dst,
// consulting the memo table first, then Hooks.RewriteNode, then the
// tag-driven default.
func (rw *Rewriter) Rewrite(n *ir.Node) *ir.Node {
	if n == nil {
		return nil
	}
	if existing, ok := rw.memo[n]; ok {
		return existing
	}
	if n.IsAbstraction() {
		return rw.RewriteAbstraction(n)
	}
	if rw.Hooks.RewriteNode != nil {
		if out, ok := rw.Hooks.RewriteNode(rw, n); ok {
			rw.memo[n] = out
			return out
		}
	}
	out := rw.defaultRewrite(n)
	rw.memo[n] = out
	return out
}

// RewriteList maps every element of ns through Rewrite, preserving
// order (not itself interned as a NodeList until the caller passes it
// to an Arena constructor).
func (rw *Rewriter) RewriteList(ns []*ir.Node) []*ir.Node {
	if ns == nil {
		return nil
	}
	out := make([]*ir.Node, len(ns))
	for i, n := range ns {
		out[i] = rw.Rewrite(n)
	}
	return out
}

// RewriteAbstraction performs the two-phase visit spec.md §4.E and §9
// require for Function/BasicBlock/AnonymousLambda: a header is
// constructed and memoized first (so a body that jumps back to its
// own abstraction finds an entry already in the map), then the body is
// rewritten with that mapping visible.
func (rw *Rewriter) RewriteAbstraction(n *ir.Node) *ir.Node {
	if existing, ok := rw.memo[n]; ok {
		return existing
	}

	switch p := n.Payload.(type) {
	case *ir.FunctionPayload:
		header := rw.Dst.NewFunctionHeader(p.Name, rw.RewriteList(p.Params), rw.RewriteList(p.Results), p.IsEntryPoint)
		rw.memo[n] = header
		bbs := rw.RewriteList(p.BasicBlocks)
		body := rw.Rewrite(p.Body)
		rw.Dst.SetFunctionBody(header, bbs, body)
		return header

	case *ir.BasicBlockPayload:
		header := rw.Dst.NewBasicBlockHeader(p.Name, rw.RewriteList(p.Params))
		rw.memo[n] = header
		body := rw.Rewrite(p.Body)
		rw.Dst.SetBasicBlockBody(header, body)
		return header

	case *ir.AnonymousLambdaPayload:
		header := rw.Dst.NewAnonymousLambdaHeader(rw.RewriteList(p.Params))
		rw.memo[n] = header
		body := rw.Rewrite(p.Body)
		rw.Dst.SetAnonymousLambdaBody(header, body)
		return header
	}
	panic("rewrite: unreachable abstraction tag")
}

// defaultRewrite reconstructs n's direct equivalent in rw.Dst,
// recursing into every sub-node operand first. Hooks intercept
// specific tags before this runs; passes that only touch a handful of
// tags leave everything else to fall through here.
func (rw *Rewriter) defaultRewrite(n *ir.Node) *ir.Node {
	a := rw.Dst
	switch p := n.Payload.(type) {

	// Types
	case nil:
		switch n.Tag {
		case ir.TagInt:
			return a.NewInt()
		case ir.TagBool:
			return a.NewBool()
		case ir.TagFloat:
			return a.NewFloat()
		case ir.TagMask:
			return a.NewMask()
		case ir.TagTrue:
			return a.NewTrue()
		case ir.TagFalse:
			return a.NewFalse()
		}

	case ir.PtrPayload:
		return a.NewPtr(p.Space, rw.Rewrite(p.Pointee))
	case ir.RecordPayload:
		return a.NewRecord(rw.RewriteList(p.Members))
	case ir.FnTypePayload:
		return a.NewFnType(rw.RewriteList(p.Params), rw.RewriteList(p.Results), p.IsContinuation)
	case ir.QualifiedPayload:
		return a.NewQualified(p.Qualifier, rw.Rewrite(p.Inner))
	case ir.ArrayPayload:
		return a.NewArray(rw.Rewrite(p.Element), p.Size)

	// Values
	case ir.IntLiteralPayload:
		return a.NewIntLiteral(p.Value)
	case ir.VariablePayload:
		return a.NewVariable(p.Name, rw.Rewrite(p.VarType))
	case ir.UnboundPayload:
		return a.NewUnbound(p.Name)
	case ir.UntypedNumberPayload:
		return a.NewUntypedNumber(p.Text)

	// Instructions
	case ir.PrimOpPayload:
		return a.NewPrimOp(p.Op, rw.RewriteList(p.Operands), rw.Rewrite(p.TypeArg))
	case ir.CallPayload:
		return a.NewCall(rw.Rewrite(p.Callee), rw.RewriteList(p.Args))
	case ir.IfPayload:
		return a.NewIf(rw.RewriteList(p.YieldTypes), rw.Rewrite(p.Cond), rw.Rewrite(p.True), rw.Rewrite(p.False))
	case ir.MatchPayload:
		cases := make([]ir.MatchCase, len(p.Cases))
		for i, c := range p.Cases {
			cases[i] = ir.MatchCase{Literal: rw.Rewrite(c.Literal), Body: rw.Rewrite(c.Body)}
		}
		return a.NewMatch(rw.RewriteList(p.YieldTypes), rw.Rewrite(p.Inspectee), cases, rw.Rewrite(p.Default))
	case ir.LoopPayload:
		return a.NewLoop(rw.RewriteList(p.Params), rw.RewriteList(p.InitialArgs), rw.Rewrite(p.Body), rw.RewriteList(p.YieldTypes))
	case ir.ControlPayload:
		return a.NewControl(rw.Rewrite(p.Inside), rw.RewriteList(p.YieldTypes))
	case ir.BlockPayload:
		return a.NewBlock(rw.Rewrite(p.Inside), rw.RewriteList(p.YieldTypes))

	// Terminators
	case ir.JumpPayload:
		return a.NewJump(rw.Rewrite(p.Target), rw.RewriteList(p.Args))
	case ir.BranchPayload:
		return a.NewBranch(rw.Rewrite(p.Cond), rw.Rewrite(p.TrueTarget), rw.Rewrite(p.FalseTarget), rw.RewriteList(p.Args))
	case ir.SwitchPayload:
		cases := make([]ir.SwitchCase, len(p.Cases))
		for i, c := range p.Cases {
			cases[i] = ir.SwitchCase{Literal: rw.Rewrite(c.Literal), Target: rw.Rewrite(c.Target)}
		}
		return a.NewSwitch(rw.Rewrite(p.Inspectee), cases, rw.Rewrite(p.Default), rw.RewriteList(p.Args))
	case ir.ReturnPayload:
		return a.NewReturn(rw.RewriteList(p.Args))
	case ir.LetPayload:
		return a.NewLet(rw.Rewrite(p.Instruction), rw.Rewrite(p.Tail))
	case ir.JoinPayload:
		return a.NewJoin(rw.RewriteList(p.Args))
	case ir.MergeBreakPayload:
		return a.NewMergeBreak(rw.RewriteList(p.Args))
	case ir.MergeContinuePayload:
		return a.NewMergeContinue(rw.RewriteList(p.Args))
	case ir.MergeYieldPayload:
		return a.NewMergeYield(rw.RewriteList(p.Args))
	case ir.TailCallPayload:
		return a.NewTailCall(rw.Rewrite(p.Callee), rw.RewriteList(p.Args))
	case ir.UnreachablePayload:
		return a.NewUnreachable()

	// Declarations
	case *ir.GlobalVariablePayload:
		return a.NewGlobalVariable(p.Name, p.Space, rw.Rewrite(p.Type), p.Builtin, rw.Rewrite(p.Init))
	case *ir.ConstantPayload:
		return a.NewConstant(p.Name, rw.Rewrite(p.Value))
	case *ir.RootPayload:
		return a.NewRoot(rw.RewriteList(p.Decls))
	}
	panic("rewrite: unhandled node tag " + n.Tag.String())
}

// RewriteRoot is the common entry point every pipeline pass uses:
// rewrite the program's Root declaration-by-declaration into dst.
func RewriteRoot(src, dst *ir.Arena, root *ir.Node, hooks Hooks) *ir.Node {
	rw := New(src, dst, hooks)
	return rw.Rewrite(root)
}
