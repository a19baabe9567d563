package ir

import "fmt"

// JumpPayload is an unconditional jump to a BasicBlock, carrying its
// parameter arguments.
type JumpPayload struct {
	Target *Node
	Args   NodeList
}

// BranchPayload is a two-way conditional jump.
type BranchPayload struct {
	Cond        *Node
	TrueTarget  *Node
	FalseTarget *Node
	Args        NodeList
}

// SwitchCase pairs a literal with the BasicBlock taken when the
// inspectee equals it.
type SwitchCase struct {
	Literal *Node
	Target  *Node
}

// SwitchPayload is a multi-way conditional jump.
type SwitchPayload struct {
	Inspectee *Node
	Cases     []SwitchCase
	Default   *Node
	Args      NodeList
}

// ReturnPayload exits the enclosing Function with the given results.
type ReturnPayload struct {
	Args NodeList
}

// LetPayload binds an instruction's results to the parameters of Tail,
// an AnonymousLambda acting as the instruction's continuation. The
// bound names live as Tail's Params, not as a separate name list —
// mirroring shady's single-use continuation encoding of `let`.
type LetPayload struct {
	Instruction *Node
	Tail        *Node
}

// JoinPayload resumes execution at the nearest enclosing Control's
// join point with the given arguments; the join point itself is not
// stored here but recovered by control-flow analysis (spec.md's
// ControlBodyEdge).
type JoinPayload struct {
	Args NodeList
}

// MergeBreakPayload exits the nearest enclosing Loop.
type MergeBreakPayload struct {
	Args NodeList
}

// MergeContinuePayload restarts the nearest enclosing Loop with new
// loop-carried values.
type MergeContinuePayload struct {
	Args NodeList
}

// MergeYieldPayload falls through out of the nearest enclosing
// Block/If/Match with the given arguments.
type MergeYieldPayload struct {
	Args NodeList
}

// TailCallPayload transfers control to callee without returning here.
type TailCallPayload struct {
	Callee *Node
	Args   NodeList
}

// UnreachablePayload marks a program point control can never reach.
type UnreachablePayload struct{}

func (a *Arena) NewJump(target *Node, args []*Node) *Node {
	as := a.InternNodes(args)
	k := fmt.Sprintf("T:Jump:%s:%s", key(target), keys(as))
	return a.intern(k, func() *Node {
		return &Node{Tag: TagJump, Arena: a, Payload: JumpPayload{Target: target, Args: as}}
	})
}

func (a *Arena) NewBranch(cond, trueTarget, falseTarget *Node, args []*Node) *Node {
	as := a.InternNodes(args)
	k := fmt.Sprintf("T:Branch:%s:%s:%s:%s", key(cond), key(trueTarget), key(falseTarget), keys(as))
	return a.intern(k, func() *Node {
		return &Node{Tag: TagBranch, Arena: a, Payload: BranchPayload{Cond: cond, TrueTarget: trueTarget, FalseTarget: falseTarget, Args: as}}
	})
}

func (a *Arena) NewSwitch(inspectee *Node, cases []SwitchCase, def *Node, args []*Node) *Node {
	as := a.InternNodes(args)
	k := fmt.Sprintf("T:Switch:%s:%d:%s:%s", key(inspectee), len(cases), key(def), keys(as))
	return a.intern(k, func() *Node {
		cs := make([]SwitchCase, len(cases))
		copy(cs, cases)
		return &Node{Tag: TagSwitch, Arena: a, Payload: SwitchPayload{Inspectee: inspectee, Cases: cs, Default: def, Args: as}}
	})
}

func (a *Arena) NewReturn(args []*Node) *Node {
	as := a.InternNodes(args)
	k := "T:Return:" + keys(as)
	return a.intern(k, func() *Node {
		return &Node{Tag: TagReturn, Arena: a, Payload: ReturnPayload{Args: as}}
	})
}

// NewLet interns a Let terminator. Because instruction and tail are
// both already-interned/unique nodes, pointer-identity keying is
// sufficient and cheap.
func (a *Arena) NewLet(instruction, tail *Node) *Node {
	k := fmt.Sprintf("T:Let:%s:%s", key(instruction), key(tail))
	return a.intern(k, func() *Node {
		return &Node{Tag: TagLet, Arena: a, Payload: LetPayload{Instruction: instruction, Tail: tail}}
	})
}

func (a *Arena) NewJoin(args []*Node) *Node {
	as := a.InternNodes(args)
	k := "T:Join:" + keys(as)
	return a.intern(k, func() *Node {
		return &Node{Tag: TagJoin, Arena: a, Payload: JoinPayload{Args: as}}
	})
}

func (a *Arena) NewMergeBreak(args []*Node) *Node {
	as := a.InternNodes(args)
	k := "T:MergeBreak:" + keys(as)
	return a.intern(k, func() *Node {
		return &Node{Tag: TagMergeBreak, Arena: a, Payload: MergeBreakPayload{Args: as}}
	})
}

func (a *Arena) NewMergeContinue(args []*Node) *Node {
	as := a.InternNodes(args)
	k := "T:MergeContinue:" + keys(as)
	return a.intern(k, func() *Node {
		return &Node{Tag: TagMergeContinue, Arena: a, Payload: MergeContinuePayload{Args: as}}
	})
}

func (a *Arena) NewMergeYield(args []*Node) *Node {
	as := a.InternNodes(args)
	k := "T:MergeYield:" + keys(as)
	return a.intern(k, func() *Node {
		return &Node{Tag: TagMergeYield, Arena: a, Payload: MergeYieldPayload{Args: as}}
	})
}

func (a *Arena) NewTailCall(callee *Node, args []*Node) *Node {
	as := a.InternNodes(args)
	k := fmt.Sprintf("T:TailCall:%s:%s", key(callee), keys(as))
	return a.intern(k, func() *Node {
		return &Node{Tag: TagTailCall, Arena: a, Payload: TailCallPayload{Callee: callee, Args: as}}
	})
}

// NewUnreachable interns the sentinel unreachable terminator. A single
// arena only ever needs one.
func (a *Arena) NewUnreachable() *Node {
	return a.intern("T:Unreachable", func() *Node {
		return &Node{Tag: TagUnreachable, Arena: a, Payload: UnreachablePayload{}}
	})
}
