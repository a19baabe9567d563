package ir

import "fmt"

// PrimOpKind enumerates the primitive operation tokens of spec.md §6's
// surface grammar (minus `call`, which has its own Call instruction).
type PrimOpKind uint8

const (
	OpAdd PrimOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpLte
	OpGt
	OpGte
	OpEq
	OpNeq
	OpAnd
	OpOr
	OpXor
	OpNot
	OpLoad
	OpStore
	OpAlloca
)

var primOpNames = [...]string{
	"add", "sub", "mul", "div", "mod", "lt", "lte", "gt", "gte", "eq",
	"neq", "and", "or", "xor", "not", "load", "store", "alloca",
}

func (op PrimOpKind) String() string {
	if int(op) < len(primOpNames) {
		return primOpNames[op]
	}
	return fmt.Sprintf("PrimOp(%d)", uint8(op))
}

func (op PrimOpKind) isComparison() bool {
	switch op {
	case OpLt, OpLte, OpGt, OpGte, OpEq, OpNeq:
		return true
	}
	return false
}

func (op PrimOpKind) isUniformityPreservingArith() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpAnd, OpOr, OpXor, OpNot, OpLt, OpLte, OpGt, OpGte, OpEq, OpNeq:
		return true
	}
	return false
}

// PrimOpPayload is the payload of a PrimOp instruction. TypeArg is
// only populated for Alloca, which takes the type to allocate rather
// than a value operand (operand-kind membership requires every
// PrimOp.Operands entry to be a value).
type PrimOpPayload struct {
	Op       PrimOpKind
	Operands NodeList
	TypeArg  *Node
}

// CallPayload is the payload of a direct call instruction.
type CallPayload struct {
	Callee *Node // a Function declaration
	Args   NodeList
}

// IfPayload is the payload of a structured selection instruction.
type IfPayload struct {
	YieldTypes NodeList
	Cond       *Node
	True       *Node // AnonymousLambda
	False      *Node // AnonymousLambda, nil if there is no else branch
}

// MatchCase pairs a literal value with the anonymous-lambda body
// executed when the inspectee equals it.
type MatchCase struct {
	Literal *Node
	Body    *Node // AnonymousLambda
}

// MatchPayload is the payload of a structured multi-way match.
type MatchPayload struct {
	YieldTypes NodeList
	Inspectee  *Node
	Cases      []MatchCase
	Default    *Node // AnonymousLambda
}

// LoopPayload is the payload of a structured loop instruction.
type LoopPayload struct {
	Params      NodeList // loop-carried parameters, bound in Body
	InitialArgs NodeList
	Body        *Node // AnonymousLambda
	YieldTypes  NodeList
}

// ControlPayload is the payload of a control instruction — introduces
// a join point reachable via Join from Inside.
type ControlPayload struct {
	Inside     *Node // AnonymousLambda
	YieldTypes NodeList
}

// BlockPayload is the payload of a block instruction — a nested
// scope whose exit is a plain fallthrough (MergeYield with no
// associated loop/control semantics).
type BlockPayload struct {
	Inside     *Node // AnonymousLambda
	YieldTypes NodeList
}

// binopResultType implements spec.md's uniformity rule: a value is
// Uniform iff every operand is Uniform and op is uniformity-preserving
// (arithmetic, comparisons, logical); a non-uniformity-preserving op
// is conservatively Varying regardless of its operands.
func binopResultType(a *Arena, op PrimOpKind, operandTypes []*Node) *Node {
	if len(operandTypes) == 0 {
		return nil
	}
	first := operandTypes[0]
	inner, uniform := Unqualify(first)
	if !op.isUniformityPreservingArith() {
		uniform = UniformityVarying
	} else {
		for _, t := range operandTypes[1:] {
			_, u := Unqualify(t)
			uniform = uniform.Join(u)
		}
	}
	if op.isComparison() {
		return a.NewQualified(uniform, a.NewBool())
	}
	return a.NewQualified(uniform, inner)
}

// NewPrimOp interns a PrimOp instruction over value operands. typeArg
// is only consulted (and must be non-nil) when op == OpAlloca.
func (a *Arena) NewPrimOp(op PrimOpKind, operands []*Node, typeArg *Node) *Node {
	ops := a.InternNodes(operands)
	k := fmt.Sprintf("I:PrimOp:%d:%s:%s", op, keys(ops), key(typeArg))
	return a.intern(k, func() *Node {
		n := &Node{Tag: TagPrimOp, Arena: a, Payload: PrimOpPayload{Op: op, Operands: ops, TypeArg: typeArg}}
		if a.Config.CheckTypes {
			n.Type = a.inferPrimOpType(op, ops, typeArg)
		}
		return n
	})
}

func (a *Arena) inferPrimOpType(op PrimOpKind, operands NodeList, typeArg *Node) *Node {
	switch op {
	case OpAlloca:
		return a.NewQualified(UniformityUniform, a.NewPtr(FunctionSpace, typeArg))
	case OpLoad:
		if len(operands) != 1 {
			return nil
		}
		ptrTy, uniform := Unqualify(operands[0].Type)
		if ptrTy == nil || ptrTy.Tag != TagPtr {
			return nil
		}
		pointee := ptrTy.Payload.(PtrPayload).Pointee
		return a.NewQualified(uniform, pointee)
	case OpStore:
		return nil // void
	default:
		operandTypes := make([]*Node, 0, len(operands))
		for _, o := range operands {
			operandTypes = append(operandTypes, o.Type)
		}
		return binopResultType(a, op, operandTypes)
	}
}

// NewCall interns a direct call instruction. When callee's FnType
// declares exactly one result, that result's type is attached.
func (a *Arena) NewCall(callee *Node, args []*Node) *Node {
	as := a.InternNodes(args)
	k := fmt.Sprintf("I:Call:%s:%s", key(callee), keys(as))
	return a.intern(k, func() *Node {
		n := &Node{Tag: TagCall, Arena: a, Payload: CallPayload{Callee: callee, Args: as}}
		if a.Config.CheckTypes {
			n.Type = singleResultType(callee)
		}
		return n
	})
}

func singleResultType(fn *Node) *Node {
	if fn == nil {
		return nil
	}
	fp, ok := fn.Payload.(*FunctionPayload)
	if !ok || len(fp.Results) != 1 {
		return nil
	}
	return fp.Results[0]
}

// NewIf interns a structured if instruction.
func (a *Arena) NewIf(yieldTypes []*Node, cond, trueLambda, falseLambda *Node) *Node {
	ys := a.InternNodes(yieldTypes)
	k := fmt.Sprintf("I:If:%s:%s:%s:%s", keys(ys), key(cond), key(trueLambda), key(falseLambda))
	return a.intern(k, func() *Node {
		n := &Node{Tag: TagIf, Arena: a, Payload: IfPayload{YieldTypes: ys, Cond: cond, True: trueLambda, False: falseLambda}}
		if a.Config.CheckTypes && len(ys) == 1 {
			n.Type = ys[0]
		}
		return n
	})
}

// NewMatch interns a structured match instruction.
func (a *Arena) NewMatch(yieldTypes []*Node, inspectee *Node, cases []MatchCase, def *Node) *Node {
	ys := a.InternNodes(yieldTypes)
	k := fmt.Sprintf("I:Match:%s:%s:%d:%s", keys(ys), key(inspectee), len(cases), key(def))
	return a.intern(k, func() *Node {
		cs := make([]MatchCase, len(cases))
		copy(cs, cases)
		n := &Node{Tag: TagMatch, Arena: a, Payload: MatchPayload{YieldTypes: ys, Inspectee: inspectee, Cases: cs, Default: def}}
		if a.Config.CheckTypes && len(ys) == 1 {
			n.Type = ys[0]
		}
		return n
	})
}

// NewLoop interns a structured loop instruction.
func (a *Arena) NewLoop(params, initialArgs []*Node, body *Node, yieldTypes []*Node) *Node {
	ps, as2, ys := a.InternNodes(params), a.InternNodes(initialArgs), a.InternNodes(yieldTypes)
	k := fmt.Sprintf("I:Loop:%s:%s:%s:%s", keys(ps), keys(as2), key(body), keys(ys))
	return a.intern(k, func() *Node {
		n := &Node{Tag: TagLoop, Arena: a, Payload: LoopPayload{Params: ps, InitialArgs: as2, Body: body, YieldTypes: ys}}
		if a.Config.CheckTypes && len(ys) == 1 {
			n.Type = ys[0]
		}
		return n
	})
}

// NewControl interns a control instruction.
func (a *Arena) NewControl(inside *Node, yieldTypes []*Node) *Node {
	ys := a.InternNodes(yieldTypes)
	k := fmt.Sprintf("I:Control:%s:%s", key(inside), keys(ys))
	return a.intern(k, func() *Node {
		n := &Node{Tag: TagControl, Arena: a, Payload: ControlPayload{Inside: inside, YieldTypes: ys}}
		if a.Config.CheckTypes && len(ys) == 1 {
			n.Type = ys[0]
		}
		return n
	})
}

// NewBlock interns a block instruction.
func (a *Arena) NewBlock(inside *Node, yieldTypes []*Node) *Node {
	ys := a.InternNodes(yieldTypes)
	k := fmt.Sprintf("I:Block:%s:%s", key(inside), keys(ys))
	return a.intern(k, func() *Node {
		n := &Node{Tag: TagBlock, Arena: a, Payload: BlockPayload{Inside: inside, YieldTypes: ys}}
		if a.Config.CheckTypes && len(ys) == 1 {
			n.Type = ys[0]
		}
		return n
	})
}

// YieldTypes returns the declared result types of an instruction node.
// PrimOp/Call carry at most one implicit result via Type: their list
// holds that Type, or is empty when Type is nil.
func YieldTypes(n *Node) NodeList {
	switch p := n.Payload.(type) {
	case IfPayload:
		return p.YieldTypes
	case MatchPayload:
		return p.YieldTypes
	case LoopPayload:
		return p.YieldTypes
	case ControlPayload:
		return p.YieldTypes
	case BlockPayload:
		return p.YieldTypes
	default:
		if n.Type != nil {
			return NodeList{n.Type}
		}
		return nil
	}
}
