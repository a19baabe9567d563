package ir

import (
	"fmt"
	"strings"
)

// Tag discriminates the payload carried by a Node. The tag set mirrors
// spec.md's node families: types, values, instructions, terminators,
// abstractions, and declarations.
type Tag uint16

const (
	TagInvalid Tag = iota

	// Types
	TagInt
	TagBool
	TagFloat
	TagMask
	TagPtr
	TagRecord
	TagFnType
	TagQualified
	TagArray

	// Values
	TagIntLiteral
	TagTrue
	TagFalse
	TagVariable
	TagUnbound
	TagUntypedNumber

	// Instructions
	TagPrimOp
	TagCall
	TagIf
	TagMatch
	TagLoop
	TagControl
	TagBlock

	// Terminators
	TagJump
	TagBranch
	TagSwitch
	TagReturn
	TagLet
	TagJoin
	TagMergeBreak
	TagMergeContinue
	TagMergeYield
	TagTailCall
	TagUnreachable

	// Abstractions
	TagFunction
	TagBasicBlock
	TagAnonymousLambda

	// Declarations
	TagGlobalVariable
	TagConstant
	TagRoot
)

var tagNames = map[Tag]string{
	TagInvalid: "Invalid",

	TagInt: "Int", TagBool: "Bool", TagFloat: "Float", TagMask: "Mask",
	TagPtr: "Ptr", TagRecord: "Record", TagFnType: "FnType",
	TagQualified: "Qualified", TagArray: "Array",

	TagIntLiteral: "IntLiteral", TagTrue: "True", TagFalse: "False",
	TagVariable: "Variable", TagUnbound: "Unbound", TagUntypedNumber: "UntypedNumber",

	TagPrimOp: "PrimOp", TagCall: "Call", TagIf: "If", TagMatch: "Match",
	TagLoop: "Loop", TagControl: "Control", TagBlock: "Block",

	TagJump: "Jump", TagBranch: "Branch", TagSwitch: "Switch",
	TagReturn: "Return", TagLet: "Let", TagJoin: "Join",
	TagMergeBreak: "MergeBreak", TagMergeContinue: "MergeContinue",
	TagMergeYield: "MergeYield", TagTailCall: "TailCall", TagUnreachable: "Unreachable",

	TagFunction: "Function", TagBasicBlock: "BasicBlock", TagAnonymousLambda: "AnonymousLambda",

	TagGlobalVariable: "GlobalVariable", TagConstant: "Constant", TagRoot: "Root",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", uint16(t))
}

// Node is every IR entity: a tag plus a tag-specific Payload, owned by
// exactly one Arena. Outside of the abstraction header/body window
// (see sealed), nodes are immutable once interned.
type Node struct {
	Tag     Tag
	Arena   *Arena
	Payload any

	// Type is this node's resolved, interned type. Only set for
	// value/instruction nodes, and only when Arena.Config.CheckTypes
	// is true (spec.md "Typing" invariant). Types themselves have a
	// nil Type.
	Type *Node

	id     uint64
	sealed bool // abstractions: false until SetBody has run
}

// IsType reports whether the node belongs to the type family.
func (n *Node) IsType() bool {
	switch n.Tag {
	case TagInt, TagBool, TagFloat, TagMask, TagPtr, TagRecord, TagFnType, TagQualified, TagArray:
		return true
	}
	return false
}

// IsValue reports whether the node belongs to the value family.
func (n *Node) IsValue() bool {
	switch n.Tag {
	case TagIntLiteral, TagTrue, TagFalse, TagVariable, TagUnbound, TagUntypedNumber:
		return true
	}
	return false
}

// IsInstruction reports whether the node is an instruction (appears
// under a Let).
func (n *Node) IsInstruction() bool {
	switch n.Tag {
	case TagPrimOp, TagCall, TagIf, TagMatch, TagLoop, TagControl, TagBlock:
		return true
	}
	return false
}

// IsTerminator reports whether the node is a terminator (ends a
// basic block's body).
func (n *Node) IsTerminator() bool {
	switch n.Tag {
	case TagJump, TagBranch, TagSwitch, TagReturn, TagLet, TagJoin,
		TagMergeBreak, TagMergeContinue, TagMergeYield, TagTailCall, TagUnreachable:
		return true
	}
	return false
}

// IsAbstraction reports whether the node binds parameters and holds a
// body: Function, BasicBlock, or AnonymousLambda.
func (n *Node) IsAbstraction() bool {
	switch n.Tag {
	case TagFunction, TagBasicBlock, TagAnonymousLambda:
		return true
	}
	return false
}

// IsFunction reports whether the node is a Function.
func (n *Node) IsFunction() bool { return n.Tag == TagFunction }

// IsAnonymousLambda reports whether the node is an AnonymousLambda —
// structurally unique, at most one predecessor in any Scope.
func (n *Node) IsAnonymousLambda() bool { return n.Tag == TagAnonymousLambda }

// IsBasicBlock reports whether the node is a named BasicBlock.
func (n *Node) IsBasicBlock() bool { return n.Tag == TagBasicBlock }

// Body returns the abstraction's body terminator, or nil if the
// header has been constructed but the body has not yet been filled
// in (spec.md §9's header-first construction protocol).
func (n *Node) Body() *Node {
	switch p := n.Payload.(type) {
	case *FunctionPayload:
		return p.Body
	case *BasicBlockPayload:
		return p.Body
	case *AnonymousLambdaPayload:
		return p.Body
	default:
		return nil
	}
}

// Name returns the declared name of a Function, BasicBlock, Variable,
// GlobalVariable, or Constant, or "" for nodes with no name.
func (n *Node) Name() string {
	switch p := n.Payload.(type) {
	case *FunctionPayload:
		return p.Name
	case *BasicBlockPayload:
		return p.Name
	case VariablePayload:
		return p.Name
	case UnboundPayload:
		return p.Name
	case *GlobalVariablePayload:
		return p.Name
	case *ConstantPayload:
		return p.Name
	default:
		return ""
	}
}

// key returns the pointer-identity key used to look a node up inside
// intern tables it participates as a child of. Hashing by pointer
// identity (rather than recursing into the child's own payload) is
// what keeps intern() O(payload size), per spec.md §4.A.
func key(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%p", n)
}

func nodeListKey(ns []*Node) string {
	var b strings.Builder
	for _, n := range ns {
		b.WriteString(key(n))
		b.WriteByte(',')
	}
	return b.String()
}

func keys(ns []*Node) string {
	return nodeListKey(ns)
}
