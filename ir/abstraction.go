package ir

// FunctionPayload is the payload of a Function: the entry abstraction
// of a call graph, owning a set of named BasicBlocks plus its entry
// body.
type FunctionPayload struct {
	Name        string
	Params      NodeList
	Results     NodeList
	Body        *Node // entry terminator, nil until SetBody
	BasicBlocks NodeList
	IsEntryPoint bool

	// IsLeaf is set by the mark_leaf_functions pass (spec.md §9's
	// supplemented leaf-function marking): true once the pipeline has
	// established this function's call graph contains no Call or
	// TailCall. Zero value (false) until that pass runs.
	IsLeaf bool
}

// BasicBlockPayload is the payload of a named, jump-targetable
// abstraction owned by exactly one Function.
type BasicBlockPayload struct {
	Name   string
	Params NodeList
	Body   *Node // nil until SetBody
}

// AnonymousLambdaPayload is the payload of a structurally-unique
// abstraction: the continuation of a Let, or the body of an
// If/Match/Loop/Control/Block instruction. An AnonymousLambda has at
// most one predecessor in any Scope (spec.md's uniqueness invariant).
type AnonymousLambdaPayload struct {
	Params NodeList
	Body   *Node // nil until SetBody
}

// Abstractions are identity-based, not structurally hash-consed: two
// Functions with identical params can still be distinct declarations.
// Construction therefore happens in two phases — NewXHeader allocates
// an unsealed node with a settled identity, and SetBody fills in the
// body afterward — so that a body referencing its own abstraction (a
// loop jumping back to its own header block) has something to point
// at before the body exists.

func (a *Arena) allocID() uint64 {
	id := a.nextID
	a.nextID++
	return id
}

// NewFunctionHeader allocates a Function with no body yet. Call
// SetFunctionBody once BasicBlocks/Body are known. params holds
// Variable nodes (a parameter is referenced inside the body the same
// way any other bound name is), not bare types; the function's own
// FnType is built from each param's carried VarType.
func (a *Arena) NewFunctionHeader(name string, params, results []*Node, isEntryPoint bool) *Node {
	name = a.InternString(name)
	n := &Node{
		Tag:   TagFunction,
		Arena: a,
		Payload: &FunctionPayload{
			Name:         name,
			Params:       a.InternNodes(params),
			Results:      a.InternNodes(results),
			IsEntryPoint: isEntryPoint,
		},
		id: a.allocID(),
	}
	if a.Config.CheckTypes {
		paramTypes := make([]*Node, len(params))
		for i, p := range params {
			paramTypes[i] = p.Type
		}
		n.Type = a.NewFnType(paramTypes, results, false)
	}
	if name != "" {
		a.byName[name] = n
	}
	return n
}

// SetFunctionBody fills in a Function header's basic blocks and entry
// body, and seals it. Calling it twice panics: a sealed abstraction is
// immutable, matching the rest of the arena's nodes.
func (a *Arena) SetFunctionBody(fn *Node, basicBlocks []*Node, body *Node) {
	if fn.sealed {
		panic("ir: function body already set")
	}
	p := fn.Payload.(*FunctionPayload)
	p.BasicBlocks = a.InternNodes(basicBlocks)
	p.Body = body
	fn.sealed = true
}

// NewBasicBlockHeader allocates a named BasicBlock with no body yet.
func (a *Arena) NewBasicBlockHeader(name string, params []*Node) *Node {
	name = a.InternString(name)
	n := &Node{
		Tag:   TagBasicBlock,
		Arena: a,
		Payload: &BasicBlockPayload{
			Name:   name,
			Params: a.InternNodes(params),
		},
		id: a.allocID(),
	}
	if name != "" {
		a.byName[name] = n
	}
	return n
}

// SetBasicBlockBody fills in a BasicBlock header's body and seals it.
func (a *Arena) SetBasicBlockBody(bb *Node, body *Node) {
	if bb.sealed {
		panic("ir: basic block body already set")
	}
	p := bb.Payload.(*BasicBlockPayload)
	p.Body = body
	bb.sealed = true
}

// NewAnonymousLambdaHeader allocates an AnonymousLambda with no body
// yet. Unlike Function/BasicBlock it is never registered by name: its
// identity, not a string, is what later code refers to it by.
func (a *Arena) NewAnonymousLambdaHeader(params []*Node) *Node {
	return &Node{
		Tag:   TagAnonymousLambda,
		Arena: a,
		Payload: &AnonymousLambdaPayload{
			Params: a.InternNodes(params),
		},
		id: a.allocID(),
	}
}

// SetAnonymousLambdaBody fills in an AnonymousLambda header's body and
// seals it.
func (a *Arena) SetAnonymousLambdaBody(lam *Node, body *Node) {
	if lam.sealed {
		panic("ir: anonymous lambda body already set")
	}
	p := lam.Payload.(*AnonymousLambdaPayload)
	p.Body = body
	lam.sealed = true
}

// Sealed reports whether an abstraction's SetBody call has run.
func (n *Node) Sealed() bool { return n.sealed }

// LookupByName resolves a Function, BasicBlock, GlobalVariable or
// Constant previously created with a non-empty name, as used by
// bind_program to turn Unbound references into direct pointers.
func (a *Arena) LookupByName(name string) (*Node, bool) {
	n, ok := a.byName[name]
	return n, ok
}
