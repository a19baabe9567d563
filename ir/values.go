package ir

import "fmt"

// IntLiteralPayload is the payload of an integer literal value.
type IntLiteralPayload struct {
	Value int64
}

// VariablePayload is the payload of a bound variable reference.
type VariablePayload struct {
	Name string
	// VarType is the variable's declared, Qualified type.
	VarType *Node
}

// UnboundPayload is the payload of an identifier not yet resolved to
// a definition. No Unbound node may remain once an arena is
// NameBound.
type UnboundPayload struct {
	Name string
}

// UntypedNumberPayload is the payload of a numeric literal whose
// concrete type has not yet been pinned down by context.
type UntypedNumberPayload struct {
	Text string
}

// NewIntLiteral interns an integer literal and, when the arena checks
// types, attaches Qualified(Uniform, Int).
func (a *Arena) NewIntLiteral(v int64) *Node {
	k := fmt.Sprintf("V:IntLiteral:%d", v)
	return a.intern(k, func() *Node {
		n := &Node{Tag: TagIntLiteral, Arena: a, Payload: IntLiteralPayload{Value: v}}
		if a.Config.CheckTypes {
			n.Type = a.NewQualified(UniformityUniform, a.NewInt())
		}
		return n
	})
}

// NewTrue interns the boolean literal `true`.
func (a *Arena) NewTrue() *Node {
	return a.intern("V:True", func() *Node {
		n := &Node{Tag: TagTrue, Arena: a}
		if a.Config.CheckTypes {
			n.Type = a.NewQualified(UniformityUniform, a.NewBool())
		}
		return n
	})
}

// NewFalse interns the boolean literal `false`.
func (a *Arena) NewFalse() *Node {
	return a.intern("V:False", func() *Node {
		n := &Node{Tag: TagFalse, Arena: a}
		if a.Config.CheckTypes {
			n.Type = a.NewQualified(UniformityUniform, a.NewBool())
		}
		return n
	})
}

// NewVariable interns a bound variable reference. Its type is copied
// from varType, which must already be a Qualified type when the arena
// checks types.
func (a *Arena) NewVariable(name string, varType *Node) *Node {
	name = a.InternString(name)
	k := fmt.Sprintf("V:Variable:%s:%s", name, key(varType))
	return a.intern(k, func() *Node {
		n := &Node{Tag: TagVariable, Arena: a, Payload: VariablePayload{Name: name, VarType: varType}}
		if a.Config.CheckTypes {
			n.Type = varType
		}
		return n
	})
}

// NewUnbound interns an unresolved identifier reference. Only legal
// in an arena that is not yet NameBound.
func (a *Arena) NewUnbound(name string) *Node {
	name = a.InternString(name)
	k := "V:Unbound:" + name
	return a.intern(k, func() *Node {
		return &Node{Tag: TagUnbound, Arena: a, Payload: UnboundPayload{Name: name}}
	})
}

// NewUntypedNumber interns a numeric literal with deferred typing.
// infer_program resolves it to a concrete IntLiteral once context
// pins its kind; at construction time under CheckTypes it defaults to
// Qualified(Uniform, Int), matching the surface grammar's lack of a
// distinct float-literal token.
func (a *Arena) NewUntypedNumber(text string) *Node {
	text = a.InternString(text)
	k := "V:UntypedNumber:" + text
	return a.intern(k, func() *Node {
		n := &Node{Tag: TagUntypedNumber, Arena: a, Payload: UntypedNumberPayload{Text: text}}
		if a.Config.CheckTypes {
			n.Type = a.NewQualified(UniformityUniform, a.NewInt())
		}
		return n
	})
}
