package ir

import "fmt"

// GlobalVariablePayload is the payload of a module-scope variable
// living in a specific address space, optionally carrying a builtin
// binding recognized by normalize_builtins.
type GlobalVariablePayload struct {
	Name    string
	Space   AddressSpace
	Type    *Node // the pointee type; the variable's own type is Ptr{Space, Type}
	Builtin string // "" unless this models a target builtin (e.g. "GlobalInvocationId")
	Init    *Node  // optional initial value, nil if none
}

// ConstantPayload is the payload of a module-scope named constant.
type ConstantPayload struct {
	Name  string
	Value *Node
}

// RootPayload is the payload of the single Root node anchoring an
// arena's whole program: every declaration and function reachable from
// the module lives in Decls.
type RootPayload struct {
	Decls NodeList
}

// NewGlobalVariable interns a module-scope variable declaration.
func (a *Arena) NewGlobalVariable(name string, space AddressSpace, ty *Node, builtin string, init *Node) *Node {
	name = a.InternString(name)
	k := fmt.Sprintf("D:GlobalVariable:%s:%d:%s:%s:%s", name, space, key(ty), builtin, key(init))
	return a.intern(k, func() *Node {
		n := &Node{Tag: TagGlobalVariable, Arena: a, Payload: &GlobalVariablePayload{
			Name: name, Space: space, Type: ty, Builtin: builtin, Init: init,
		}}
		if a.Config.CheckTypes {
			n.Type = a.NewQualified(UniformityUniform, a.NewPtr(space, ty))
		}
		if name != "" {
			a.byName[name] = n
		}
		return n
	})
}

// NewConstant interns a module-scope named constant.
func (a *Arena) NewConstant(name string, value *Node) *Node {
	name = a.InternString(name)
	k := fmt.Sprintf("D:Constant:%s:%s", name, key(value))
	return a.intern(k, func() *Node {
		n := &Node{Tag: TagConstant, Arena: a, Payload: &ConstantPayload{Name: name, Value: value}}
		if a.Config.CheckTypes {
			n.Type = value.Type
		}
		if name != "" {
			a.byName[name] = n
		}
		return n
	})
}

// NewRoot interns the arena's single program root over a fixed set of
// declarations.
func (a *Arena) NewRoot(decls []*Node) *Node {
	ds := a.InternNodes(decls)
	k := "D:Root:" + keys(ds)
	return a.intern(k, func() *Node {
		return &Node{Tag: TagRoot, Arena: a, Payload: &RootPayload{Decls: ds}}
	})
}
