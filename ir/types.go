package ir

import "fmt"

// AddressSpace is the closed enumeration of memory regions a pointer
// may refer to (spec.md §3). The logical/physical distinction governs
// whether address arithmetic on the pointer is legal.
type AddressSpace uint8

const (
	GlobalLogical AddressSpace = iota
	GlobalPhysical
	SharedLogical
	SharedPhysical
	PrivateLogical
	PrivatePhysical
	SubgroupPhysical
	FunctionSpace
	Generic
	Input
	Output
	External
)

var addressSpaceNames = [...]string{
	"GlobalLogical", "GlobalPhysical", "SharedLogical", "SharedPhysical",
	"PrivateLogical", "PrivatePhysical", "SubgroupPhysical", "Function",
	"Generic", "Input", "Output", "External",
}

func (s AddressSpace) String() string {
	if int(s) < len(addressSpaceNames) {
		return addressSpaceNames[s]
	}
	return fmt.Sprintf("AddressSpace(%d)", uint8(s))
}

// IsLogical reports whether pointer arithmetic is illegal in this
// address space (the arena must lower it to a physical/generic
// representation before arithmetic is permitted).
func (s AddressSpace) IsLogical() bool {
	switch s {
	case GlobalLogical, SharedLogical, PrivateLogical:
		return true
	}
	return false
}

// Uniformity is the qualifier wrapping every value type: {Uniform,
// Varying, Unknown}, joined on control-flow merges (Uniform ⊑ Varying).
type Uniformity uint8

const (
	UniformityUnknown Uniformity = iota
	UniformityUniform
	UniformityVarying
)

func (u Uniformity) String() string {
	switch u {
	case UniformityUniform:
		return "Uniform"
	case UniformityVarying:
		return "Varying"
	default:
		return "Unknown"
	}
}

// Join computes the least upper bound of two qualifiers on the
// {Uniform ⊑ Varying} lattice, with Unknown absorbed by either side.
func (u Uniformity) Join(other Uniformity) Uniformity {
	if u == UniformityUnknown {
		return other
	}
	if other == UniformityUnknown {
		return u
	}
	if u == UniformityVarying || other == UniformityVarying {
		return UniformityVarying
	}
	return UniformityUniform
}

// PtrPayload is the payload of a Ptr type: Ptr{address-space, pointee}.
type PtrPayload struct {
	Space   AddressSpace
	Pointee *Node
}

// RecordPayload is the payload of a Record (struct) type.
type RecordPayload struct {
	Members NodeList
}

// FnTypePayload is the payload of a function type.
type FnTypePayload struct {
	Params         NodeList
	Results        NodeList
	IsContinuation bool
}

// QualifiedPayload wraps a value type with a uniformity qualifier.
// Qualifier is UniformityUnknown (the zero value) when the uniformity
// has not been determined.
type QualifiedPayload struct {
	Qualifier Uniformity
	Inner     *Node
}

// ArrayPayload is the payload of an array type. Size is nil for a
// runtime (unsized) array.
type ArrayPayload struct {
	Element *Node
	Size    *uint64
}

// NewInt interns the (widthless, surface-grammar) integer type.
func (a *Arena) NewInt() *Node {
	return a.intern("T:Int", func() *Node { return &Node{Tag: TagInt, Arena: a} })
}

// NewBool interns the boolean type.
func (a *Arena) NewBool() *Node {
	return a.intern("T:Bool", func() *Node { return &Node{Tag: TagBool, Arena: a} })
}

// NewFloat interns the floating-point type.
func (a *Arena) NewFloat() *Node {
	return a.intern("T:Float", func() *Node { return &Node{Tag: TagFloat, Arena: a} })
}

// NewMask interns the subgroup mask type.
func (a *Arena) NewMask() *Node {
	return a.intern("T:Mask", func() *Node { return &Node{Tag: TagMask, Arena: a} })
}

// NewPtr interns Ptr{space, pointee}.
func (a *Arena) NewPtr(space AddressSpace, pointee *Node) *Node {
	k := fmt.Sprintf("T:Ptr:%d:%s", space, key(pointee))
	return a.intern(k, func() *Node {
		return &Node{Tag: TagPtr, Arena: a, Payload: PtrPayload{Space: space, Pointee: pointee}}
	})
}

// NewRecord interns Record{members}.
func (a *Arena) NewRecord(members []*Node) *Node {
	ms := a.InternNodes(members)
	k := "T:Record:" + keys(ms)
	return a.intern(k, func() *Node {
		return &Node{Tag: TagRecord, Arena: a, Payload: RecordPayload{Members: ms}}
	})
}

// NewFnType interns FnType{params, results, is_continuation}.
func (a *Arena) NewFnType(params, results []*Node, isContinuation bool) *Node {
	ps, rs := a.InternNodes(params), a.InternNodes(results)
	k := fmt.Sprintf("T:FnType:%s|%s|%v", keys(ps), keys(rs), isContinuation)
	return a.intern(k, func() *Node {
		return &Node{Tag: TagFnType, Arena: a, Payload: FnTypePayload{Params: ps, Results: rs, IsContinuation: isContinuation}}
	})
}

// NewQualified interns Qualified{uniform?, inner}.
func (a *Arena) NewQualified(q Uniformity, inner *Node) *Node {
	k := fmt.Sprintf("T:Qualified:%d:%s", q, key(inner))
	return a.intern(k, func() *Node {
		return &Node{Tag: TagQualified, Arena: a, Payload: QualifiedPayload{Qualifier: q, Inner: inner}}
	})
}

// NewArray interns Array{element, size}. size == nil means
// runtime-sized.
func (a *Arena) NewArray(element *Node, size *uint64) *Node {
	sv := "?"
	if size != nil {
		sv = fmt.Sprintf("%d", *size)
	}
	k := fmt.Sprintf("T:Array:%s:%s", key(element), sv)
	return a.intern(k, func() *Node {
		var sz *uint64
		if size != nil {
			v := *size
			sz = &v
		}
		return &Node{Tag: TagArray, Arena: a, Payload: ArrayPayload{Element: element, Size: sz}}
	})
}

// Unqualify strips a Qualified wrapper, returning (inner, qualifier).
// If t is not Qualified, returns (t, UniformityUnknown).
func Unqualify(t *Node) (*Node, Uniformity) {
	if t == nil || t.Tag != TagQualified {
		return t, UniformityUnknown
	}
	p := t.Payload.(QualifiedPayload)
	return p.Inner, p.Qualifier
}
