package ir

import "sync/atomic"

// IntWidth selects the bit width used for the word and pointer integer
// representations an Arena's config commits to (spec.md "word/pointer
// integer widths").
type IntWidth uint8

const (
	IntWidth32 IntWidth = 32
	IntWidth64 IntWidth = 64
)

// SubgroupMaskRepresentation selects how subgroup masks are represented
// once lower_mask has run.
type SubgroupMaskRepresentation uint8

const (
	SubgroupMaskInt64 SubgroupMaskRepresentation = iota
	SubgroupMaskInt32Array
)

// Config is an Arena's dialect configuration. Each pipeline stage may
// strengthen (never weaken) a destination arena's Config relative to
// its source, per the pipeline's monotonicity invariant.
type Config struct {
	// CheckTypes requires every value/instruction node to carry a
	// resolved, interned type.
	CheckTypes bool
	// NameBound requires no Unbound node remain: every Variable
	// resolves to a definition in lexical scope.
	NameBound bool
	// AllowFold permits passes to constant-fold PrimOps at
	// construction time.
	AllowFold bool
	// IsSIMT is true until simt2d lowers the program to explicit SIMD.
	IsSIMT bool
	// ValidateBuiltinTypes requires builtin variable references to
	// carry their canonical types (set after normalize_builtins).
	ValidateBuiltinTypes bool

	WordWidth IntWidth
	PtrWidth  IntWidth

	SubgroupSize           int
	SubgroupMaskRepr       SubgroupMaskRepresentation
}

// DefaultConfig mirrors shady's default_arena_config(): SIMT, 32-bit
// words, 64-bit pointers, no typing/binding assumed yet.
func DefaultConfig() Config {
	return Config{
		IsSIMT:    true,
		WordWidth: IntWidth32,
		PtrWidth:  IntWidth64,
	}
}

// Arena is a bump-allocated, hash-consing owner of Nodes, node lists,
// and interned strings. Nodes are never mutated after interning
// (Function/BasicBlock/AnonymousLambda bodies excepted during their
// narrow header-then-body construction window, see Node.sealed).
type Arena struct {
	Config Config

	nodes      map[string]*Node
	nodeLists  map[string]NodeList
	strings    map[string]string
	byName     map[string]*Node // named functions, basic blocks, globals and constants, for bind_program lookups

	nextID   uint64
	nextFree uint32 // fresh_id() counter, independent of node ids
	alive    int32
}

// NewArena creates an empty Arena with the given Config.
func NewArena(cfg Config) *Arena {
	return &Arena{
		Config:    cfg,
		nodes:     make(map[string]*Node, 64),
		nodeLists: make(map[string]NodeList, 16),
		strings:   make(map[string]string, 16),
		byName:    make(map[string]*Node, 16),
		alive:     1,
	}
}

// FreshID returns a monotonically increasing id, used to mint unique
// variable/lambda names (unique_name in shady).
func (a *Arena) FreshID() uint32 {
	return atomic.AddUint32(&a.nextFree, 1) - 1
}

// InternString deduplicates a string within this arena.
func (a *Arena) InternString(s string) string {
	if existing, ok := a.strings[s]; ok {
		return existing
	}
	a.strings[s] = s
	return s
}

// Destroy releases every node this arena owns. No node may outlive
// its arena; callers must not dereference nodes from a destroyed
// arena.
func (a *Arena) Destroy() {
	if atomic.SwapInt32(&a.alive, 0) == 0 {
		return
	}
	a.nodes = nil
	a.nodeLists = nil
	a.strings = nil
	a.byName = nil
}

// Alive reports whether the arena has not yet been destroyed.
func (a *Arena) Alive() bool {
	return atomic.LoadInt32(&a.alive) != 0
}

// intern looks up key in the node table, returning the existing node
// if present, or storing and returning build() otherwise. This is the
// single choke point implementing hash-consing (spec.md "Structural
// sharing" invariant): two construction sequences producing the same
// key always yield the same *Node.
func (a *Arena) intern(key string, build func() *Node) *Node {
	if existing, ok := a.nodes[key]; ok {
		return existing
	}
	n := build()
	n.id = a.nextID
	a.nextID++
	a.nodes[key] = n
	return n
}

// NodeList is an interned, immutable slice of *Node, analogous to
// shady's Nodes type — deduplicated the same way individual nodes are.
type NodeList []*Node

// InternNodes deduplicates a slice of nodes by content (same tags,
// same pointers, same order).
func (a *Arena) InternNodes(ns []*Node) NodeList {
	key := nodeListKey(ns)
	if existing, ok := a.nodeLists[key]; ok {
		return existing
	}
	cp := make(NodeList, len(ns))
	copy(cp, ns)
	a.nodeLists[key] = cp
	return cp
}
