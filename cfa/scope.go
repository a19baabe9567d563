package cfa

import "github.com/vkshade/shadyc/ir"

// EdgeKind discriminates why one CFNode reaches another: an actual
// runtime branch (ForwardEdge), or structural descent into a nested
// abstraction body (the rest).
type EdgeKind uint8

const (
	ForwardEdge EdgeKind = iota
	IfBodyEdge
	MatchBodyEdge
	LoopBodyEdge
	ControlBodyEdge
	BlockBodyEdge
	LetTailEdge
)

var edgeKindNames = [...]string{
	"Forward", "IfBody", "MatchBody", "LoopBody", "ControlBody", "BlockBody", "LetTail",
}

func (k EdgeKind) String() string {
	if int(k) < len(edgeKindNames) {
		return edgeKindNames[k]
	}
	return "Unknown"
}

// IsStructural reports whether the edge models descent into a nested
// abstraction body rather than a genuine runtime branch.
func (k EdgeKind) IsStructural() bool { return k != ForwardEdge }

// Edge is one directed edge of a Scope's graph.
type Edge struct {
	Kind EdgeKind
	Src  *CFNode
	Dst  *CFNode
}

// CFNode wraps one abstraction (Function entry, BasicBlock, or
// AnonymousLambda) as a vertex of a Scope's graph.
type CFNode struct {
	Node  *ir.Node
	Succs []Edge
	Preds []Edge

	rpoIndex int // -1 until ComputeRPO runs
}

// RPOIndex returns this node's reverse-postorder index, or -1 if
// ComputeRPO has not run on its Scope.
func (n *CFNode) RPOIndex() int { return n.rpoIndex }

// Scope is the control-flow graph of one Function: its entry plus
// every BasicBlock and AnonymousLambda transitively reachable from it.
// When built with a LoopTree filter, Entry is instead a loop header and
// Nodes is restricted to that loop's members.
type Scope struct {
	Entry *CFNode
	Nodes []*CFNode

	byIR map[*ir.Node]*CFNode

	loopEntry  *ir.Node
	loopFilter map[*ir.Node]bool // nil: unfiltered
}

// BuildScope walks fn's body (fn must be a sealed Function) and
// produces its Scope. Mirrors shady's build_scopes / get_or_enqueue /
// process_cf_node / process_instruction.
//
// When lt is non-nil, fn must instead be a loop header recorded in lt
// (see ComputeLoopTree), and the result is a sub-scope restricted to
// that loop: edges leaving the loop containing fn are pruned outright,
// as is the back edge into fn itself, so the sub-scope is a DAG rooted
// at the loop header rather than cyclic. Mirrors shady's
// new_scope_impl(entry, lt, false) / in_loop / add_edge's early
// return.
func BuildScope(fn *ir.Node, lt *LoopTree) *Scope {
	var loopFilter map[*ir.Node]bool
	if lt != nil {
		ln := loopHeaderedBy(lt, fn)
		if ln == nil {
			panic("cfa: BuildScope's lt must contain fn as a loop header")
		}
		loopFilter = make(map[*ir.Node]bool, len(ln.Members))
		for cf := range ln.Members {
			loopFilter[cf.Node] = true
		}
	} else if !fn.IsFunction() {
		panic("cfa: BuildScope requires a Function node")
	}

	s := &Scope{
		byIR:       make(map[*ir.Node]*CFNode, 16),
		loopEntry:  fn,
		loopFilter: loopFilter,
	}
	s.Entry = s.getOrEnqueue(fn)

	worklist := []*CFNode{s.Entry}
	for len(worklist) > 0 {
		n := worklist[0]
		worklist = worklist[1:]
		worklist = append(worklist, s.processCFNode(n)...)
	}
	return s
}

// loopHeaderedBy returns the LoopNode in lt whose header wraps n, or
// nil if n is not recorded as any loop's header.
func loopHeaderedBy(lt *LoopTree, n *ir.Node) *LoopNode {
	for cf, ln := range lt.ByHeader {
		if cf.Node == n {
			return ln
		}
	}
	return nil
}

func (s *Scope) getOrEnqueue(n *ir.Node) *CFNode {
	if existing, ok := s.byIR[n]; ok {
		return existing
	}
	cf := &CFNode{Node: n, rpoIndex: -1}
	s.byIR[n] = cf
	s.Nodes = append(s.Nodes, cf)
	return cf
}

func (s *Scope) addEdge(kind EdgeKind, src *CFNode, dst *ir.Node) *CFNode {
	if s.loopFilter != nil {
		if dst == s.loopEntry || !s.loopFilter[dst] {
			return nil
		}
	}

	isNew := s.byIR[dst] == nil
	target := s.getOrEnqueue(dst)
	e := Edge{Kind: kind, Src: src, Dst: target}
	src.Succs = append(src.Succs, e)
	target.Preds = append(target.Preds, e)
	if isNew {
		return target
	}
	return nil
}

// processCFNode adds every outgoing edge for n's body terminator and
// returns freshly discovered nodes to enqueue.
func (s *Scope) processCFNode(n *CFNode) []*CFNode {
	body := n.Node.Body()
	if body == nil {
		return nil
	}

	var fresh []*CFNode
	enqueue := func(kind EdgeKind, target *ir.Node) {
		if cf := s.addEdge(kind, n, target); cf != nil {
			fresh = append(fresh, cf)
		}
	}

	switch p := body.Payload.(type) {
	case ir.JumpPayload:
		enqueue(ForwardEdge, p.Target)
	case ir.BranchPayload:
		enqueue(ForwardEdge, p.TrueTarget)
		enqueue(ForwardEdge, p.FalseTarget)
	case ir.SwitchPayload:
		for _, c := range p.Cases {
			enqueue(ForwardEdge, c.Target)
		}
		if p.Default != nil {
			enqueue(ForwardEdge, p.Default)
		}
	case ir.LetPayload:
		fresh = append(fresh, s.processInstruction(n, p.Instruction)...)
		enqueue(LetTailEdge, p.Tail)
	// Return, Join, MergeBreak, MergeContinue, MergeYield, TailCall,
	// Unreachable: scope-local sinks, no outgoing edges.
	default:
	}
	return fresh
}

// processInstruction adds structural edges from n into the nested
// abstraction bodies an instruction introduces.
func (s *Scope) processInstruction(n *CFNode, instr *ir.Node) []*CFNode {
	var fresh []*CFNode
	enqueue := func(kind EdgeKind, target *ir.Node) {
		if target == nil {
			return
		}
		if cf := s.addEdge(kind, n, target); cf != nil {
			fresh = append(fresh, cf)
		}
	}

	switch p := instr.Payload.(type) {
	case ir.IfPayload:
		enqueue(IfBodyEdge, p.True)
		enqueue(IfBodyEdge, p.False)
	case ir.MatchPayload:
		for _, c := range p.Cases {
			enqueue(MatchBodyEdge, c.Body)
		}
		enqueue(MatchBodyEdge, p.Default)
	case ir.LoopPayload:
		enqueue(LoopBodyEdge, p.Body)
	case ir.ControlPayload:
		enqueue(ControlBodyEdge, p.Inside)
	case ir.BlockPayload:
		enqueue(BlockBodyEdge, p.Inside)
	default:
	}
	return fresh
}

// Lookup returns the CFNode wrapping n, if n participates in this
// Scope.
func (s *Scope) Lookup(n *ir.Node) (*CFNode, bool) {
	cf, ok := s.byIR[n]
	return cf, ok
}
