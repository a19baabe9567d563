package cfa

// DomTree maps each reachable CFNode to its immediate dominator. The
// entry node dominates itself and has a nil immediate dominator.
type DomTree struct {
	rpo     []*CFNode
	idom    map[*CFNode]*CFNode
	entry   *CFNode
}

// ComputeDomTree runs the Cooper-Harvey-Kennedy "A Simple, Fast
// Dominance Algorithm" fixed-point iteration over rpo (as produced by
// ComputeRPO), using each node's Preds restricted to nodes already
// present in rpo.
func ComputeDomTree(s *Scope, rpo []*CFNode) *DomTree {
	idom := make(map[*CFNode]*CFNode, len(rpo))
	idom[s.Entry] = s.Entry

	changed := true
	for changed {
		changed = false
		for _, n := range rpo {
			if n == s.Entry {
				continue
			}
			var newIdom *CFNode
			for _, e := range n.Preds {
				p := e.Src
				if idom[p] == nil {
					continue // predecessor not yet processed this pass
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(idom, newIdom, p)
			}
			if newIdom != nil && idom[n] != newIdom {
				idom[n] = newIdom
				changed = true
			}
		}
	}
	idom[s.Entry] = nil

	return &DomTree{rpo: rpo, idom: idom, entry: s.Entry}
}

func intersect(idom map[*CFNode]*CFNode, a, b *CFNode) *CFNode {
	for a != b {
		for a.rpoIndex > b.rpoIndex {
			a = idom[a]
		}
		for b.rpoIndex > a.rpoIndex {
			b = idom[b]
		}
	}
	return a
}

// IDom returns n's immediate dominator, or nil if n is the tree's root.
func (t *DomTree) IDom(n *CFNode) *CFNode { return t.idom[n] }

// Dominates reports whether a dominates b (reflexively: a dominates
// itself).
func (t *DomTree) Dominates(a, b *CFNode) bool {
	for b != nil {
		if b == a {
			return true
		}
		b = t.idom[b]
	}
	return false
}

// Children returns n's immediate-dominator-tree children.
func (t *DomTree) Children(n *CFNode) []*CFNode {
	var kids []*CFNode
	for _, m := range t.rpo {
		if t.idom[m] == n && m != n {
			kids = append(kids, m)
		}
	}
	return kids
}
