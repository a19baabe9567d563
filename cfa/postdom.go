package cfa

// flipped is a throwaway Scope-like graph with every edge
// reversed, used to compute post-dominance by reusing ComputeRPO and
// ComputeDomTree unchanged. When the original scope has more than one
// sink (a node with no successors), a synthetic entry is added and
// connected to each of them, mirroring shady's flip_scope.
type flipped struct {
	entry *CFNode
	nodes []*CFNode
}

// ComputePostDomTree computes the post-dominator tree of s, restricted
// to the reachable set rpo. The returned tree's "entry" is the
// synthetic sink (or the single real sink, if there was exactly one);
// callers should use IDom/Dominates, not assume Entry is a real node.
func ComputePostDomTree(s *Scope, rpo []*CFNode) *DomTree {
	reachable := make(map[*CFNode]bool, len(rpo))
	for _, n := range rpo {
		reachable[n] = true
	}

	flippedOf := make(map[*CFNode]*CFNode, len(rpo))
	for _, n := range rpo {
		flippedOf[n] = &CFNode{Node: n.Node, rpoIndex: -1}
	}

	var sinks []*CFNode
	for _, n := range rpo {
		fn := flippedOf[n]
		for _, e := range n.Succs {
			if !reachable[e.Dst] {
				continue
			}
			fd := flippedOf[e.Dst]
			edge := Edge{Kind: e.Kind, Src: fd, Dst: fn}
			fd.Succs = append(fd.Succs, edge)
			fn.Preds = append(fn.Preds, edge)
		}
		if len(n.Succs) == 0 {
			sinks = append(sinks, n)
		}
	}

	var syntheticEntry *CFNode
	if len(sinks) == 1 {
		syntheticEntry = flippedOf[sinks[0]]
	} else {
		syntheticEntry = &CFNode{rpoIndex: -1}
		for _, sink := range sinks {
			fd := flippedOf[sink]
			edge := Edge{Kind: ForwardEdge, Src: syntheticEntry, Dst: fd}
			syntheticEntry.Succs = append(syntheticEntry.Succs, edge)
			fd.Preds = append(fd.Preds, edge)
		}
	}

	pseudo := &Scope{Entry: syntheticEntry}
	for _, fn := range flippedOf {
		pseudo.Nodes = append(pseudo.Nodes, fn)
	}
	if syntheticEntry.Node == nil {
		pseudo.Nodes = append(pseudo.Nodes, syntheticEntry)
	}

	frpo := ComputeRPO(pseudo)
	tree := ComputeDomTree(pseudo, frpo)

	// Translate back: expose the tree keyed by the original CFNodes.
	back := make(map[*CFNode]*CFNode, len(rpo))
	for orig, fn := range flippedOf {
		back[orig] = fn
	}
	return &DomTree{rpo: frpo, idom: translateIdom(tree.idom, back), entry: syntheticEntry}
}

func translateIdom(flippedIdom map[*CFNode]*CFNode, origOfFlipped map[*CFNode]*CFNode) map[*CFNode]*CFNode {
	flippedOfOrig := make(map[*CFNode]*CFNode, len(origOfFlipped))
	for orig, fl := range origOfFlipped {
		flippedOfOrig[fl] = orig
	}
	result := make(map[*CFNode]*CFNode, len(flippedIdom))
	for fl, flIdom := range flippedIdom {
		orig, ok := flippedOfOrig[fl]
		if !ok {
			continue // the synthetic entry itself has no original counterpart
		}
		if flIdom == nil {
			result[orig] = nil
			continue
		}
		result[orig] = flippedOfOrig[flIdom]
	}
	return result
}
