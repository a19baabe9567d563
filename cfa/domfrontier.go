package cfa

// DominanceFrontier computes, for every node in rpo, the set of nodes
// at which n's dominance stops along some path — the classic Cytron
// et al. definition. Per shady's scope_get_dom_frontier, the result
// can and does contain duplicate entries when more than one predecessor
// path reaches the frontier node through n; callers that need a set
// must dedupe themselves.
func DominanceFrontier(tree *DomTree, rpo []*CFNode) map[*CFNode][]*CFNode {
	df := make(map[*CFNode][]*CFNode, len(rpo))
	for _, n := range rpo {
		if len(n.Preds) < 2 {
			continue
		}
		for _, e := range n.Preds {
			runner := e.Src
			for runner != nil && runner != tree.IDom(n) {
				df[runner] = append(df[runner], n)
				runner = tree.IDom(runner)
			}
		}
	}
	return df
}
