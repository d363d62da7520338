package dagsync

import (
	"github.com/dagnet/dagd/util/daghash"
	"github.com/dagnet/dagd/wire"
)

// topologicalOrder returns the received summaries ordered so that a summary
// always precedes every summary that depends on it.
//
// The walk starts from the roots of the partial dag, hashes that are
// referenced as dependencies but are not dependents of anything, and releases
// each child only once all of its in-state parents were processed. Roots
// without a received summary contribute nothing to the output, but their
// children still flow through, their summaries are ancestors the local DAG
// already has.
func (state *syncState) topologicalOrder() []*wire.BlockSummary {
	// pendingParents counts, per child, the in-state parents that were not
	// processed yet.
	pendingParents := make(map[daghash.Hash]int)
	for _, parent := range state.dagOrder {
		for child := range state.dag[parent] {
			pendingParents[child]++
		}
	}

	queue := make([]daghash.Hash, 0, len(state.dagOrder))
	for _, parent := range state.dagOrder {
		if pendingParents[parent] == 0 {
			queue = append(queue, parent)
		}
	}
	// Summaries that are not referenced by anything and reference nothing
	// in-state are their own roots.
	for _, hash := range state.summaryOrder {
		if _, isParent := state.dag[hash]; isParent {
			continue
		}
		if pendingParents[hash] == 0 {
			queue = append(queue, hash)
		}
	}

	order := make([]*wire.BlockSummary, 0, len(state.summaries))
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]

		if summary, ok := state.summaries[hash]; ok {
			order = append(order, summary)
		}
		for child := range state.dag[hash] {
			pendingParents[child]--
			if pendingParents[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return order
}
