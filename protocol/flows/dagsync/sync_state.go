package dagsync

import (
	"github.com/dagnet/dagd/util/daghash"
	"github.com/dagnet/dagd/wire"
)

// syncState accumulates the block summaries received during a single sync
// call, along with the partial DAG structure they induce.
//
// The dag map is a parent-to-children index: dag[p] holds the hashes of every
// received summary that lists p as a dependency. Its key set may contain
// hashes whose own summary was not received, these are the dangling parents.
//
// A syncState belongs to a single sync call and is never shared, so it
// requires no locking.
type syncState struct {
	summaries map[daghash.Hash]*wire.BlockSummary
	dag       map[daghash.Hash]map[daghash.Hash]struct{}

	// dagOrder holds the keys of dag in insertion order, summaryOrder the
	// keys of summaries in arrival order
	dagOrder     []daghash.Hash
	summaryOrder []daghash.Hash
}

func newSyncState() *syncState {
	return &syncState{
		summaries: make(map[daghash.Hash]*wire.BlockSummary),
		dag:       make(map[daghash.Hash]map[daghash.Hash]struct{}),
	}
}

// add inserts the given summary into the state and registers it as a child
// of each of its dependencies. Re-adding a summary that is already present
// is a no-op.
func (state *syncState) add(summary *wire.BlockSummary) {
	if _, ok := state.summaries[*summary.BlockHash]; ok {
		return
	}
	state.summaries[*summary.BlockHash] = summary
	state.summaryOrder = append(state.summaryOrder, *summary.BlockHash)

	for _, dependency := range summary.Dependencies() {
		children, ok := state.dag[*dependency]
		if !ok {
			children = make(map[daghash.Hash]struct{})
			state.dag[*dependency] = children
			state.dagOrder = append(state.dagOrder, *dependency)
		}
		children[*summary.BlockHash] = struct{}{}
	}
}

// danglingParents returns the hashes that some received summary references
// as a dependency but whose own summary was not received, in the order they
// were first referenced.
func (state *syncState) danglingParents() []*daghash.Hash {
	var dangling []*daghash.Hash
	for i := range state.dagOrder {
		parent := &state.dagOrder[i]
		if _, ok := state.summaries[*parent]; !ok {
			dangling = append(dangling, parent)
		}
	}
	return dangling
}

// parents returns every hash that is a parent of at least one member of the
// given frontier, under the parent relation induced by the received
// summaries: p is a parent of c iff c lists p as a dependency.
func (state *syncState) parents(frontier map[daghash.Hash]struct{}) map[daghash.Hash]struct{} {
	parents := make(map[daghash.Hash]struct{})
	for _, parent := range state.dagOrder {
		for child := range state.dag[parent] {
			if _, ok := frontier[child]; ok {
				parents[parent] = struct{}{}
				break
			}
		}
	}
	return parents
}
