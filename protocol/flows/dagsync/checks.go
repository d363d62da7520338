package dagsync

import (
	"sort"

	"github.com/dagnet/dagd/util/daghash"
	"github.com/dagnet/dagd/wire"
)

// notTooDeep checks that the ancestry of the received summaries does not
// extend more than maxPossibleDepth parent hops back from the original sync
// targets. The walk goes over the partial dag accumulated so far, not over
// the local DAG.
func (state *syncState) notTooDeep(targets map[daghash.Hash]struct{}, maxPossibleDepth uint64) error {
	frontier := targets
	for level := uint64(1); ; level++ {
		frontier = state.parents(frontier)
		if len(frontier) == 0 {
			return nil
		}
		if level == maxPossibleDepth {
			return &TooDeepError{Frontier: hashSetToSlice(frontier), Limit: maxPossibleDepth}
		}
	}
}

// notTooWide checks that the population of each rank among the received
// summaries does not exceed the population of the rank below it by more than
// a factor of maxBranchingFactor. Ranks are compared in ascending order,
// whether or not they are consecutive integers.
func (state *syncState) notTooWide(maxBranchingFactor float64) error {
	populations := make(map[uint64]uint64)
	for _, summary := range state.summaries {
		populations[summary.Header.Rank]++
	}

	ranks := make([]uint64, 0, len(populations))
	for rank := range populations {
		ranks = append(ranks, rank)
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })

	for i := 0; i+1 < len(ranks); i++ {
		ratio := float64(populations[ranks[i+1]]) / float64(populations[ranks[i]])
		if ratio > maxBranchingFactor {
			return &TooWideError{Ratio: ratio, Limit: maxBranchingFactor}
		}
	}
	return nil
}

// reachable checks that the given summary is an ancestor of the original
// sync targets within maxHops parent hops. The summary must not have been
// added to the state yet, otherwise it could satisfy the check through its
// own dependency entries.
func (state *syncState) reachable(summary *wire.BlockSummary,
	targets map[daghash.Hash]struct{}, maxHops uint64) error {

	frontier := targets
	for hops := uint64(0); ; hops++ {
		if _, ok := frontier[*summary.BlockHash]; ok {
			return nil
		}
		if hops == maxHops {
			return &UnreachableError{Summary: summary, Limit: maxHops}
		}
		frontier = state.parents(frontier)
		if len(frontier) == 0 {
			return &UnreachableError{Summary: summary, Limit: maxHops}
		}
	}
}

func hashSetToSlice(set map[daghash.Hash]struct{}) []*daghash.Hash {
	hashes := make([]*daghash.Hash, 0, len(set))
	for hash := range set {
		hash := hash
		hashes = append(hashes, &hash)
	}
	return hashes
}

func hashSliceToSet(hashes []*daghash.Hash) map[daghash.Hash]struct{} {
	set := make(map[daghash.Hash]struct{}, len(hashes))
	for _, hash := range hashes {
		set[*hash] = struct{}{}
	}
	return set
}
