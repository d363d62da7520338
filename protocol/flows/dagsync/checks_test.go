package dagsync

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/dagnet/dagd/util/daghash"
)

// chainState builds a state containing a linear chain of summaries hanging
// off the given target: target <- 1 <- 2 <- ... <- depth hops.
func chainState(target byte, depth int) (*syncState, map[daghash.Hash]struct{}) {
	state := newSyncState()
	child := target
	for hop := 1; hop <= depth; hop++ {
		parent := target + byte(hop)
		state.add(testSummary(child, uint64(depth-hop+1), parent))
		child = parent
	}
	targets := map[daghash.Hash]struct{}{{target}: {}}
	return state, targets
}

func TestNotTooDeep(t *testing.T) {
	const maxPossibleDepth = 3

	state, targets := chainState(1, maxPossibleDepth-1)
	if err := state.notTooDeep(targets, maxPossibleDepth); err != nil {
		t.Fatalf("TestNotTooDeep: expected a chain of depth %d to pass, got: %+v",
			maxPossibleDepth-1, err)
	}

	state, targets = chainState(1, maxPossibleDepth)
	err := state.notTooDeep(targets, maxPossibleDepth)
	var tooDeepErr *TooDeepError
	if !errors.As(err, &tooDeepErr) {
		t.Fatalf("TestNotTooDeep: expected TooDeepError for a chain of depth %d, got: %+v",
			maxPossibleDepth, err)
	}
	if tooDeepErr.Limit != maxPossibleDepth {
		t.Fatalf("TestNotTooDeep: expected limit %d, got %d", maxPossibleDepth, tooDeepErr.Limit)
	}
	if len(tooDeepErr.Frontier) != 1 {
		t.Fatalf("TestNotTooDeep: expected a frontier of 1 hash, got %d", len(tooDeepErr.Frontier))
	}
}

func TestNotTooWide(t *testing.T) {
	const maxBranchingFactor = 2.0

	// ranks 10 and 11 with populations 2 and 4: ratio exactly at the limit
	state := newSyncState()
	state.add(testSummary(1, 10))
	state.add(testSummary(2, 10))
	for hash := byte(3); hash <= 6; hash++ {
		state.add(testSummary(hash, 11))
	}
	if err := state.notTooWide(maxBranchingFactor); err != nil {
		t.Fatalf("TestNotTooWide: expected a ratio at the limit to pass, got: %+v", err)
	}

	// a fifth rank-11 summary pushes the ratio to 2.5. Note rank 12 is
	// skipped entirely, adjacency is by sort order, not by rank value.
	state.add(testSummary(7, 11))
	state.add(testSummary(8, 13))

	err := state.notTooWide(maxBranchingFactor)
	var tooWideErr *TooWideError
	if !errors.As(err, &tooWideErr) {
		t.Fatalf("TestNotTooWide: expected TooWideError, got: %+v", err)
	}
	if tooWideErr.Ratio != 2.5 || tooWideErr.Limit != maxBranchingFactor {
		t.Fatalf("TestNotTooWide: expected ratio 2.5 with limit %g, got ratio %g with limit %g",
			maxBranchingFactor, tooWideErr.Ratio, tooWideErr.Limit)
	}
}

func TestNotTooWideReportsFirstOffendingRatio(t *testing.T) {
	// populations: rank 1 -> 1, rank 2 -> 3, rank 3 -> 12. Both adjacent
	// ratios offend, the lower-rank one must be the one reported.
	state := newSyncState()
	hash := byte(1)
	for rank, population := range map[uint64]int{1: 1, 2: 3, 3: 12} {
		for i := 0; i < population; i++ {
			state.add(testSummary(hash, rank))
			hash++
		}
	}

	err := state.notTooWide(2.0)
	var tooWideErr *TooWideError
	if !errors.As(err, &tooWideErr) {
		t.Fatalf("TestNotTooWideReportsFirstOffendingRatio: expected TooWideError, got: %+v", err)
	}
	if tooWideErr.Ratio != 3.0 {
		t.Fatalf("TestNotTooWideReportsFirstOffendingRatio: expected the rank 1 to 2 ratio 3, got %g",
			tooWideErr.Ratio)
	}
}

func TestReachable(t *testing.T) {
	const maxHops = 3

	state, targets := chainState(1, maxHops)

	// an ancestor at exactly maxHops hops is reachable
	atLimit := testSummary(1+maxHops, 0)
	if err := state.reachable(atLimit, targets, maxHops); err != nil {
		t.Fatalf("TestReachable: expected an ancestor at %d hops to be reachable, got: %+v",
			maxHops, err)
	}

	// one hop further is not
	state.add(testSummary(1+maxHops, 0, 1+maxHops+1))
	pastLimit := testSummary(1+maxHops+1, 0)
	err := state.reachable(pastLimit, targets, maxHops)
	var unreachableErr *UnreachableError
	if !errors.As(err, &unreachableErr) {
		t.Fatalf("TestReachable: expected UnreachableError past the hop limit, got: %+v", err)
	}
	if !unreachableErr.Summary.BlockHash.IsEqual(pastLimit.BlockHash) {
		t.Fatalf("TestReachable: expected the error to carry summary %s, got %s",
			pastLimit.BlockHash, unreachableErr.Summary.BlockHash)
	}

	// a summary with no connection to the targets fails once the walk runs
	// out of parents
	disconnected := testSummary(0xff, 0)
	if err := state.reachable(disconnected, targets, maxHops); !errors.As(err, &unreachableErr) {
		t.Fatalf("TestReachable: expected UnreachableError for a disconnected summary, got: %+v", err)
	}
}
