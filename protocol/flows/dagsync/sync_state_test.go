package dagsync

import (
	"reflect"
	"testing"

	"github.com/dagnet/dagd/util/daghash"
	"github.com/dagnet/dagd/wire"
)

func testSummary(hash byte, rank uint64, parents ...byte) *wire.BlockSummary {
	parentHashes := make([]*daghash.Hash, 0, len(parents))
	for _, parent := range parents {
		parentHashes = append(parentHashes, &daghash.Hash{parent})
	}
	return &wire.BlockSummary{
		BlockHash:    &daghash.Hash{hash},
		ParentHashes: parentHashes,
		Header:       &wire.SummaryHeader{Rank: rank},
	}
}

func TestSyncStateAdd(t *testing.T) {
	state := newSyncState()
	child := testSummary(3, 2, 1, 2)
	state.add(child)

	if len(state.summaries) != 1 {
		t.Fatalf("TestSyncStateAdd: expected 1 summary, got %d", len(state.summaries))
	}
	for _, dependency := range child.Dependencies() {
		children, ok := state.dag[*dependency]
		if !ok {
			t.Fatalf("TestSyncStateAdd: dependency %s is not a key of the dag", dependency)
		}
		if _, ok := children[*child.BlockHash]; !ok {
			t.Fatalf("TestSyncStateAdd: %s is not registered as a child of %s",
				child.BlockHash, dependency)
		}
	}
}

func TestSyncStateAddIsIdempotent(t *testing.T) {
	once := newSyncState()
	twice := newSyncState()
	summary := testSummary(3, 2, 1, 2)

	once.add(summary)
	twice.add(summary)
	twice.add(summary)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("TestSyncStateAddIsIdempotent: adding a summary twice changed the state")
	}
}

func TestDanglingParents(t *testing.T) {
	state := newSyncState()
	state.add(testSummary(3, 2, 2))
	state.add(testSummary(2, 1, 1))

	// 1 is referenced by 2 but was not received
	dangling := state.danglingParents()
	if len(dangling) != 1 || !dangling[0].IsEqual(&daghash.Hash{1}) {
		t.Fatalf("TestDanglingParents: expected [%s], got %v",
			&daghash.Hash{1}, daghash.Strings(dangling))
	}

	// once 1's summary arrives nothing is dangling, even though 1 has no
	// parents of its own
	state.add(testSummary(1, 0))
	if dangling := state.danglingParents(); len(dangling) != 0 {
		t.Fatalf("TestDanglingParents: expected no dangling parents, got %v",
			daghash.Strings(dangling))
	}
}

func TestParents(t *testing.T) {
	state := newSyncState()
	state.add(testSummary(4, 3, 3))
	state.add(testSummary(3, 2, 1, 2))

	frontier := map[daghash.Hash]struct{}{{4}: {}}

	parents := state.parents(frontier)
	if _, ok := parents[daghash.Hash{3}]; !ok || len(parents) != 1 {
		t.Fatalf("TestParents: expected {%s}, got %d hashes", &daghash.Hash{3}, len(parents))
	}

	parents = state.parents(parents)
	if len(parents) != 2 {
		t.Fatalf("TestParents: expected 2 parents, got %d", len(parents))
	}
	for _, expected := range []daghash.Hash{{1}, {2}} {
		if _, ok := parents[expected]; !ok {
			t.Fatalf("TestParents: expected %s to be a parent", &expected)
		}
	}

	if parents := state.parents(parents); len(parents) != 0 {
		t.Fatalf("TestParents: expected no parents above the roots, got %d", len(parents))
	}
}
