package dagsync

import (
	routerpkg "github.com/dagnet/dagd/netadapter/router"
	"github.com/dagnet/dagd/protocol/common"
	peerpkg "github.com/dagnet/dagd/protocol/peer"
	"github.com/dagnet/dagd/protocol/protocolerrors"
	"github.com/dagnet/dagd/util/daghash"
	"github.com/dagnet/dagd/wire"
)

// Backend is the view of the local DAG the synchronizer consumes.
type Backend interface {
	Tips() ([]*daghash.Hash, error)
	Justifications() ([]*daghash.Hash, error)
	IsInDAG(hash *daghash.Hash) (bool, error)
	ValidateSummary(summary *wire.BlockSummary) error
}

// SyncContext is the interface for the context needed to sync ancestor
// summaries from a peer.
type SyncContext interface {
	Backend() Backend
	MaxPossibleDepth() uint64
	MaxBranchingFactor() float64
	MaxDepthAncestorsRequest() uint64
}

// SyncDAG downloads from the peer the ancestry of the given target hashes
// that the local DAG does not have yet, and returns the received summaries
// in an order where a summary always precedes its dependents.
//
// Each received summary is admitted only if the ancestry accumulated so far
// stays within the configured depth and branching bounds, the summary is an
// ancestor of the original targets, and it passes validation. Any summary
// failing admission aborts the sync.
//
// When the received summaries reference ancestors that are neither received
// nor in the local DAG, the missing hashes are re-requested from the peer
// until the gap closes or the peer stops making progress.
func SyncDAG(context SyncContext, incomingRoute *routerpkg.Route, outgoingRoute *routerpkg.Route,
	peer *peerpkg.Peer, targetHashes []*daghash.Hash) ([]*wire.BlockSummary, error) {

	// The known frontier is snapshotted once and reused unchanged across
	// re-requests within this call.
	tips, err := context.Backend().Tips()
	if err != nil {
		return nil, err
	}
	justifications, err := context.Backend().Justifications()
	if err != nil {
		return nil, err
	}
	knownHashes := append(tips, justifications...)

	state := newSyncState()
	originalTargets := hashSliceToSet(targetHashes)

	requestTargets := targetHashes
	var missing []*daghash.Hash
	for {
		previousCount := len(state.summaries)
		err := downloadAncestorSummaries(context, state, incomingRoute, outgoingRoute,
			requestTargets, knownHashes, originalTargets)
		if err != nil {
			return nil, err
		}

		missing, err = missingDanglingParents(context.Backend(), state)
		if err != nil {
			return nil, err
		}
		if len(missing) == 0 {
			break
		}
		if len(state.summaries) == previousCount {
			log.Debugf("Peer %s made no progress on %d missing ancestors, giving up", peer, len(missing))
			break
		}

		log.Debugf("Re-requesting %d missing ancestors from peer %s", len(missing), peer)
		requestTargets = missing
	}

	if len(missing) > 0 {
		return nil, protocolerrors.Wrap(false, &MissingDependenciesError{Missing: missing},
			"peer did not send all the requested ancestor summaries")
	}

	return state.topologicalOrder(), nil
}

// downloadAncestorSummaries requests the ancestry of requestTargets from the
// peer and folds every received summary into the state, admission-checking
// each one in arrival order. It returns once the peer signals it is done.
func downloadAncestorSummaries(context SyncContext, state *syncState,
	incomingRoute *routerpkg.Route, outgoingRoute *routerpkg.Route,
	requestTargets []*daghash.Hash, knownHashes []*daghash.Hash,
	originalTargets map[daghash.Hash]struct{}) error {

	err := outgoingRoute.Enqueue(wire.NewMsgRequestAncestorSummaries(
		requestTargets, knownHashes, context.MaxDepthAncestorsRequest()))
	if err != nil {
		return err
	}

	for {
		message, err := incomingRoute.DequeueWithTimeout(common.DefaultTimeout)
		if err != nil {
			return err
		}

		switch message := message.(type) {
		case *wire.MsgBlockSummary:
			err := admitSummary(context, state, message.Summary, originalTargets)
			if err != nil {
				return err
			}
			state.add(message.Summary)
		case *wire.MsgDoneAncestorSummaries:
			return nil
		default:
			return protocolerrors.Errorf(true, "unexpected message '%s' while downloading "+
				"ancestor summaries", message.Command())
		}
	}
}

// admitSummary runs the admission checks on the given summary, in order:
// ancestry depth, rank branching, reachability from the original targets,
// and validation. The summary must not have been added to the state yet.
//
// The reachability walk is always anchored at the targets the sync was
// called with, even on re-request rounds: a peer answering a gap re-request
// does not get a fresh hop allowance from the re-requested hashes.
func admitSummary(context SyncContext, state *syncState, summary *wire.BlockSummary,
	originalTargets map[daghash.Hash]struct{}) error {

	err := state.notTooDeep(originalTargets, context.MaxPossibleDepth())
	if err != nil {
		return protocolerrors.Wrap(true, err, "ancestor summaries rejected")
	}
	err = state.notTooWide(context.MaxBranchingFactor())
	if err != nil {
		return protocolerrors.Wrap(true, err, "ancestor summaries rejected")
	}
	err = state.reachable(summary, originalTargets, context.MaxDepthAncestorsRequest())
	if err != nil {
		return protocolerrors.Wrap(true, err, "ancestor summaries rejected")
	}

	err = context.Backend().ValidateSummary(summary)
	if err != nil {
		return protocolerrors.Wrap(true, &ValidationError{Summary: summary, Cause: err},
			"ancestor summaries rejected")
	}
	return nil
}

// missingDanglingParents returns the dangling parents of the state that the
// local DAG does not have either.
func missingDanglingParents(backend Backend, state *syncState) ([]*daghash.Hash, error) {
	var missing []*daghash.Hash
	for _, parent := range state.danglingParents() {
		isInDAG, err := backend.IsInDAG(parent)
		if err != nil {
			return nil, err
		}
		if !isInDAG {
			missing = append(missing, parent)
		}
	}
	return missing, nil
}
