package dagsync

import (
	"time"

	"github.com/pkg/errors"

	"github.com/dagnet/dagd/blockdag"
	routerpkg "github.com/dagnet/dagd/netadapter/router"
	"github.com/dagnet/dagd/protocol/common"
	peerpkg "github.com/dagnet/dagd/protocol/peer"
	"github.com/dagnet/dagd/protocol/protocolerrors"
	"github.com/dagnet/dagd/util/daghash"
	"github.com/dagnet/dagd/wire"
)

// tipsRequestInterval is the interval between tips requests to the same peer.
const tipsRequestInterval = 30 * time.Second

// RequestTipsContext is the interface for the context needed for the
// RequestTips flow.
type RequestTipsContext interface {
	SyncContext
	DAG() *blockdag.BlockDAG
	ShutdownChan() <-chan struct{}
}

type requestTipsFlow struct {
	RequestTipsContext
	incomingRoute, outgoingRoute *routerpkg.Route
	peer                         *peerpkg.Peer
}

// RequestTips periodically asks the peer for its DAG tips and syncs the
// ancestry of any tip the local DAG does not have.
func RequestTips(context RequestTipsContext, incomingRoute *routerpkg.Route,
	outgoingRoute *routerpkg.Route, peer *peerpkg.Peer) error {

	flow := &requestTipsFlow{
		RequestTipsContext: context,
		incomingRoute:      incomingRoute,
		outgoingRoute:      outgoingRoute,
		peer:               peer,
	}
	return flow.start()
}

func (flow *requestTipsFlow) start() error {
	ticker := time.NewTicker(tipsRequestInterval)
	defer ticker.Stop()

	for {
		err := flow.syncMissingTips()
		if err != nil {
			return err
		}

		select {
		case <-flow.ShutdownChan():
			return nil
		case <-ticker.C:
		}
	}
}

func (flow *requestTipsFlow) syncMissingTips() error {
	err := flow.outgoingRoute.Enqueue(wire.NewMsgRequestTips())
	if err != nil {
		return err
	}

	message, err := flow.incomingRoute.DequeueWithTimeout(common.DefaultTimeout)
	if err != nil {
		return err
	}
	msgTips, ok := message.(*wire.MsgTips)
	if !ok {
		return protocolerrors.Errorf(true, "unexpected message '%s' while waiting for tips",
			message.Command())
	}

	targets, err := flow.missingTips(msgTips.TipHashes)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		log.Debugf("Peer %s has no tips we are missing", flow.peer)
		return nil
	}

	log.Infof("Syncing the ancestry of %d tips from peer %s", len(targets), flow.peer)
	summaries, err := SyncDAG(flow, flow.incomingRoute, flow.outgoingRoute, flow.peer, targets)
	if err != nil {
		return err
	}
	return flow.integrateSummaries(summaries)
}

func (flow *requestTipsFlow) missingTips(tipHashes []*daghash.Hash) ([]*daghash.Hash, error) {
	var missing []*daghash.Hash
	for _, tipHash := range tipHashes {
		isInDAG, err := flow.DAG().IsInDAG(tipHash)
		if err != nil {
			return nil, err
		}
		if !isInDAG {
			missing = append(missing, tipHash)
		}
	}
	return missing, nil
}

// integrateSummaries processes the synced summaries into the local DAG. The
// summaries arrive dependency-ordered, so every summary's parents are either
// already in the DAG or processed earlier in the same batch.
func (flow *requestTipsFlow) integrateSummaries(summaries []*wire.BlockSummary) error {
	accepted := 0
	for _, summary := range summaries {
		isInDAG, err := flow.DAG().IsInDAG(summary.BlockHash)
		if err != nil {
			return err
		}
		if isInDAG {
			continue
		}

		err = flow.DAG().ProcessSummary(summary)
		if err != nil {
			var ruleErr blockdag.RuleError
			if errors.As(err, &ruleErr) {
				return protocolerrors.Wrapf(true, err, "rejected summary %s synced from peer %s",
					summary.BlockHash, flow.peer)
			}
			return err
		}
		accepted++
	}

	log.Infof("Accepted %d block summaries synced from peer %s", accepted, flow.peer)
	return nil
}
