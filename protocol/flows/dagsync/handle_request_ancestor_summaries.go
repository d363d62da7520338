package dagsync

import (
	"github.com/dagnet/dagd/blockdag"
	"github.com/dagnet/dagd/database"
	routerpkg "github.com/dagnet/dagd/netadapter/router"
	"github.com/dagnet/dagd/protocol/protocolerrors"
	"github.com/dagnet/dagd/util/daghash"
	"github.com/dagnet/dagd/wire"
)

// HandleRequestAncestorSummariesContext is the interface for the context
// needed for the HandleRequestAncestorSummaries flow.
type HandleRequestAncestorSummariesContext interface {
	DAG() *blockdag.BlockDAG
}

// HandleRequestAncestorSummaries handles ancestor summaries requests,
// streaming back the ancestry of the requested targets up to the requested
// depth, stopping at the hashes the requesting peer already knows.
func HandleRequestAncestorSummaries(context HandleRequestAncestorSummariesContext,
	incomingRoute *routerpkg.Route, outgoingRoute *routerpkg.Route) error {

	for {
		message, err := incomingRoute.Dequeue()
		if err != nil {
			return err
		}
		request, ok := message.(*wire.MsgRequestAncestorSummaries)
		if !ok {
			return protocolerrors.Errorf(true, "unexpected message '%s' on the ancestor "+
				"summaries request route", message.Command())
		}

		err = sendAncestorSummaries(context, outgoingRoute, request)
		if err != nil {
			return err
		}
	}
}

// sendAncestorSummaries walks the local DAG breadth-first from the requested
// targets through parents and justified blocks, and streams every summary it
// passes. The walk does not descend past hashes the requesting peer reported
// as known, and goes at most request.MaxDepth hops deep. Targets themselves
// are at depth zero.
func sendAncestorSummaries(context HandleRequestAncestorSummariesContext,
	outgoingRoute *routerpkg.Route, request *wire.MsgRequestAncestorSummaries) error {

	known := make(map[daghash.Hash]struct{}, len(request.KnownHashes))
	for _, hash := range request.KnownHashes {
		known[*hash] = struct{}{}
	}

	visited := make(map[daghash.Hash]struct{})
	frontier := request.TargetHashes
	for depth := uint64(0); len(frontier) > 0 && depth <= request.MaxDepth; depth++ {
		var next []*daghash.Hash
		for _, hash := range frontier {
			if _, ok := visited[*hash]; ok {
				continue
			}
			visited[*hash] = struct{}{}

			if _, ok := known[*hash]; ok {
				continue
			}
			summary, err := context.DAG().SummaryByHash(hash)
			if err != nil {
				// The requested ancestry may reach past what this node has.
				if database.IsNotFoundError(err) {
					continue
				}
				return err
			}

			err = outgoingRoute.Enqueue(wire.NewMsgBlockSummary(summary))
			if err != nil {
				return err
			}
			next = append(next, summary.Dependencies()...)
		}
		frontier = next
	}

	return outgoingRoute.Enqueue(wire.NewMsgDoneAncestorSummaries())
}
