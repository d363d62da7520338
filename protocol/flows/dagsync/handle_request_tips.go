package dagsync

import (
	"github.com/dagnet/dagd/blockdag"
	routerpkg "github.com/dagnet/dagd/netadapter/router"
	"github.com/dagnet/dagd/wire"
)

// HandleRequestTipsContext is the interface for the context needed for the
// HandleRequestTips flow.
type HandleRequestTipsContext interface {
	DAG() *blockdag.BlockDAG
}

// HandleRequestTips handles tips requests, replying with the current tips of
// the local DAG.
func HandleRequestTips(context HandleRequestTipsContext, incomingRoute *routerpkg.Route,
	outgoingRoute *routerpkg.Route) error {

	for {
		_, err := incomingRoute.Dequeue()
		if err != nil {
			return err
		}

		tips, err := context.DAG().Tips()
		if err != nil {
			return err
		}
		err = outgoingRoute.Enqueue(wire.NewMsgTips(tips))
		if err != nil {
			return err
		}
	}
}
