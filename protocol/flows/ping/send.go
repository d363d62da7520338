package ping

import (
	"time"

	"github.com/pkg/errors"

	routerpkg "github.com/dagnet/dagd/netadapter/router"
	"github.com/dagnet/dagd/protocol/common"
	"github.com/dagnet/dagd/protocol/flowcontext"
	peerpkg "github.com/dagnet/dagd/protocol/peer"
	"github.com/dagnet/dagd/protocol/protocolerrors"
	"github.com/dagnet/dagd/util/random"
	"github.com/dagnet/dagd/wire"
)

const pingInterval = 2 * time.Minute

// SendPingsContext is the interface for the context needed for the SendPings flow.
type SendPingsContext interface {
	ShutdownChan() <-chan struct{}
}

// SendPings starts sending MsgPings every pingInterval, making sure a pong
// with the matching nonce comes back in time.
func SendPings(context SendPingsContext, incomingRoute *routerpkg.Route,
	outgoingRoute *routerpkg.Route, peer *peerpkg.Peer) error {

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-context.ShutdownChan():
			return nil
		case <-ticker.C:
		}

		nonce, err := random.Uint64()
		if err != nil {
			return err
		}
		peer.SetPingPending(nonce)

		err = outgoingRoute.Enqueue(wire.NewMsgPing(nonce))
		if err != nil {
			return err
		}

		message, err := incomingRoute.DequeueWithTimeout(common.DefaultTimeout)
		if err != nil {
			if errors.Is(err, routerpkg.ErrTimeout) {
				return errors.Wrapf(flowcontext.ErrPingTimeout, "got timeout while waiting for ping response")
			}
			return err
		}
		pongMessage, ok := message.(*wire.MsgPong)
		if !ok {
			return protocolerrors.Errorf(true, "unexpected message '%s' while waiting for a pong",
				message.Command())
		}
		if pongMessage.Nonce != nonce {
			return protocolerrors.New(true, "nonce mismatch between ping and pong")
		}
		peer.SetPingIdle()
	}
}
