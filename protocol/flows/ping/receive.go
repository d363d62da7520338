package ping

import (
	routerpkg "github.com/dagnet/dagd/netadapter/router"
	"github.com/dagnet/dagd/wire"
)

// ReceivePings handles all ping messages coming through incomingRoute.
// This function assumes that incomingRoute will only return MsgPing.
func ReceivePings(incomingRoute *routerpkg.Route, outgoingRoute *routerpkg.Route) error {
	for {
		message, err := incomingRoute.Dequeue()
		if err != nil {
			return err
		}
		pingMessage := message.(*wire.MsgPing)

		pongMessage := wire.NewMsgPong(pingMessage.Nonce)
		err = outgoingRoute.Enqueue(pongMessage)
		if err != nil {
			return err
		}
	}
}
