package flowcontext

import (
	"sync/atomic"

	"github.com/pkg/errors"

	routerpkg "github.com/dagnet/dagd/netadapter/router"
	"github.com/dagnet/dagd/protocol/protocolerrors"
)

// ErrPingTimeout signifies a ping timeout.
var ErrPingTimeout = protocolerrors.New(false, "timeout expired on ping")

// HandleError handles an error from a flow.
// Explanation:
// Flows are run as separate goroutines, thus they cannot return an error to
// the caller. Instead, a flow that errors hands the error here.
// A closed route means the connection is being torn down, so the error is
// forwarded silently to release the connection's error handler.
// A ProtocolError means the peer is misbehaving, so the error is logged and
// forwarded to tear the connection down.
// Any other error means something unexpected happened in this node, so we panic.
func (*FlowContext) HandleError(err error, flowName string, isStopping *uint32, errChan chan<- error) {
	if !errors.Is(err, routerpkg.ErrRouteClosed) {
		if protocolErr := (&protocolerrors.ProtocolError{}); !errors.As(err, &protocolErr) {
			panic(err)
		}
		log.Errorf("error from %s: %+v", flowName, err)
	}

	if atomic.AddUint32(isStopping, 1) == 1 {
		errChan <- err
	}
}
