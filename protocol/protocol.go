package protocol

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/dagnet/dagd/netadapter"
	routerpkg "github.com/dagnet/dagd/netadapter/router"
	"github.com/dagnet/dagd/protocol/common"
	"github.com/dagnet/dagd/protocol/flows/dagsync"
	"github.com/dagnet/dagd/protocol/flows/ping"
	peerpkg "github.com/dagnet/dagd/protocol/peer"
	"github.com/dagnet/dagd/protocol/protocolerrors"
	"github.com/dagnet/dagd/wire"
)

func (m *Manager) routerInitializer(router *routerpkg.Router, netConnection *netadapter.NetConnection) {
	isStopping := uint32(0)
	errChan := make(chan error, 1)

	peer := peerpkg.New(netConnection)

	flows := m.registerFlows(router, errChan, &isStopping)

	netConnection.SetOnInvalidMessageHandler(func(err error) {
		if atomic.AddUint32(&isStopping, 1) == 1 {
			errChan <- protocolerrors.Wrap(true, err, "received bad message")
		}
	})

	m.routersWaitGroup.Add(1)
	spawn(func() {
		defer m.routersWaitGroup.Done()

		err := m.context.AddToPeers(peer)
		if err != nil {
			panic(err)
		}
		defer m.context.RemoveFromPeers(peer)

		for _, flow := range flows {
			executeFunc := flow.ExecuteFunc
			spawn(func() {
				executeFunc(peer)
			})
		}

		err = <-errChan
		m.handleError(err, netConnection)
	})
}

func (m *Manager) registerFlows(router *routerpkg.Router, errChan chan error,
	isStopping *uint32) []*common.Flow {

	outgoingRoute := router.OutgoingRoute()

	return []*common.Flow{
		m.registerFlow("HandleRequestTips", router,
			[]wire.MessageCommand{wire.CmdRequestTips}, isStopping, errChan,
			func(incomingRoute *routerpkg.Route, peer *peerpkg.Peer) error {
				return dagsync.HandleRequestTips(m.context, incomingRoute, outgoingRoute)
			},
		),

		m.registerFlow("HandleRequestAncestorSummaries", router,
			[]wire.MessageCommand{wire.CmdRequestAncestorSummaries}, isStopping, errChan,
			func(incomingRoute *routerpkg.Route, peer *peerpkg.Peer) error {
				return dagsync.HandleRequestAncestorSummaries(m.context, incomingRoute, outgoingRoute)
			},
		),

		m.registerFlow("RequestTips", router,
			[]wire.MessageCommand{wire.CmdTips, wire.CmdBlockSummary, wire.CmdDoneAncestorSummaries},
			isStopping, errChan,
			func(incomingRoute *routerpkg.Route, peer *peerpkg.Peer) error {
				return dagsync.RequestTips(m.context, incomingRoute, outgoingRoute, peer)
			},
		),

		m.registerFlow("ReceivePings", router,
			[]wire.MessageCommand{wire.CmdPing}, isStopping, errChan,
			func(incomingRoute *routerpkg.Route, peer *peerpkg.Peer) error {
				return ping.ReceivePings(incomingRoute, outgoingRoute)
			},
		),

		m.registerFlow("SendPings", router,
			[]wire.MessageCommand{wire.CmdPong}, isStopping, errChan,
			func(incomingRoute *routerpkg.Route, peer *peerpkg.Peer) error {
				return ping.SendPings(m.context, incomingRoute, outgoingRoute, peer)
			},
		),
	}
}

func (m *Manager) registerFlow(name string, router *routerpkg.Router,
	messageTypes []wire.MessageCommand, isStopping *uint32, errChan chan error,
	initializeFunc common.FlowInitializeFunc) *common.Flow {

	route, err := router.AddIncomingRoute(name, messageTypes)
	if err != nil {
		panic(err)
	}

	return &common.Flow{
		Name: name,
		ExecuteFunc: func(peer *peerpkg.Peer) {
			err := initializeFunc(route, peer)
			if err != nil {
				m.context.HandleError(err, name, isStopping, errChan)
			}
		},
	}
}

func (m *Manager) handleError(err error, netConnection *netadapter.NetConnection) {
	if protocolErr := (&protocolerrors.ProtocolError{}); errors.As(err, &protocolErr) {
		if protocolErr.ShouldBan {
			log.Warnf("Disconnecting from misbehaving peer %s: %s", netConnection, protocolErr.Cause)
		}
		netConnection.Disconnect()
		return
	}
	if errors.Is(err, routerpkg.ErrRouteClosed) {
		return
	}
	panic(err)
}
