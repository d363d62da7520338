package common

import (
	"time"

	routerpkg "github.com/dagnet/dagd/netadapter/router"
	peerpkg "github.com/dagnet/dagd/protocol/peer"
)

// DefaultTimeout is the default duration to wait for enqueuing/dequeuing
// to/from routes.
const DefaultTimeout = 30 * time.Second

// Flow is a a data structure that is used in order to associate a p2p flow to some route
type Flow struct {
	Name        string
	ExecuteFunc func(peer *peerpkg.Peer)
}

// FlowInitializeFunc is a function that is used in order to initialize a flow
type FlowInitializeFunc func(route *routerpkg.Route, peer *peerpkg.Peer) error
