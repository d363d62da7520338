package server

import (
	"fmt"
	"net"

	"github.com/pkg/errors"

	"github.com/dagnet/dagd/netadapter/router"
)

// OnConnectedHandler is a function that is to be called
// once a new Connection is connected
type OnConnectedHandler func(connection Connection) error

// OnDisconnectedHandler is a function that is to be
// called once a Connection has been disconnected
type OnDisconnectedHandler func()

// OnInvalidMessageHandler is a function that is to be called when
// an invalid message (cannot be parsed/doesn't have a route)
// was received from a connection.
type OnInvalidMessageHandler func(err error)

// Server represents a server
type Server interface {
	Connect(address string) (Connection, error)
	Start() error
	Stop() error
	SetOnConnectedHandler(onConnectedHandler OnConnectedHandler)
}

// Connection represents a server connection
type Connection interface {
	fmt.Stringer
	Start(router *router.Router)
	Disconnect()
	IsConnected() bool
	IsOutbound() bool
	SetOnDisconnectedHandler(onDisconnectedHandler OnDisconnectedHandler)
	SetOnInvalidMessageHandler(onInvalidMessageHandler OnInvalidMessageHandler)
	Address() *net.TCPAddr
}

// ErrNetwork is an error related to the internals of the connection, and not an error
// that came from outside (e.g. from OnDisconnectedHandler).
var ErrNetwork = errors.New("network error")
