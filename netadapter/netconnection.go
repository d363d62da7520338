package netadapter

import (
	"fmt"
	"net"

	"github.com/pkg/errors"

	"github.com/dagnet/dagd/netadapter/id"
	routerpkg "github.com/dagnet/dagd/netadapter/router"
	"github.com/dagnet/dagd/netadapter/server"
)

// NetConnection is a wrapper to a server connection for use by
// services external to the NetAdapter
type NetConnection struct {
	connection            server.Connection
	id                    *id.ID
	router                *routerpkg.Router
	onDisconnectedHandler server.OnDisconnectedHandler
}

func newNetConnection(connection server.Connection, routerInitializer RouterInitializer) *NetConnection {
	router := routerpkg.NewRouter()

	netConnection := &NetConnection{
		connection: connection,
		router:     router,
	}
	routerInitializer(router, netConnection)

	return netConnection
}

func (c *NetConnection) start() {
	if c.onDisconnectedHandler == nil {
		panic(errors.New("onDisconnectedHandler is nil"))
	}

	c.connection.SetOnDisconnectedHandler(func() {
		c.router.Close()
		c.onDisconnectedHandler()
	})

	c.connection.Start(c.router)
}

func (c *NetConnection) String() string {
	return fmt.Sprintf("<%s: %s>", c.id, c.connection)
}

// ID returns the ID associated with this connection
func (c *NetConnection) ID() *id.ID {
	return c.id
}

// SetID sets the ID associated with this connection
func (c *NetConnection) SetID(peerID *id.ID) {
	c.id = peerID
}

// Address returns the address associated with this connection
func (c *NetConnection) Address() string {
	return c.connection.Address().String()
}

// NetAddress returns the net address associated with this connection
func (c *NetConnection) NetAddress() *net.TCPAddr {
	return c.connection.Address()
}

// IsOutbound returns whether the connection is outbound
func (c *NetConnection) IsOutbound() bool {
	return c.connection.IsOutbound()
}

// Disconnect disconnects the given connection
func (c *NetConnection) Disconnect() {
	c.connection.Disconnect()
}

func (c *NetConnection) setOnDisconnectedHandler(onDisconnectedHandler server.OnDisconnectedHandler) {
	c.onDisconnectedHandler = onDisconnectedHandler
}

// SetOnInvalidMessageHandler sets the invalid message handler for
// this connection
func (c *NetConnection) SetOnInvalidMessageHandler(onInvalidMessageHandler server.OnInvalidMessageHandler) {
	c.connection.SetOnInvalidMessageHandler(onInvalidMessageHandler)
}
