package grpcserver

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"google.golang.org/grpc"

	"github.com/dagnet/dagd/netadapter/router"
	"github.com/dagnet/dagd/netadapter/server"
)

type gRPCConnection struct {
	server                   *gRPCServer
	address                  *net.TCPAddr
	stream                   grpcStream
	router                   *router.Router
	lowLevelClientConnection *grpc.ClientConn

	// streamLock protects concurrent access to stream.
	// Note that it's an RWMutex. Despite what the name
	// implies, we use it to RLock() send() and receive() because
	// they can work perfectly fine in parallel, and Lock()
	// closeSend() because it must run alone.
	streamLock sync.RWMutex

	stopChan                chan struct{}
	onDisconnectedHandler   server.OnDisconnectedHandler
	onInvalidMessageHandler server.OnInvalidMessageHandler

	isConnected uint32
}

func newConnection(server *gRPCServer, address *net.TCPAddr, stream grpcStream,
	lowLevelClientConnection *grpc.ClientConn) *gRPCConnection {
	connection := &gRPCConnection{
		server:                   server,
		address:                  address,
		stream:                   stream,
		stopChan:                 make(chan struct{}),
		isConnected:              1,
		lowLevelClientConnection: lowLevelClientConnection,
	}

	return connection
}

// Start begins the send and receive loops of the connection using
// the given router
//
// This is part of the server.Connection interface
func (c *gRPCConnection) Start(router *router.Router) {
	if c.onDisconnectedHandler == nil {
		panic(errors.New("onDisconnectedHandler is nil"))
	}

	c.router = router

	spawn(func() {
		err := c.connectionLoops()
		if err != nil {
			log.Errorf("error from connectionLoops for %s: %s", c.address, err)
		}
	})
}

func (c *gRPCConnection) String() string {
	return c.Address().String()
}

// IsConnected returns whether the connection is still alive
//
// This is part of the server.Connection interface
func (c *gRPCConnection) IsConnected() bool {
	return atomic.LoadUint32(&c.isConnected) != 0
}

// SetOnDisconnectedHandler sets the handler function to be called
// once the connection disconnects
//
// This is part of the server.Connection interface
func (c *gRPCConnection) SetOnDisconnectedHandler(onDisconnectedHandler server.OnDisconnectedHandler) {
	c.onDisconnectedHandler = onDisconnectedHandler
}

// SetOnInvalidMessageHandler sets the handler function to be called
// when an invalid message arrives on the connection
//
// This is part of the server.Connection interface
func (c *gRPCConnection) SetOnInvalidMessageHandler(onInvalidMessageHandler server.OnInvalidMessageHandler) {
	c.onInvalidMessageHandler = onInvalidMessageHandler
}

// IsOutbound returns whether this connection was initiated locally
//
// This is part of the server.Connection interface
func (c *gRPCConnection) IsOutbound() bool {
	return c.lowLevelClientConnection != nil
}

// Disconnect disconnects the connection
// Calling this function a second time doesn't do anything
//
// This is part of the server.Connection interface
func (c *gRPCConnection) Disconnect() {
	if !c.IsConnected() {
		return
	}
	atomic.StoreUint32(&c.isConnected, 0)

	close(c.stopChan)

	if c.IsOutbound() {
		c.closeSend()
		log.Debugf("Disconnected from %s", c)
	}

	log.Infof("Disconnecting from %s", c)
	if c.onDisconnectedHandler != nil {
		c.onDisconnectedHandler()
	}
}

// Address returns the address of the remote peer
//
// This is part of the server.Connection interface
func (c *gRPCConnection) Address() *net.TCPAddr {
	return c.address
}

func (c *gRPCConnection) receive() (*messageFrame, error) {
	// We use RLock here and in send() because they can work
	// in parallel. closeSend(), however, must not have either
	// receive() nor send() running while it's running.
	c.streamLock.RLock()
	defer c.streamLock.RUnlock()

	return c.stream.Recv()
}

func (c *gRPCConnection) send(frame *messageFrame) error {
	// We use RLock here and in receive() because they can work
	// in parallel. closeSend(), however, must not have either
	// receive() nor send() running while it's running.
	c.streamLock.RLock()
	defer c.streamLock.RUnlock()

	return c.stream.Send(frame)
}

func (c *gRPCConnection) closeSend() {
	c.streamLock.Lock()
	defer c.streamLock.Unlock()

	clientStream := c.stream.(clientMessageStream)

	// ignore error because we don't really know what's the status of the connection
	_ = clientStream.CloseSend()
	_ = c.lowLevelClientConnection.Close()
}
