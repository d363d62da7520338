package grpcserver

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"

	"github.com/dagnet/dagd/config"
	"github.com/dagnet/dagd/netadapter/server"
	"github.com/dagnet/dagd/util/panics"
)

// maxMessageSize is the maximum size of a single gRPC frame. It has to
// be large enough to fit a full batch of ancestor block summaries.
const maxMessageSize = 1024 * 1024 * 32

type gRPCServer struct {
	cfg                *config.Config
	onConnectedHandler server.OnConnectedHandler
	listeningAddresses []string
	server             *grpc.Server
}

// NewServer creates a new server.Server that listens on the
// given config's listening addresses and dials through its dialer
func NewServer(cfg *config.Config) server.Server {
	log.Debugf("Created new GRPC server with maxMessageSize %d", maxMessageSize)
	s := &gRPCServer{
		cfg: cfg,
		server: grpc.NewServer(
			grpc.MaxRecvMsgSize(maxMessageSize),
			grpc.MaxSendMsgSize(maxMessageSize),
			grpc.CustomCodec(frameCodec{}),
		),
		listeningAddresses: cfg.Listeners,
	}
	s.server.RegisterService(&messageStreamServiceDesc, s)
	return s
}

// Start begins listening on all the server's listening addresses
//
// This is part of the server.Server interface
func (s *gRPCServer) Start() error {
	if s.onConnectedHandler == nil {
		return errors.New("onConnectedHandler is nil")
	}

	for _, listenAddress := range s.listeningAddresses {
		err := s.listenOn(listenAddress)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *gRPCServer) listenOn(listenAddr string) error {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return errors.Wrapf(err, "error listening on %s", listenAddr)
	}

	spawn(func() {
		err := s.server.Serve(listener)
		if err != nil {
			panics.Exit(log, errors.Wrapf(err, "error serving on %s", listenAddr).Error())
		}
	})

	log.Infof("Server listening on %s", listenAddr)
	return nil
}

// Stop gracefully shuts the server down, forcefully closing any
// connections that linger past the stop timeout
//
// This is part of the server.Server interface
func (s *gRPCServer) Stop() error {
	const stopTimeout = 2 * time.Second

	stopChan := make(chan interface{})
	go func() {
		s.server.GracefulStop()
		close(stopChan)
	}()

	select {
	case <-stopChan:
	case <-time.After(stopTimeout):
		log.Warnf("Could not gracefully stop server: timed out after %s", stopTimeout)
		s.server.Stop()
	}
	return nil
}

// SetOnConnectedHandler sets the peer connected handler
// function for the server
//
// This is part of the server.Server interface
func (s *gRPCServer) SetOnConnectedHandler(onConnectedHandler server.OnConnectedHandler) {
	s.onConnectedHandler = onConnectedHandler
}

// Connect connects to the gRPC server at the given address
//
// This is part of the server.Server interface
func (s *gRPCServer) Connect(address string) (server.Connection, error) {
	log.Infof("Dialing to %s", address)

	dialer := func(ctx context.Context, address string) (net.Conn, error) {
		return s.cfg.Dial("tcp", address, config.DefaultConnectTimeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultConnectTimeout)
	defer cancel()
	clientConnection, err := grpc.DialContext(ctx, address,
		grpc.WithInsecure(),
		grpc.WithBlock(),
		grpc.WithContextDialer(dialer),
		grpc.WithDefaultCallOptions(
			grpc.CallCustomCodec(frameCodec{}),
			grpc.MaxCallRecvMsgSize(maxMessageSize),
			grpc.MaxCallSendMsgSize(maxMessageSize),
		),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "error connecting to %s", address)
	}

	stream, err := clientConnection.NewStream(context.Background(),
		&messageStreamServiceDesc.Streams[0], messageStreamFullMethod)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting client stream for %s", address)
	}

	tcpAddress, err := net.ResolveTCPAddr("tcp", address)
	if err != nil {
		return nil, errors.Wrapf(err, "error resolving address %s", address)
	}

	connection := newConnection(s, tcpAddress, clientMessageStream{stream}, clientConnection)

	err = s.onConnectedHandler(connection)
	if err != nil {
		return nil, err
	}

	log.Infof("Connected to %s", address)

	return connection, nil
}

// MessageStream is the bidirectional stream over which all
// peer-to-peer messages flow. gRPC invokes it once for every inbound
// connection.
func (s *gRPCServer) MessageStream(stream grpc.ServerStream) error {
	defer panics.HandlePanic(log, nil)

	peerInfo, ok := peer.FromContext(stream.Context())
	if !ok {
		return errors.Errorf("error getting stream peer info from context")
	}
	tcpAddress, ok := peerInfo.Addr.(*net.TCPAddr)
	if !ok {
		return errors.Errorf("non-tcp connections are not supported")
	}

	connection := newConnection(s, tcpAddress, serverMessageStream{stream}, nil)

	err := s.onConnectedHandler(connection)
	if err != nil {
		return err
	}

	log.Infof("Incoming connection from %s", peerInfo.Addr)

	<-connection.stopChan

	return nil
}
