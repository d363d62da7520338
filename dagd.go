package main

import (
	"fmt"
	"sync/atomic"

	"github.com/dagnet/dagd/blockdag"
	"github.com/dagnet/dagd/config"
	"github.com/dagnet/dagd/dbaccess"
	"github.com/dagnet/dagd/netadapter"
	"github.com/dagnet/dagd/protocol"
	"github.com/dagnet/dagd/util/panics"
)

// dagd is a wrapper for all the dagd services
type dagd struct {
	networkAdapter  *netadapter.NetAdapter
	protocolManager *protocol.Manager

	started, shutdown int32
}

// start launches all the dagd services.
func (s *dagd) start() {
	// Already started?
	if atomic.AddInt32(&s.started, 1) != 1 {
		return
	}

	log.Trace("Starting dagd")

	err := s.protocolManager.Start()
	if err != nil {
		panics.Exit(log, fmt.Sprintf("Error starting the p2p protocol: %+v", err))
	}

	s.connectToConfiguredPeers()
}

// connectToConfiguredPeers dials the peers given through the --connect and
// --addpeer options. Failed dials are logged and skipped so that a single
// unreachable peer does not keep the node from starting.
func (s *dagd) connectToConfiguredPeers() {
	cfg := config.ActiveConfig()
	peers := cfg.ConnectPeers
	if len(peers) == 0 {
		peers = cfg.AddPeers
	}
	for _, address := range peers {
		err := s.networkAdapter.Connect(address)
		if err != nil {
			log.Errorf("Error connecting to peer %s: %+v", address, err)
		}
	}
}

// stop gracefully shuts down all the dagd services.
func (s *dagd) stop() error {
	// Make sure this only happens once.
	if atomic.AddInt32(&s.shutdown, 1) != 1 {
		log.Infof("Dagd is already in the process of shutting down")
		return nil
	}

	log.Warnf("Dagd shutting down")

	err := s.protocolManager.Stop()
	if err != nil {
		log.Errorf("Error stopping the p2p protocol: %+v", err)
	}
	s.protocolManager.Close()

	return nil
}

// newDagd returns a new dagd instance whose DAG is backed by the given
// database context. Use start to begin accepting connections from peers.
func newDagd(databaseContext *dbaccess.DatabaseContext) (*dagd, error) {
	cfg := config.ActiveConfig()

	dag, err := blockdag.New(&blockdag.Config{
		DatabaseContext: databaseContext,
	})
	if err != nil {
		return nil, err
	}

	netAdapter, err := netadapter.NewNetAdapter(cfg)
	if err != nil {
		return nil, err
	}

	protocolManager, err := protocol.NewManager(cfg, dag, netAdapter)
	if err != nil {
		return nil, err
	}

	return &dagd{
		networkAdapter:  netAdapter,
		protocolManager: protocolManager,
	}, nil
}
