package flowcontext

import (
	"github.com/pkg/errors"

	peerpkg "github.com/dagnet/dagd/protocol/peer"
	"github.com/dagnet/dagd/wire"
)

// AddToPeers marks this peer as ready and adds it to the ready peers list.
func (f *FlowContext) AddToPeers(peer *peerpkg.Peer) error {
	f.peersMutex.Lock()
	defer f.peersMutex.Unlock()

	if _, ok := f.peers[peer]; ok {
		return errors.Errorf("peer %s already exists", peer)
	}

	f.peers[peer] = struct{}{}
	return nil
}

// RemoveFromPeers remove this peer from the peers list.
func (f *FlowContext) RemoveFromPeers(peer *peerpkg.Peer) {
	f.peersMutex.Lock()
	defer f.peersMutex.Unlock()

	delete(f.peers, peer)
}

// Peers returns the currently active peers
func (f *FlowContext) Peers() []*peerpkg.Peer {
	f.peersMutex.RLock()
	defer f.peersMutex.RUnlock()

	peers := make([]*peerpkg.Peer, 0, len(f.peers))
	for peer := range f.peers {
		peers = append(peers, peer)
	}
	return peers
}

// Broadcast broadcast the given message to all the ready peers.
func (f *FlowContext) Broadcast(message wire.Message) error {
	return f.netAdapter.Broadcast(f.netAdapter.Connections(), message)
}
