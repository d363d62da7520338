package peer

import (
	"sync"
	"time"

	"github.com/dagnet/dagd/netadapter"
)

// Peer holds data about a peer.
type Peer struct {
	connection *netadapter.NetConnection

	pingLock         sync.RWMutex
	lastPingNonce    uint64        // The nonce of the last ping we sent
	lastPingTime     time.Time     // Time we sent last ping
	lastPingDuration time.Duration // Time for last ping to return
}

// New returns a new Peer
func New(connection *netadapter.NetConnection) *Peer {
	return &Peer{connection: connection}
}

// Connection returns the NetConnection associated with this peer
func (p *Peer) Connection() *netadapter.NetConnection {
	return p.connection
}

// SetPingPending sets the ping state of the peer to 'pending'
func (p *Peer) SetPingPending(nonce uint64) {
	p.pingLock.Lock()
	defer p.pingLock.Unlock()

	p.lastPingNonce = nonce
	p.lastPingTime = time.Now()
}

// SetPingIdle sets the ping state of the peer to 'idle'
func (p *Peer) SetPingIdle() {
	p.pingLock.Lock()
	defer p.pingLock.Unlock()

	p.lastPingNonce = 0
	p.lastPingDuration = time.Since(p.lastPingTime)
}

// LastPingDuration returns the duration of the last completed ping
// round-trip to this peer
func (p *Peer) LastPingDuration() time.Duration {
	p.pingLock.RLock()
	defer p.pingLock.RUnlock()

	return p.lastPingDuration
}

// Address returns the address associated with this peer
func (p *Peer) Address() string {
	return p.connection.Address()
}

func (p *Peer) String() string {
	return p.connection.String()
}
