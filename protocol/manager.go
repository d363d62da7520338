package protocol

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/dagnet/dagd/blockdag"
	"github.com/dagnet/dagd/config"
	"github.com/dagnet/dagd/netadapter"
	"github.com/dagnet/dagd/protocol/flowcontext"
	peerpkg "github.com/dagnet/dagd/protocol/peer"
)

// Manager manages the p2p protocol
type Manager struct {
	context          *flowcontext.FlowContext
	routersWaitGroup sync.WaitGroup
	isClosed         uint32
}

// NewManager creates a new instance of the p2p protocol manager
func NewManager(cfg *config.Config, dag *blockdag.BlockDAG,
	netAdapter *netadapter.NetAdapter) (*Manager, error) {

	manager := Manager{
		context: flowcontext.New(cfg, dag, netAdapter),
	}

	netAdapter.SetRouterInitializer(manager.routerInitializer)
	return &manager, nil
}

// Start starts the p2p protocol
func (m *Manager) Start() error {
	return m.context.NetAdapter().Start()
}

// Stop stops the p2p protocol
func (m *Manager) Stop() error {
	return m.context.NetAdapter().Stop()
}

// Close signals all the flows to finish, then waits for all the routers to
// shut down.
func (m *Manager) Close() {
	if !atomic.CompareAndSwapUint32(&m.isClosed, 0, 1) {
		panic(errors.New("closing the protocol manager more than once"))
	}
	m.context.Close()
	m.routersWaitGroup.Wait()
}

// Peers returns the currently active peers
func (m *Manager) Peers() []*peerpkg.Peer {
	return m.context.Peers()
}
