package flowcontext

import (
	"sync"

	"github.com/dagnet/dagd/blockdag"
	"github.com/dagnet/dagd/config"
	"github.com/dagnet/dagd/netadapter"
	"github.com/dagnet/dagd/protocol/flows/dagsync"
	peerpkg "github.com/dagnet/dagd/protocol/peer"
)

// FlowContext holds state that is relevant to all flows. It is the concrete
// implementation of the context interfaces the individual flows declare.
type FlowContext struct {
	cfg        *config.Config
	netAdapter *netadapter.NetAdapter
	dag        *blockdag.BlockDAG

	shutdownChan chan struct{}

	peers      map[*peerpkg.Peer]struct{}
	peersMutex sync.RWMutex
}

// New returns a new instance of FlowContext.
func New(cfg *config.Config, dag *blockdag.BlockDAG, netAdapter *netadapter.NetAdapter) *FlowContext {
	return &FlowContext{
		cfg:          cfg,
		netAdapter:   netAdapter,
		dag:          dag,
		shutdownChan: make(chan struct{}),
		peers:        make(map[*peerpkg.Peer]struct{}),
	}
}

// Close signals all flows that the protocol manager is shutting down.
func (f *FlowContext) Close() {
	close(f.shutdownChan)
}

// ShutdownChan is a chan that is closed once the protocol manager
// starts shutting down.
func (f *FlowContext) ShutdownChan() <-chan struct{} {
	return f.shutdownChan
}

// Config returns an instance of the current config
func (f *FlowContext) Config() *config.Config {
	return f.cfg
}

// NetAdapter returns the net adapter that is associated to the flow context.
func (f *FlowContext) NetAdapter() *netadapter.NetAdapter {
	return f.netAdapter
}

// DAG returns the DAG associated to the flow context.
func (f *FlowContext) DAG() *blockdag.BlockDAG {
	return f.dag
}

// Backend returns the view of the DAG that the synchronizer consumes.
func (f *FlowContext) Backend() dagsync.Backend {
	return f.dag
}

// MaxPossibleDepth returns the deepest ancestry any synced summary may have.
func (f *FlowContext) MaxPossibleDepth() uint64 {
	return f.cfg.MaxPossibleDepth
}

// MaxBranchingFactor returns the maximal allowed ratio between the sizes of
// adjacent rank levels in a synced summary set.
func (f *FlowContext) MaxBranchingFactor() float64 {
	return f.cfg.MaxBranchingFactor
}

// MaxDepthAncestorsRequest returns the depth limit sent on each ancestor
// summaries request.
func (f *FlowContext) MaxDepthAncestorsRequest() uint64 {
	return f.cfg.MaxDepthAncestorsRequest
}
