// Package cluster implements a simulated cluster state provider: an
// in-memory model of a sharded search cluster's coordination state (nodes,
// replicas, shards, collections) with a mutator API, leader election, and
// snapshot publication, built for deterministic autoscaling and
// fault-recovery test scenarios.
package cluster

import (
	"context"
	"math/rand"
	"sync"

	"github.com/shardsim/shardsim/pkg/log"
)

// Provider is the mutable cluster-state model plus its public mutator and
// read API.
//
// All structural reads and writes are serialized by stateLock. Never hand
// out index, props, or live to a caller; always go through the derived
// ClusterState view.
type Provider struct {
	stateLock sync.Mutex

	index nodeIndex
	props *propertyMaps
	live  liveNodeSet

	builder   *clusterStateBuilder
	publisher *statePublisher
	elector   *leaderElector

	nodeState  NodeStateProvider
	placement  PlacementEngine
	idAssigner IdAssigner
	executor   Executor

	metrics *Metrics
	logger  log.Logger
}

// NewProvider creates a Provider with no live nodes and no collections.
func NewProvider(opts ...Option) *Provider {
	resolved := options{
		electionSeed: 0,
		metrics:      NewMetrics(),
		logger:       log.NewNopLogger(),
	}
	for _, o := range opts {
		o.apply(&resolved)
	}

	p := &Provider{
		index:      newNodeIndex(),
		props:      newPropertyMaps(),
		live:       newLiveNodeSet(),
		builder:    newClusterStateBuilder(),
		nodeState:  resolved.nodeState,
		placement:  resolved.placement,
		idAssigner: resolved.idAssigner,
		executor:   resolved.executor,
		metrics:    resolved.metrics,
		logger:     resolved.logger.WithSubsystem("cluster"),
	}
	p.publisher = newStatePublisher(resolved.stateManager, p.metrics, resolved.logger)
	p.elector = newLeaderElector(p, resolved.electionSeed, resolved.logger)
	return p
}

// lock/unlock are thin wrappers over Provider's single coarse-grained
// stateLock. Every exported mutator takes the lock itself and
// calls unexported *Locked helpers for any composition with another
// mutator's structural change, so stateLock is never acquired twice by the
// same goroutine.
func (p *Provider) lock()   { p.stateLock.Lock() }
func (p *Provider) unlock() { p.stateLock.Unlock() }

// Connect is a no-op provided for interface conformance with an
// out-of-scope cluster-manager façade.
func (p *Provider) Connect(_ context.Context) error { return nil }

// Close is a no-op provided for interface conformance.
func (p *Provider) Close() error { return nil }

// ResolveAlias is explicitly unsupported.
func (p *Provider) ResolveAlias(_ string) (string, error) {
	return "", ErrUnsupported
}

// GetClusterState returns the current ClusterState snapshot.
func (p *Provider) GetClusterState() *ClusterState {
	p.lock()
	defer p.unlock()
	return p.buildLocked()
}

// GetLiveNodes returns the current live-node set.
func (p *Provider) GetLiveNodes() []string {
	p.lock()
	defer p.unlock()
	return p.live.slice()
}

// GetClusterProperties returns the cluster-wide property map.
func (p *Provider) GetClusterProperties() ClusterProperties {
	p.lock()
	defer p.unlock()
	return ClusterProperties(copyProps(p.props.cluster))
}

// ListCollections returns the names of every known collection.
func (p *Provider) ListCollections() []string {
	p.lock()
	defer p.unlock()
	state := p.buildLocked()
	names := make([]string, 0, len(state.Collections))
	for name := range state.Collections {
		names = append(names, name)
	}
	return names
}

// GetReplicaInfosForNode returns a read-only view of every replica hosted
// on node.
func (p *Provider) GetReplicaInfosForNode(node string) []*Replica {
	p.lock()
	defer p.unlock()

	records := p.index[node]
	out := make([]*Replica, 0, len(records))
	for _, r := range records {
		out = append(out, &Replica{
			Name:       r.Name,
			Core:       r.Core,
			Collection: r.Collection,
			Shard:      r.Shard,
			Type:       r.Type,
			Node:       r.Node,
			Variables:  copyProps(r.Variables),
		})
	}
	return out
}

// GetRandomNode returns a uniformly random live node using rng, or false
// if there are no live nodes.
func (p *Provider) GetRandomNode(rng *rand.Rand) (string, bool) {
	p.lock()
	defer p.unlock()

	nodes := p.live.slice()
	if len(nodes) == 0 {
		return "", false
	}
	return nodes[rng.Intn(len(nodes))], true
}

// PolicyNameForCollection returns the routing policy name recorded for
// collection.
func (p *Provider) PolicyNameForCollection(collection string) (string, bool) {
	p.lock()
	defer p.unlock()

	state := p.buildLocked()
	c, ok := state.Collection(collection)
	if !ok {
		return "", false
	}
	return c.RoutingPolicy, true
}

// buildLocked builds the current ClusterState. Callers must hold
// stateLock.
func (p *Provider) buildLocked() *ClusterState {
	return p.builder.build(p.index, p.props, p.live)
}

// scheduleElection submits an asynchronous leader election over
// collections to the configured Executor. Failures are logged and do not
// propagate to the triggering mutator.
func (p *Provider) scheduleElection(collections []string, publishBeforeElecting bool) {
	if p.executor == nil || len(collections) == 0 {
		return
	}
	p.executor.Submit(func() {
		if err := p.elector.elect(context.Background(), collections, publishBeforeElecting); err != nil {
			p.logger.Warn("scheduled leader election failed")
		}
	})
}
