package cluster

import (
	"time"

	"github.com/shardsim/shardsim/pkg/log"
)

// pollInterval is the simulated-time cadence PredicateWaiter polls at.
const pollInterval = 50 * time.Millisecond

// Predicate observes the live-node set and a collection's current state.
// It may be called repeatedly and must be side-effect-free; a stateful
// caller must capture its last observation in external storage.
type Predicate func(liveNodes []string, collection *Collection) bool

// PredicateWaiter blocks on a Predicate over the Provider's cluster state,
// polling under an injected simulated Clock rather than wall time.
type PredicateWaiter struct {
	provider *Provider
	clock    Clock
	logger   log.Logger
}

// NewPredicateWaiter creates a PredicateWaiter over provider, polling using
// clock.
func NewPredicateWaiter(provider *Provider, clock Clock, logger log.Logger) *PredicateWaiter {
	return &PredicateWaiter{
		provider: provider,
		clock:    clock,
		logger:   logger.WithSubsystem("cluster.waiter"),
	}
}

// WaitFor blocks until predicate(liveNodes, collectionState) returns true,
// collection no longer exists (returns successfully), or timeout elapses
// on the injected clock (fails with *WaitTimeoutError).
func (w *PredicateWaiter) WaitFor(collection string, timeout time.Duration, predicate Predicate) error {
	deadline := w.clock.Now().Add(timeout)

	var lastLive []string
	var lastState *ClusterState

	for {
		state := w.provider.GetClusterState()
		lastLive = state.LiveNodes
		lastState = state

		c, ok := state.Collection(collection)
		if !ok {
			return nil
		}
		if predicate(state.LiveNodes, c) {
			return nil
		}

		if !w.clock.Now().Before(deadline) {
			return &WaitTimeoutError{
				Collection: collection,
				LiveNodes:  lastLive,
				State:      lastState,
			}
		}

		timer := w.clock.NewTimer(pollInterval)
		<-timer.C()
		timer.Stop()
	}
}

// Shape returns a Predicate that is true iff the collection has exactly
// shards slices and each slice has exactly replicas replicas that are
// active and on live nodes.
func Shape(shards, replicas int) Predicate {
	return func(liveNodes []string, collection *Collection) bool {
		if collection == nil || len(collection.Shards) != shards {
			return false
		}
		live := make(map[string]struct{}, len(liveNodes))
		for _, n := range liveNodes {
			live[n] = struct{}{}
		}
		for _, slice := range collection.Shards {
			active := 0
			for _, r := range slice.Replicas {
				if _, ok := live[r.Node]; ok && r.State() == ReplicaStateActive {
					active++
				}
			}
			if active != replicas {
				return false
			}
		}
		return true
	}
}
