package sim

import (
	"context"
	"sort"
	"sync"

	"github.com/shardsim/shardsim/cluster"
)

// replicaCount reads an integer-valued replica-count property, defaulting to
// def when absent or of the wrong type.
func replicaCount(props cluster.CollectionProperties, key string, def int) int {
	v, ok := props[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// RoundRobinPlacement is a cluster.PlacementEngine that spreads replicas
// across the candidate nodes round-robin. The rotation position is an
// internal counter that carries over between calls; the cluster state
// passed in is not consulted.
type RoundRobinPlacement struct {
	mu   sync.Mutex
	next int
}

// NewRoundRobinPlacement creates a RoundRobinPlacement.
func NewRoundRobinPlacement() *RoundRobinPlacement {
	return &RoundRobinPlacement{}
}

// BuildReplicaPositions assigns nrtReplicas (default 1), tlogReplicas
// (default 0), and pullReplicas (default 0) replicas per shard, in that
// order, spreading them round-robin over nodes.
func (p *RoundRobinPlacement) BuildReplicaPositions(
	_ context.Context,
	_ *cluster.ClusterState,
	props cluster.CollectionProperties,
	nodes []string,
	shards []string,
) ([]cluster.ReplicaPosition, error) {
	if len(nodes) == 0 {
		return nil, &cluster.PreconditionError{Op: "buildReplicaPositions", Reason: "no candidate nodes"}
	}

	sorted := append([]string(nil), nodes...)
	sort.Strings(sorted)

	nrt := replicaCount(props, "nrtReplicas", 1)
	tlog := replicaCount(props, "tlogReplicas", 0)
	pull := replicaCount(props, "pullReplicas", 0)

	var positions []cluster.ReplicaPosition

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, shard := range shards {
		for _, spec := range []struct {
			typ   cluster.ReplicaType
			count int
		}{
			{cluster.ReplicaTypeNRT, nrt},
			{cluster.ReplicaTypeTLOG, tlog},
			{cluster.ReplicaTypePULL, pull},
		} {
			for i := 0; i < spec.count; i++ {
				node := sorted[p.next%len(sorted)]
				p.next++
				positions = append(positions, cluster.ReplicaPosition{
					Shard: shard,
					Node:  node,
					Type:  spec.typ,
				})
			}
		}
	}

	return positions, nil
}
