package cluster

import (
	"context"

	"k8s.io/utils/clock"
)

// NodeStateProvider is the external per-node telemetry provider. The core
// only ever touches the "cores" key.
type NodeStateProvider interface {
	// AllNodeValues returns a snapshot of every known node's values, keyed
	// by node id then by value key.
	AllNodeValues() map[string]map[string]any
	// NodeValue returns the value of key for node, or false if unset.
	NodeValue(node, key string) (any, bool)
	// SetNodeValue sets the value of key for node.
	SetNodeValue(node, key string, value any)
}

// DistribStateManager is the external versioned key-value state manager.
// Version -1 means "path does not exist yet"; SetData with expectedVersion
// -1 means "create".
type DistribStateManager interface {
	// GetData returns the bytes stored at path and their version, or an
	// error if the path does not exist.
	GetData(ctx context.Context, path string) (data []byte, version int32, err error)
	// SetData writes data at path using compare-and-set against
	// expectedVersion, returning the new version on success.
	SetData(ctx context.Context, path string, data []byte, expectedVersion int32) (newVersion int32, err error)
}

// ReplicaPosition is one output of PlacementEngine.BuildReplicaPositions:
// where a new replica should be placed.
type ReplicaPosition struct {
	Shard string
	Node  string
	Type  ReplicaType
}

// PlacementEngine is the external placement policy engine.
type PlacementEngine interface {
	BuildReplicaPositions(
		ctx context.Context,
		state *ClusterState,
		props CollectionProperties,
		nodes []string,
		shards []string,
	) ([]ReplicaPosition, error)
}

// IdAssigner is the external core-name/replica-name assignment service.
type IdAssigner interface {
	// IncAndGetID returns a monotonically increasing id for collection,
	// seeded by seed on first use.
	IncAndGetID(ctx context.Context, collection string, seed int64) (int64, error)
	// BuildCoreName renders the core name for position n (1-based) of a
	// replica of the given type in (collection, shard), using the
	// "<collection>_<shard>_replica_<t><n>" format.
	BuildCoreName(collection, shard string, typ ReplicaType, n int) string
	// AssignCoreNodeName renders the replica name for the given global id,
	// using the "core_node<id>" format.
	AssignCoreNodeName(id int64) string
}

// Executor submits asynchronous follow-up work, such as post-mutation
// leader elections, so it can run after the triggering mutator returns.
type Executor interface {
	Submit(task func())
}

// Clock is the simulated time source read by PredicateWaiter. It is a
// direct alias of k8s.io/utils/clock.Clock so production code can
// pass clock.RealClock{} and tests can pass a
// k8s.io/utils/clock/testing.FakeClock advanced by hand.
type Clock = clock.Clock
