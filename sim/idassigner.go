package sim

import (
	"context"
	"fmt"

	"go.uber.org/atomic"

	"github.com/shardsim/shardsim/cluster"
)

// IdAssigner is an in-memory cluster.IdAssigner. IncAndGetID draws from a
// single global counter rather than one per collection, since its result
// also feeds AssignCoreNodeName and replica names must be unique across
// the whole cluster, not merely within a collection.
type IdAssigner struct {
	counter *atomic.Int64
}

// NewIdAssigner creates an IdAssigner whose counter starts at 0.
func NewIdAssigner() *IdAssigner {
	return &IdAssigner{counter: atomic.NewInt64(0)}
}

// IncAndGetID returns the next globally unique id. seed only takes effect
// if called before the counter has been incremented at all.
func (a *IdAssigner) IncAndGetID(_ context.Context, _ string, seed int64) (int64, error) {
	a.counter.CAS(0, seed)
	return a.counter.Inc(), nil
}

// BuildCoreName renders the core name for position n (1-based) of a replica
// of type typ in (collection, shard).
func (a *IdAssigner) BuildCoreName(collection, shard string, typ cluster.ReplicaType, n int) string {
	return fmt.Sprintf("%s_%s_replica_%s%d", collection, shard, typ.Initial(), n)
}

// AssignCoreNodeName renders the replica name for the given global id, per
// the "core_node<id>" format.
func (a *IdAssigner) AssignCoreNodeName(id int64) string {
	return fmt.Sprintf("core_node%d", id)
}
