package sim

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardsim/shardsim/cluster"
)

func TestIdAssigner_IncAndGetID_GloballyUnique(t *testing.T) {
	a := NewIdAssigner()
	ctx := context.Background()

	id1, err := a.IncAndGetID(ctx, "coll1", 0)
	require.NoError(t, err)
	id2, err := a.IncAndGetID(ctx, "coll2", 0)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2, "ids must be globally unique across collections")
	assert.Equal(t, fmt.Sprintf("core_node%d", id1), a.AssignCoreNodeName(id1))
}

func TestIdAssigner_BuildCoreName(t *testing.T) {
	a := NewIdAssigner()
	name := a.BuildCoreName("coll1", "shard1", cluster.ReplicaTypeNRT, 2)
	assert.Equal(t, "coll1_shard1_replica_n2", name)

	name = a.BuildCoreName("coll1", "shard1", cluster.ReplicaTypePULL, 1)
	assert.Equal(t, "coll1_shard1_replica_p1", name)
}
