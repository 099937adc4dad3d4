package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardsim/shardsim/cluster"
)

func TestRoundRobinPlacement_SpreadsAcrossNodes(t *testing.T) {
	p := NewRoundRobinPlacement()
	positions, err := p.BuildReplicaPositions(
		context.Background(),
		nil,
		cluster.CollectionProperties{"nrtReplicas": 2},
		[]string{"node1", "node2"},
		[]string{"shard1", "shard2"},
	)
	require.NoError(t, err)
	require.Len(t, positions, 4)

	counts := make(map[string]int)
	for _, pos := range positions {
		counts[pos.Node]++
		assert.Equal(t, cluster.ReplicaTypeNRT, pos.Type)
	}
	assert.Equal(t, 2, counts["node1"])
	assert.Equal(t, 2, counts["node2"])
}

func TestRoundRobinPlacement_NoNodesIsPrecondition(t *testing.T) {
	p := NewRoundRobinPlacement()
	_, err := p.BuildReplicaPositions(context.Background(), nil, nil, nil, []string{"shard1"})
	var precondition *cluster.PreconditionError
	assert.ErrorAs(t, err, &precondition)
}

func TestRoundRobinPlacement_ReplicaTypeCounts(t *testing.T) {
	p := NewRoundRobinPlacement()
	positions, err := p.BuildReplicaPositions(
		context.Background(),
		nil,
		cluster.CollectionProperties{"nrtReplicas": 1, "tlogReplicas": 1, "pullReplicas": 1},
		[]string{"node1"},
		[]string{"shard1"},
	)
	require.NoError(t, err)
	require.Len(t, positions, 3)

	types := make(map[cluster.ReplicaType]int)
	for _, pos := range positions {
		types[pos.Type]++
	}
	assert.Equal(t, 1, types[cluster.ReplicaTypeNRT])
	assert.Equal(t, 1, types[cluster.ReplicaTypeTLOG])
	assert.Equal(t, 1, types[cluster.ReplicaTypePULL])
}
