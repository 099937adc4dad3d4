package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterStateBuilder_Build(t *testing.T) {
	idx := newNodeIndex()
	idx.ensure("node1")
	record := &ReplicaRecord{
		Name:       "core_node1",
		Core:       "coll1_shard1_replica_n1",
		Collection: "coll1",
		Shard:      "shard1",
		Type:       ReplicaTypeNRT,
	}
	record.setState(ReplicaStateActive)
	record.setLeader(true)
	idx.append("node1", record)

	props := newPropertyMaps()
	props.setCollectionProperty("coll1", "foo", "bar")

	live := newLiveNodeSet()
	live.add("node1")

	builder := newClusterStateBuilder()
	state := builder.build(idx, props, live)

	assert.Equal(t, []string{"node1"}, state.LiveNodes)
	c, ok := state.Collection("coll1")
	require.True(t, ok)
	assert.Equal(t, "bar", c.Properties["foo"])
	require.Contains(t, c.Shards, "shard1")
	replica, ok := c.Shards["shard1"].Replicas["core_node1"]
	require.True(t, ok)
	assert.Equal(t, "node1", replica.Node)
	assert.True(t, replica.IsLeader())
	assert.Equal(t, ReplicaStateActive, replica.State())
}

func TestClusterStateBuilder_EmptyIndexHasNoCollections(t *testing.T) {
	builder := newClusterStateBuilder()
	state := builder.build(newNodeIndex(), newPropertyMaps(), newLiveNodeSet())

	assert.Empty(t, state.Collections)
	assert.Empty(t, state.LiveNodes)
}

func TestNodeIndex_FindCoreAndRemove(t *testing.T) {
	idx := newNodeIndex()
	idx.ensure("node1")
	record := &ReplicaRecord{Name: "core_node1", Core: "core1"}
	idx.append("node1", record)

	assert.True(t, idx.findCore("core1"))
	assert.False(t, idx.findCore("core2"))

	found, i := idx.findReplica("node1", "core_node1")
	require.NotNil(t, found)
	removed := idx.removeAt("node1", i)
	assert.Equal(t, record, removed)
	assert.Empty(t, idx["node1"])
}
