package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardsim/shardsim/pkg/log"
)

func newElectorTestProvider(seed int64) *Provider {
	p := &Provider{
		index: newNodeIndex(),
		props: newPropertyMaps(),
		live:  newLiveNodeSet(),
	}
	p.builder = newClusterStateBuilder()
	p.metrics = NewMetrics()
	p.logger = log.NewNopLogger()
	p.publisher = newStatePublisher(newCountingStateManager(), p.metrics, p.logger)
	p.elector = newLeaderElector(p, seed, p.logger)
	return p
}

func seedRecords(p *Provider, collection, shard string, nodes ...string) {
	for i, node := range nodes {
		p.live.add(node)
		record := &ReplicaRecord{
			Name:       node + "-replica",
			Core:       collection + "_" + shard + "_replica_n" + string(rune('1'+i)),
			Collection: collection,
			Shard:      shard,
			Type:       ReplicaTypeNRT,
			Node:       node,
		}
		record.setState(ReplicaStateActive)
		p.index.ensure(node)
		p.index.append(node, record)
	}
}

func TestLeaderElector_DeterministicGivenSeed(t *testing.T) {
	pick := func(seed int64) string {
		p := newElectorTestProvider(seed)
		seedRecords(p, "coll1", "shard1", "node1", "node2", "node3")

		p.lock()
		p.elector.electCollectionLocked("coll1")
		p.unlock()

		for _, records := range p.index {
			for _, r := range records {
				if r.isLeader() {
					return r.Node
				}
			}
		}
		return ""
	}

	a := pick(42)
	b := pick(42)
	require.NotEmpty(t, a)
	assert.Equal(t, a, b, "the same seed must elect the same leader")
}

func TestLeaderElector_KeepsExistingLiveLeader(t *testing.T) {
	p := newElectorTestProvider(1)
	seedRecords(p, "coll1", "shard1", "node1", "node2")

	record, _ := p.index.findReplica("node1", "node1-replica")
	record.setLeader(true)

	p.lock()
	p.elector.electCollectionLocked("coll1")
	p.unlock()

	assert.True(t, record.isLeader(), "an existing live leader must not be replaced")
	other, _ := p.index.findReplica("node2", "node2-replica")
	assert.False(t, other.isLeader())
}

func TestLeaderElector_NoCandidatesLeavesLeaderless(t *testing.T) {
	p := newElectorTestProvider(1)
	seedRecords(p, "coll1", "shard1", "node1")
	p.live.remove("node1")

	p.lock()
	p.elector.electCollectionLocked("coll1")
	p.unlock()

	record, _ := p.index.findReplica("node1", "node1-replica")
	assert.False(t, record.isLeader())
	assert.Equal(t, ReplicaStateDown, record.state())
}
