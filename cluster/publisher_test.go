package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardsim/shardsim/pkg/log"
)

// countingStateManager is a fake DistribStateManager counting SetData calls,
// used to assert publisher idempotence.
type countingStateManager struct {
	writes  int
	version int32
	data    []byte
}

func newCountingStateManager() *countingStateManager {
	return &countingStateManager{version: noVersion}
}

func (m *countingStateManager) GetData(_ context.Context, _ string) ([]byte, int32, error) {
	return m.data, m.version, nil
}

func (m *countingStateManager) SetData(_ context.Context, _ string, data []byte, expectedVersion int32) (int32, error) {
	if expectedVersion != m.version {
		return 0, &PublishError{Path: "test", Err: assert.AnError}
	}
	m.writes++
	m.version++
	m.data = data
	return m.version, nil
}

func TestStatePublisher_PublishState_IdempotentWhenUnchanged(t *testing.T) {
	manager := newCountingStateManager()
	publisher := newStatePublisher(manager, NewMetrics(), log.NewNopLogger())

	state := &ClusterState{LiveNodes: []string{"node1"}, Collections: map[string]*Collection{}}

	require.NoError(t, publisher.publishState(context.Background(), state))
	assert.Equal(t, 1, manager.writes)

	// Republishing an unchanged snapshot must not write again.
	require.NoError(t, publisher.publishState(context.Background(), state))
	assert.Equal(t, 1, manager.writes)

	state2 := &ClusterState{LiveNodes: []string{"node1", "node2"}, Collections: map[string]*Collection{}}
	require.NoError(t, publisher.publishState(context.Background(), state2))
	assert.Equal(t, 2, manager.writes)
}

func TestStatePublisher_PublishClusterProperties_Idempotent(t *testing.T) {
	manager := newCountingStateManager()
	publisher := newStatePublisher(manager, NewMetrics(), log.NewNopLogger())

	props := ClusterProperties{"key": "value"}
	require.NoError(t, publisher.publishClusterProperties(context.Background(), props))
	assert.Equal(t, 1, manager.writes)
	require.NoError(t, publisher.publishClusterProperties(context.Background(), props))
	assert.Equal(t, 1, manager.writes)
}
