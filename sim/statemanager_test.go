package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateManager_CompareAndSet(t *testing.T) {
	m := NewStateManager()
	ctx := context.Background()

	_, _, err := m.GetData(ctx, "path1")
	assert.Error(t, err)

	version, err := m.SetData(ctx, "path1", []byte("v1"), -1)
	require.NoError(t, err)
	assert.Equal(t, int32(0), version)

	data, v, err := m.GetData(ctx, "path1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)
	assert.Equal(t, int32(0), v)

	_, err = m.SetData(ctx, "path1", []byte("v2"), -1)
	assert.Error(t, err, "a stale expected version must be rejected")

	version, err = m.SetData(ctx, "path1", []byte("v2"), version)
	require.NoError(t, err)
	assert.Equal(t, int32(1), version)
}
