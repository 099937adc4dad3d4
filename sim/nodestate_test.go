package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeState_SetAndGet(t *testing.T) {
	s := NewNodeState()

	_, ok := s.NodeValue("node1", "cores")
	assert.False(t, ok)

	s.SetNodeValue("node1", "cores", 3)
	v, ok := s.NodeValue("node1", "cores")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	all := s.AllNodeValues()
	assert.Equal(t, 3, all["node1"]["cores"])

	// The snapshot returned by AllNodeValues must not alias internal state.
	all["node1"]["cores"] = 99
	v, _ = s.NodeValue("node1", "cores")
	assert.Equal(t, 3, v)
}
