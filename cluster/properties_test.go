package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyMaps_SetCollectionProperties_NilClears(t *testing.T) {
	props := newPropertyMaps()
	props.setCollectionProperties("coll1", map[string]any{"a": 1, "b": 2})
	assert.Len(t, props.collectionProps("coll1"), 2)

	props.setCollectionProperties("coll1", nil)
	_, exists := props.collections["coll1"]
	assert.False(t, exists, "a nil properties map must clear the collection's entry entirely")
}

func TestPropertyMaps_SetCollectionProperty_NilRemovesKey(t *testing.T) {
	props := newPropertyMaps()
	props.setCollectionProperty("coll1", "a", 1)
	props.setCollectionProperty("coll1", "b", 2)
	assert.Len(t, props.collectionProps("coll1"), 2)

	props.setCollectionProperty("coll1", "a", nil)
	remaining := props.collectionProps("coll1")
	assert.Len(t, remaining, 1)
	assert.Equal(t, 2, remaining["b"])
}

func TestPropertyMaps_DeleteCollection_RemovesSliceProps(t *testing.T) {
	props := newPropertyMaps()
	props.setSliceProperties("coll1", "shard1", map[string]any{"x": 1})
	props.setCollectionProperty("coll1", "a", 1)

	props.deleteCollection("coll1")

	assert.Empty(t, props.collections)
	assert.Empty(t, props.slices)
}

func TestPropertyMaps_Reset(t *testing.T) {
	props := newPropertyMaps()
	props.setClusterProperty("a", 1)
	props.setCollectionProperty("coll1", "a", 1)
	props.setSliceProperties("coll1", "shard1", map[string]any{"x": 1})

	props.reset()

	assert.Empty(t, props.cluster)
	assert.Empty(t, props.collections)
	assert.Empty(t, props.slices)
}
