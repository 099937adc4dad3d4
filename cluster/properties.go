package cluster

// ClusterProperties is the singleton cluster-wide property map.
type ClusterProperties map[string]any

// CollectionProperties is a collection's property map.
type CollectionProperties map[string]any

// SliceProperties is a (collection, shard)'s property map.
type SliceProperties map[string]any

type sliceKey struct {
	collection string
	shard      string
}

// propertyMaps is the three nested property mappings: cluster-wide,
// per-collection, and per-collection/per-shard.
//
// All reads and writes go through propertyMaps while Provider's stateLock
// is held.
type propertyMaps struct {
	cluster     ClusterProperties
	collections map[string]CollectionProperties
	slices      map[sliceKey]SliceProperties
}

func newPropertyMaps() *propertyMaps {
	return &propertyMaps{
		cluster:     make(ClusterProperties),
		collections: make(map[string]CollectionProperties),
		slices:      make(map[sliceKey]SliceProperties),
	}
}

func (p *propertyMaps) reset() {
	p.cluster = make(ClusterProperties)
	p.collections = make(map[string]CollectionProperties)
	p.slices = make(map[sliceKey]SliceProperties)
}

// collectionProps returns the collection's property map, creating an empty
// one on first reference so subsequent lookups are stable.
func (p *propertyMaps) collectionProps(collection string) CollectionProperties {
	props, ok := p.collections[collection]
	if !ok {
		props = make(CollectionProperties)
		p.collections[collection] = props
	}
	return props
}

// sliceProps returns the slice's property map, creating an empty one on
// first reference.
func (p *propertyMaps) sliceProps(collection, shard string) SliceProperties {
	key := sliceKey{collection: collection, shard: shard}
	props, ok := p.slices[key]
	if !ok {
		props = make(SliceProperties)
		p.slices[key] = props
	}
	return props
}

func (p *propertyMaps) deleteCollection(collection string) {
	delete(p.collections, collection)
	for key := range p.slices {
		if key.collection == collection {
			delete(p.slices, key)
		}
	}
}

// setClusterProperties overwrites the cluster property map. A nil map
// clears it entirely.
func (p *propertyMaps) setClusterProperties(props map[string]any) {
	if props == nil {
		p.cluster = make(ClusterProperties)
		return
	}
	p.cluster = ClusterProperties(copyProps(props))
}

// setClusterProperty sets or, when value is nil, removes a single cluster
// property.
func (p *propertyMaps) setClusterProperty(key string, value any) {
	setOrDelete(p.cluster, key, value)
}

// setCollectionProperties overwrites the collection's property map. A nil
// map clears all collection properties.
func (p *propertyMaps) setCollectionProperties(collection string, props map[string]any) {
	if props == nil {
		delete(p.collections, collection)
		return
	}
	p.collections[collection] = CollectionProperties(copyProps(props))
}

func (p *propertyMaps) setCollectionProperty(collection, key string, value any) {
	setOrDelete(p.collectionProps(collection), key, value)
}

func (p *propertyMaps) setSliceProperties(collection, shard string, props map[string]any) {
	key := sliceKey{collection: collection, shard: shard}
	if props == nil {
		delete(p.slices, key)
		return
	}
	p.slices[key] = SliceProperties(copyProps(props))
}

func setOrDelete(m map[string]any, key string, value any) {
	if value == nil {
		delete(m, key)
		return
	}
	m[key] = value
}

func copyProps(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
