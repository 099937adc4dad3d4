package cluster

// clusterStateBuilder materialises an immutable ClusterState snapshot from
// the current nodeIndex, propertyMaps, and liveNodeSet.
//
// build holds no state of its own, but it does create empty collection and
// slice property entries in props on first reference: callers must hold
// Provider.stateLock for the duration of the call.
type clusterStateBuilder struct{}

func newClusterStateBuilder() *clusterStateBuilder {
	return &clusterStateBuilder{}
}

func (b *clusterStateBuilder) build(
	idx nodeIndex,
	props *propertyMaps,
	live liveNodeSet,
) *ClusterState {
	collections := make(map[string]*Collection)

	ensureCollection := func(name string) *Collection {
		c, ok := collections[name]
		if !ok {
			c = &Collection{
				Name:          name,
				Shards:        make(map[string]*Slice),
				Properties:    props.collectionProps(name),
				RoutingPolicy: defaultRoutingPolicy,
			}
			collections[name] = c
		}
		return c
	}

	ensureSlice := func(c *Collection, name, collection string) *Slice {
		s, ok := c.Shards[name]
		if !ok {
			s = &Slice{
				Shard:      name,
				Replicas:   make(map[string]*Replica),
				Properties: props.sliceProps(collection, name),
			}
			c.Shards[name] = s
		}
		return s
	}

	for _, records := range idx {
		for _, r := range records {
			c := ensureCollection(r.Collection)
			s := ensureSlice(c, r.Shard, r.Collection)
			s.Replicas[r.Name] = &Replica{
				Name:       r.Name,
				Core:       r.Core,
				Collection: r.Collection,
				Shard:      r.Shard,
				Type:       r.Type,
				Node:       r.Node,
				Variables:  copyProps(r.Variables),
			}
		}
	}

	// Collections with only an explicit property entry and no replicas
	// still exist.
	for name := range props.collections {
		ensureCollection(name)
	}

	return &ClusterState{
		Version:     0,
		LiveNodes:   live.slice(),
		Collections: collections,
	}
}
