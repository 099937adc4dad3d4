package cluster

import "context"

// SetClusterProperties overwrites the cluster-wide property map. A nil map
// clears it. Publishes the cluster properties snapshot.
func (p *Provider) SetClusterProperties(ctx context.Context, props map[string]any) error {
	p.lock()
	defer p.unlock()

	p.props.setClusterProperties(props)
	return p.publisher.publishClusterProperties(ctx, p.props.cluster)
}

// SetClusterProperty sets, or when value is nil removes, a single cluster
// property, then publishes the cluster properties snapshot.
func (p *Provider) SetClusterProperty(ctx context.Context, key string, value any) error {
	p.lock()
	defer p.unlock()

	p.props.setClusterProperty(key, value)
	return p.publisher.publishClusterProperties(ctx, p.props.cluster)
}

// SetCollectionProperties overwrites collection's property map. A nil map
// clears all of the collection's properties; the lock is held for both
// the clearing and non-clearing branches, since both mutate state read by
// buildLocked. Publishes the cluster state snapshot since collection
// properties are embedded in it.
func (p *Provider) SetCollectionProperties(ctx context.Context, collection string, props map[string]any) error {
	p.lock()
	defer p.unlock()

	p.props.setCollectionProperties(collection, props)
	return p.publisher.publishState(ctx, p.buildLocked())
}

// SetCollectionProperty sets, or when value is nil removes, a single
// collection property.
func (p *Provider) SetCollectionProperty(ctx context.Context, collection, key string, value any) error {
	p.lock()
	defer p.unlock()

	p.props.setCollectionProperty(collection, key, value)
	return p.publisher.publishState(ctx, p.buildLocked())
}

// SetSliceProperties overwrites a (collection, shard)'s property map. A
// nil map removes all properties for the slice.
func (p *Provider) SetSliceProperties(ctx context.Context, collection, shard string, props map[string]any) error {
	p.lock()
	defer p.unlock()

	p.props.setSliceProperties(collection, shard, props)
	return p.publisher.publishState(ctx, p.buildLocked())
}

// PublishState is the exported entry point used by LeaderElector (when
// publishBeforeElecting is set) and available directly to callers that
// want to force a publish without a structural change.
func (p *Provider) PublishState(ctx context.Context) error {
	p.lock()
	defer p.unlock()
	state := p.buildLocked()
	p.metrics.setFromState(state, p.live, len(p.index))
	return p.publisher.publishState(ctx, state)
}

// PublishClusterProperties forces a publish of the cluster property map.
func (p *Provider) PublishClusterProperties(ctx context.Context) error {
	p.lock()
	defer p.unlock()
	return p.publisher.publishClusterProperties(ctx, p.props.cluster)
}
