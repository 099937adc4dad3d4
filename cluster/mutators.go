package cluster

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const coresKey = "cores"

// SetClusterState wipes all internal maps and repopulates LiveNodeSet,
// PropertyMaps, and NodeIndex from the given snapshot, then re-publishes
// state.
func (p *Provider) SetClusterState(ctx context.Context, initial *ClusterState) error {
	p.lock()
	defer p.unlock()

	p.index = newNodeIndex()
	p.props.reset()
	p.live = newLiveNodeSet()
	p.publisher.reset()

	for _, node := range initial.LiveNodes {
		p.live.add(node)
		p.index.ensure(node)
	}

	for name, c := range initial.Collections {
		for k, v := range c.Properties {
			p.props.setCollectionProperty(name, k, v)
		}
		for shard, s := range c.Shards {
			p.props.setSliceProperties(name, shard, s.Properties)
			for replicaName, rv := range s.Replicas {
				record := &ReplicaRecord{
					Name:       replicaName,
					Core:       rv.Core,
					Collection: name,
					Shard:      shard,
					Type:       rv.Type,
					Node:       rv.Node,
					Variables:  copyProps(rv.Variables),
				}
				p.index.ensure(record.Node)
				p.index.append(record.Node, record)
			}
		}
	}

	state := p.buildLocked()
	if err := p.publisher.publishState(ctx, state); err != nil {
		return err
	}
	p.metrics.setFromState(state, p.live, len(p.index))
	return nil
}

// AddNode adds id to the live-node set, failing if it is already live
// Returns true when the node's replica list was newly
// created.
func (p *Provider) AddNode(id string) (bool, error) {
	p.lock()
	defer p.unlock()

	if p.live.has(id) {
		return false, newPreconditionError("addNode", "node already live: "+id)
	}
	p.live.add(id)
	created := p.index.ensure(id)
	p.logger.Debug("add node", zap.String("node", id))
	p.metrics.setFromState(p.buildLocked(), p.live, len(p.index))
	return created, nil
}

// RemoveNode marks every replica on id as down, removes id from the
// live-node set, and schedules a leader election over the affected
// collections, publishing state before electing.
func (p *Provider) RemoveNode(id string) (bool, error) {
	p.lock()

	if !p.live.has(id) {
		p.unlock()
		return false, nil
	}

	collections := make(map[string]struct{})
	for _, r := range p.index[id] {
		r.setState(ReplicaStateDown)
		r.setLeader(false)
		collections[r.Collection] = struct{}{}
	}
	p.live.remove(id)
	p.logger.Debug("remove node", zap.String("node", id))
	p.metrics.setFromState(p.buildLocked(), p.live, len(p.index))

	p.unlock()

	p.scheduleElection(mapKeys(collections), true)
	return true, nil
}

// AddReplica enforces core uniqueness, requires node be live, appends
// record with state=ACTIVE, and increments the node's cores counter.
func (p *Provider) AddReplica(node string, record *ReplicaRecord, runElection bool) error {
	p.lock()
	defer p.unlock()
	if err := p.addReplicaLocked(node, record); err != nil {
		return err
	}
	if runElection {
		p.scheduleElection([]string{record.Collection}, false)
	}
	return nil
}

func (p *Provider) addReplicaLocked(node string, record *ReplicaRecord) error {
	if p.index.findCore(record.Core) {
		return newPreconditionError("addReplica", "duplicate core: "+record.Core)
	}
	if !p.live.has(node) {
		return newPreconditionError("addReplica", "node not live: "+node)
	}

	record.Node = node
	record.setState(ReplicaStateActive)
	p.index.ensure(node)
	p.index.append(node, record)

	cur, _ := p.nodeState.NodeValue(node, coresKey)
	n, _ := cur.(int)
	p.nodeState.SetNodeValue(node, coresKey, n+1)

	p.logger.Debug("add replica", zap.String("node", node), zap.String("core", record.Core))
	return nil
}

// RemoveReplica removes the replica named replicaName from node,
// decrementing the node's cores counter if it is live, and schedules a
// leader election over the replica's collection.
func (p *Provider) RemoveReplica(node, replicaName string) error {
	p.lock()
	collection, err := p.removeReplicaLocked(node, replicaName)
	p.unlock()
	if err != nil {
		return err
	}
	p.scheduleElection([]string{collection}, false)
	return nil
}

func (p *Provider) removeReplicaLocked(node, replicaName string) (string, error) {
	record, i := p.index.findReplica(node, replicaName)
	if record == nil {
		return "", newPreconditionError("removeReplica", "replica not found: "+replicaName)
	}
	p.index.removeAt(node, i)

	if p.live.has(node) {
		cur, _ := p.nodeState.NodeValue(node, coresKey)
		n, _ := cur.(int)
		if n <= 0 {
			panicInvariant("cores-counter-nonnegative", "cores counter already at 0 for node "+node)
		}
		p.nodeState.SetNodeValue(node, coresKey, n-1)
	}

	p.logger.Debug("remove replica", zap.String("node", node), zap.String("replica", replicaName))
	return record.Collection, nil
}

// CreateCollectionRequest describes a collection to create.
type CreateCollectionRequest struct {
	Collection string
	Shards     []string
	Nodes      []string
	Properties CollectionProperties
	// Async, when non-nil, requests an asynchronous-style response: if
	// *Async is empty a request id is generated, otherwise *Async is
	// echoed back verbatim.
	Async *string
}

// CreateCollectionResult is returned by CreateCollection.
type CreateCollectionResult struct {
	Collection string
	RequestID  string
}

// CreateCollection delegates to the external PlacementEngine for replica
// positions, assigns core and replica names, adds every replica, and
// schedules one leader election for the collection.
func (p *Provider) CreateCollection(ctx context.Context, req CreateCollectionRequest) (*CreateCollectionResult, error) {
	p.lock()

	state := p.buildLocked()
	positions, err := p.placement.BuildReplicaPositions(ctx, state, req.Properties, req.Nodes, req.Shards)
	if err != nil {
		p.unlock()
		return nil, err
	}

	counters := make(map[string]int) // keyed by "<shard>/<type>"
	var added []*ReplicaRecord
	for _, pos := range positions {
		key := pos.Shard + "/" + string(pos.Type)
		counters[key]++
		n := counters[key]

		id, err := p.idAssigner.IncAndGetID(ctx, req.Collection, 0)
		if err != nil {
			p.unlock()
			return nil, err
		}
		record := &ReplicaRecord{
			Name:       p.idAssigner.AssignCoreNodeName(id),
			Core:       p.idAssigner.BuildCoreName(req.Collection, pos.Shard, pos.Type, n),
			Collection: req.Collection,
			Shard:      pos.Shard,
			Type:       pos.Type,
		}
		if err := p.addReplicaLocked(pos.Node, record); err != nil {
			// Undo the replicas already added so a rejected position leaves
			// state unchanged.
			for _, r := range added {
				_, _ = p.removeReplicaLocked(r.Node, r.Name)
			}
			p.unlock()
			return nil, err
		}
		added = append(added, record)
	}

	if req.Properties != nil {
		p.props.setCollectionProperties(req.Collection, req.Properties)
	}

	p.logger.Debug("create collection", zap.String("collection", req.Collection), zap.Int("replicas", len(positions)))
	p.unlock()

	p.scheduleElection([]string{req.Collection}, false)

	result := &CreateCollectionResult{Collection: req.Collection}
	if req.Async != nil {
		if *req.Async != "" {
			result.RequestID = *req.Async
		} else {
			result.RequestID = uuid.NewString()
		}
	}
	return result, nil
}

// DeleteCollection removes collection's replicas and property entries,
// decrementing each affected live node's cores counter by exactly the
// number of replicas removed, then publishes state.
func (p *Provider) DeleteCollection(ctx context.Context, collection string) error {
	p.lock()
	defer p.unlock()

	p.props.deleteCollection(collection)
	removed := p.index.removeCollection(collection)

	for node, count := range removed {
		if !p.live.has(node) {
			continue
		}
		cur, _ := p.nodeState.NodeValue(node, coresKey)
		n, _ := cur.(int)
		if n < count {
			panicInvariant("cores-counter-nonnegative", "cores counter underflow for node "+node)
		}
		p.nodeState.SetNodeValue(node, coresKey, n-count)
	}

	p.logger.Debug("delete collection", zap.String("collection", collection))
	state := p.buildLocked()
	p.metrics.setFromState(state, p.live, len(p.index))
	return p.publisher.publishState(ctx, state)
}

// DeleteAllCollections clears every replica list, collection, and slice
// property, resets every node's cores counter to 0, then publishes state.
func (p *Provider) DeleteAllCollections(ctx context.Context) error {
	p.lock()
	defer p.unlock()

	for node := range p.index {
		p.index[node] = nil
		p.nodeState.SetNodeValue(node, coresKey, 0)
	}
	p.props.collections = make(map[string]CollectionProperties)
	p.props.slices = make(map[sliceKey]SliceProperties)

	p.logger.Debug("delete all collections")
	state := p.buildLocked()
	p.metrics.setFromState(state, p.live, len(p.index))
	return p.publisher.publishState(ctx, state)
}

// MoveReplica moves replicaName from its current node to targetNode,
// synthesizing a new replica and core name via the external IdAssigner.
// The remove step's scheduled election is sufficient; no extra election
// is scheduled.
func (p *Provider) MoveReplica(ctx context.Context, collection, replicaName, targetNode string) error {
	p.lock()

	var found *ReplicaRecord
	var sourceNode string
	for node, records := range p.index {
		for _, r := range records {
			if r.Collection == collection && r.Name == replicaName {
				found = r
				sourceNode = node
			}
		}
	}
	if found == nil {
		p.unlock()
		return newPreconditionError("moveReplica", "replica not found: "+replicaName)
	}

	id, err := p.idAssigner.IncAndGetID(ctx, collection, 0)
	if err != nil {
		p.unlock()
		return err
	}
	newRecord := &ReplicaRecord{
		Name:       p.idAssigner.AssignCoreNodeName(id),
		Core:       p.idAssigner.BuildCoreName(collection, found.Shard, found.Type, int(id)),
		Collection: collection,
		Shard:      found.Shard,
		Type:       found.Type,
	}
	if err := p.addReplicaLocked(targetNode, newRecord); err != nil {
		p.unlock()
		return err
	}
	if _, err := p.removeReplicaLocked(sourceNode, replicaName); err != nil {
		p.unlock()
		return err
	}

	p.logger.Debug(
		"move replica",
		zap.String("replica", replicaName),
		zap.String("from", sourceNode),
		zap.String("to", targetNode),
	)
	p.unlock()

	p.scheduleElection([]string{collection}, false)
	return nil
}

func mapKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
