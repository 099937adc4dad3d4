package cluster

// defaultRoutingPolicy is the routing policy name attached to every
// collection in a built ClusterState.
const defaultRoutingPolicy = "compositeId"

// Replica is the immutable, external view of a ReplicaRecord, embedding its
// variables plus the node it is hosted on.
type Replica struct {
	Name       string         `json:"-"`
	Core       string         `json:"core"`
	Collection string         `json:"-"`
	Shard      string         `json:"-"`
	Type       ReplicaType    `json:"type"`
	Node       string         `json:"node_name"`
	Variables  map[string]any `json:"-"`
}

// State returns the replica's known health.
func (r *Replica) State() ReplicaState {
	if v, ok := r.Variables["state"]; ok {
		if s, ok := v.(ReplicaState); ok {
			return s
		}
	}
	return ReplicaStateDown
}

// IsLeader reports whether the replica is the current leader of its shard.
func (r *Replica) IsLeader() bool {
	v, ok := r.Variables["leader"]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// MarshalJSON renders the canonical persisted replica object, including
// "leader" only when true and "state" always.
func (r *Replica) MarshalJSON() ([]byte, error) {
	obj := map[string]any{
		"core":      r.Core,
		"node_name": r.Node,
		"type":      string(r.Type),
		"state":     string(r.State()),
	}
	if r.IsLeader() {
		obj["leader"] = true
	}
	return marshalCanonicalJSON(obj)
}

// Slice is one shard (partition) of a collection: its replicas and slice
// properties.
type Slice struct {
	Shard      string             `json:"-"`
	Replicas   map[string]*Replica `json:"replicas"`
	Properties SliceProperties    `json:"-"`
}

// Leader returns the slice's current leader replica, if any.
func (s *Slice) Leader() (*Replica, bool) {
	for _, r := range s.Replicas {
		if r.IsLeader() {
			return r, true
		}
	}
	return nil, false
}

func (s *Slice) MarshalJSON() ([]byte, error) {
	obj := map[string]any{
		"replicas": s.Replicas,
	}
	for k, v := range s.Properties {
		obj[k] = v
	}
	return marshalCanonicalJSON(obj)
}

// Collection is a named logical dataset partitioned into shards.
type Collection struct {
	Name       string            `json:"-"`
	Shards     map[string]*Slice `json:"shards"`
	Properties CollectionProperties `json:"properties"`
	// RoutingPolicy is a placeholder for the placement-policy name used to
	// create the collection; it is not interpreted by the core.
	RoutingPolicy string `json:"-"`
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	return marshalCanonicalJSON(map[string]any{
		"shards":     c.Shards,
		"properties": c.Properties,
	})
}

// ClusterState is the immutable snapshot produced by ClusterStateBuilder.
// External components observe state only through this view; they must
// never mutate it.
type ClusterState struct {
	Version     int                    `json:"version"`
	LiveNodes   []string               `json:"liveNodes"`
	Collections map[string]*Collection `json:"collections"`
}

func (cs *ClusterState) MarshalJSON() ([]byte, error) {
	liveNodes := cs.LiveNodes
	if liveNodes == nil {
		liveNodes = []string{}
	}
	return marshalCanonicalJSON(map[string]any{
		"version":     cs.Version,
		"liveNodes":   liveNodes,
		"collections": cs.Collections,
	})
}

// Collection looks up a collection by name.
func (cs *ClusterState) Collection(name string) (*Collection, bool) {
	c, ok := cs.Collections[name]
	return c, ok
}

// HasCollection reports whether the collection exists in the snapshot.
func (cs *ClusterState) HasCollection(name string) bool {
	_, ok := cs.Collections[name]
	return ok
}
