package cluster

// ReplicaType is the kind of replica hosted for a shard.
type ReplicaType string

const (
	// ReplicaTypeNRT replicates writes and serves both searches and
	// updates; eligible to become a leader.
	ReplicaTypeNRT ReplicaType = "NRT"
	// ReplicaTypeTLOG replicates the transaction log only; eligible to
	// become a leader but recovers from the log rather than by indexing.
	ReplicaTypeTLOG ReplicaType = "TLOG"
	// ReplicaTypePULL pulls indexes from a leader. The leader elector does
	// not look at replica type, so an active PULL replica on a live node is
	// a leader candidate like any other.
	ReplicaTypePULL ReplicaType = "PULL"
)

// Initial returns the lowercase first letter of the replica type, used to
// build core names (see BuildCoreName).
func (t ReplicaType) Initial() string {
	switch t {
	case ReplicaTypeNRT:
		return "n"
	case ReplicaTypeTLOG:
		return "t"
	case ReplicaTypePULL:
		return "p"
	default:
		return "n"
	}
}

// ReplicaState is the known health of a replica.
type ReplicaState string

const (
	ReplicaStateActive     ReplicaState = "ACTIVE"
	ReplicaStateDown       ReplicaState = "DOWN"
	ReplicaStateRecovering ReplicaState = "RECOVERING"
	ReplicaStateRecoveryFailed ReplicaState = "RECOVERY_FAILED"
)

// ReplicaRecord is the mutable, authoritative entity owned exclusively by
// Provider. External callers only ever see the derived, read-only Replica
// view produced by ClusterStateBuilder.
//
// To keep every structural invariant intact, never update a record
// outside of Provider's stateLock, and never hand out a ReplicaRecord
// pointer to a caller.
type ReplicaRecord struct {
	// Name is the cluster-unique replica id, e.g. "core_node42".
	//
	// Name is immutable.
	Name string `json:"name"`

	// Core is the cluster-unique core name, e.g. "coll_shard1_replica_n1".
	//
	// Core is immutable.
	Core string `json:"core"`

	// Collection is the collection this replica belongs to.
	//
	// Collection is immutable.
	Collection string `json:"collection"`

	// Shard is the shard (slice) this replica belongs to.
	//
	// Shard is immutable.
	Shard string `json:"shard"`

	// Type is the replica type.
	//
	// Type is immutable.
	Type ReplicaType `json:"type"`

	// Node is the node currently hosting the replica.
	Node string `json:"node_name"`

	// Variables holds mutable, free-form per-replica state, including
	// "state" (ReplicaState) and, when present, "leader" (bool).
	Variables map[string]any `json:"-"`
}

func (r *ReplicaRecord) state() ReplicaState {
	v, ok := r.Variables["state"]
	if !ok {
		return ReplicaStateDown
	}
	s, ok := v.(ReplicaState)
	if !ok {
		return ReplicaStateDown
	}
	return s
}

func (r *ReplicaRecord) setState(s ReplicaState) {
	if r.Variables == nil {
		r.Variables = make(map[string]any)
	}
	r.Variables["state"] = s
}

func (r *ReplicaRecord) isLeader() bool {
	v, ok := r.Variables["leader"]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func (r *ReplicaRecord) setLeader(leader bool) {
	if r.Variables == nil {
		r.Variables = make(map[string]any)
	}
	if leader {
		r.Variables["leader"] = true
	} else {
		delete(r.Variables, "leader")
	}
}

// copy returns a deep copy of the record suitable for embedding in a
// read-only Replica view.
func (r *ReplicaRecord) copy() *ReplicaRecord {
	vars := make(map[string]any, len(r.Variables))
	for k, v := range r.Variables {
		vars[k] = v
	}
	return &ReplicaRecord{
		Name:       r.Name,
		Core:       r.Core,
		Collection: r.Collection,
		Shard:      r.Shard,
		Type:       r.Type,
		Node:       r.Node,
		Variables:  vars,
	}
}
