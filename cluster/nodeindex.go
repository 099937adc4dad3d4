package cluster

// nodeIndex is the authoritative mapping from node id to the ordered list
// of ReplicaRecords hosted on that node.
type nodeIndex map[string][]*ReplicaRecord

func newNodeIndex() nodeIndex {
	return make(nodeIndex)
}

// ensure creates an empty replica list for the node if absent, returning
// true if it was newly created.
func (idx nodeIndex) ensure(node string) bool {
	if _, ok := idx[node]; ok {
		return false
	}
	idx[node] = nil
	return true
}

// append adds record to node's list. A record must appear exactly once,
// on exactly one node.
func (idx nodeIndex) append(node string, record *ReplicaRecord) {
	idx[node] = append(idx[node], record)
}

// findCore reports whether any record across all nodes already has the
// given core name.
func (idx nodeIndex) findCore(core string) bool {
	for _, records := range idx {
		for _, r := range records {
			if r.Core == core {
				return true
			}
		}
	}
	return false
}

// findReplica locates the record with the given name on node, along with
// its position in the slice.
func (idx nodeIndex) findReplica(node, name string) (*ReplicaRecord, int) {
	for i, r := range idx[node] {
		if r.Name == name {
			return r, i
		}
	}
	return nil, -1
}

// removeAt removes the record at position i from node's list.
func (idx nodeIndex) removeAt(node string, i int) *ReplicaRecord {
	records := idx[node]
	r := records[i]
	idx[node] = append(records[:i], records[i+1:]...)
	return r
}

// removeCollection removes every record belonging to collection, returning
// the number removed per node.
func (idx nodeIndex) removeCollection(collection string) map[string]int {
	removed := make(map[string]int)
	for node, records := range idx {
		kept := records[:0:0]
		for _, r := range records {
			if r.Collection == collection {
				removed[node]++
				continue
			}
			kept = append(kept, r)
		}
		idx[node] = kept
	}
	return removed
}

// liveNodeSet is the set of node ids currently considered live.
type liveNodeSet map[string]struct{}

func newLiveNodeSet() liveNodeSet {
	return make(liveNodeSet)
}

func (s liveNodeSet) add(node string)    { s[node] = struct{}{} }
func (s liveNodeSet) remove(node string) { delete(s, node) }
func (s liveNodeSet) has(node string) bool {
	_, ok := s[node]
	return ok
}

func (s liveNodeSet) slice() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	return out
}
