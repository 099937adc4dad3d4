package cluster

import "encoding/json"

// marshalCanonicalJSON renders v as JSON. The standard library already
// serializes map[string]any keys in sorted order, which is sufficient to
// satisfy ClusterStateBuilder's determinism requirement without a bespoke
// canonicalizer.
func marshalCanonicalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
