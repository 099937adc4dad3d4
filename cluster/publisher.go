package cluster

import (
	"bytes"
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shardsim/shardsim/pkg/log"
)

const (
	// pathClusterState is the fixed key the current ClusterState snapshot
	// is published under.
	pathClusterState = "CLUSTER_STATE"
	// pathClusterProps is the fixed key the cluster property map is
	// published under.
	pathClusterProps = "CLUSTER_PROPS"

	// noVersion means "the path does not yet exist".
	noVersion int32 = -1
)

// statePublisher serializes the current snapshot and writes it to the
// external DistribStateManager using compare-and-set, caching the last
// published bytes so unchanged snapshots are not republished.
//
// statePublisher holds no lock of its own: every method is only ever
// called while Provider.stateLock is held, so the structural read and the
// publish that completes it are linearised together.
type statePublisher struct {
	manager DistribStateManager
	metrics *Metrics
	logger  log.Logger

	lastStateBytes   []byte
	lastStateVersion int32

	lastPropsBytes   []byte
	lastPropsVersion int32
}

func newStatePublisher(manager DistribStateManager, metrics *Metrics, logger log.Logger) *statePublisher {
	return &statePublisher{
		manager:          manager,
		metrics:          metrics,
		logger:           logger.WithSubsystem("cluster.publisher"),
		lastStateVersion: noVersion,
		lastPropsVersion: noVersion,
	}
}

// publishState writes state to pathClusterState if it differs from the
// last published snapshot.
func (p *statePublisher) publishState(ctx context.Context, state *ClusterState) error {
	data, err := marshalCanonicalJSON(state)
	if err != nil {
		return &PublishError{Path: pathClusterState, Err: err}
	}

	if bytes.Equal(data, p.lastStateBytes) {
		return nil
	}

	newVersion, err := p.manager.SetData(ctx, pathClusterState, data, p.lastStateVersion)
	if err != nil {
		p.metrics.PublishFailuresTotal.With(prometheus.Labels{"key": pathClusterState}).Inc()
		p.logger.Warn("publish cluster state failed")
		return &PublishError{Path: pathClusterState, Err: err}
	}

	p.lastStateBytes = data
	p.lastStateVersion = newVersion
	p.metrics.PublishTotal.With(prometheus.Labels{"key": pathClusterState}).Inc()
	return nil
}

// publishClusterProperties writes props to pathClusterProps if it differs
// from the last published snapshot.
func (p *statePublisher) publishClusterProperties(ctx context.Context, props ClusterProperties) error {
	data, err := marshalCanonicalJSON(props)
	if err != nil {
		return &PublishError{Path: pathClusterProps, Err: err}
	}

	if bytes.Equal(data, p.lastPropsBytes) {
		return nil
	}

	newVersion, err := p.manager.SetData(ctx, pathClusterProps, data, p.lastPropsVersion)
	if err != nil {
		p.metrics.PublishFailuresTotal.With(prometheus.Labels{"key": pathClusterProps}).Inc()
		p.logger.Warn("publish cluster properties failed")
		return &PublishError{Path: pathClusterProps, Err: err}
	}

	p.lastPropsBytes = data
	p.lastPropsVersion = newVersion
	p.metrics.PublishTotal.With(prometheus.Labels{"key": pathClusterProps}).Inc()
	return nil
}

// reset clears the cached last-published snapshots, used by
// setClusterState which wipes and repopulates all internal maps.
func (p *statePublisher) reset() {
	p.lastStateBytes = nil
	p.lastStateVersion = noVersion
	p.lastPropsBytes = nil
	p.lastPropsVersion = noVersion
}
