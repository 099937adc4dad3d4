package cluster

import (
	"github.com/shardsim/shardsim/pkg/log"
)

type options struct {
	nodeState    NodeStateProvider
	stateManager DistribStateManager
	placement    PlacementEngine
	idAssigner   IdAssigner
	executor     Executor
	electionSeed int64
	metrics      *Metrics
	logger       log.Logger
}

// Option configures a Provider.
type Option interface {
	apply(*options)
}

type nodeStateOption struct{ v NodeStateProvider }

func (o nodeStateOption) apply(opts *options) { opts.nodeState = o.v }

// WithNodeStateProvider configures the external per-node telemetry
// provider.
func WithNodeStateProvider(v NodeStateProvider) Option {
	return nodeStateOption{v: v}
}

type stateManagerOption struct{ v DistribStateManager }

func (o stateManagerOption) apply(opts *options) { opts.stateManager = o.v }

// WithStateManager configures the external versioned state manager.
func WithStateManager(v DistribStateManager) Option {
	return stateManagerOption{v: v}
}

type placementOption struct{ v PlacementEngine }

func (o placementOption) apply(opts *options) { opts.placement = o.v }

// WithPlacementEngine configures the external placement policy engine.
func WithPlacementEngine(v PlacementEngine) Option {
	return placementOption{v: v}
}

type idAssignerOption struct{ v IdAssigner }

func (o idAssignerOption) apply(opts *options) { opts.idAssigner = o.v }

// WithIdAssigner configures the external core/replica name assigner.
func WithIdAssigner(v IdAssigner) Option {
	return idAssignerOption{v: v}
}

type executorOption struct{ v Executor }

func (o executorOption) apply(opts *options) { opts.executor = o.v }

// WithExecutor configures the external executor used for asynchronous
// leader elections.
func WithExecutor(v Executor) Option {
	return executorOption{v: v}
}

type electionSeedOption int64

func (o electionSeedOption) apply(opts *options) { opts.electionSeed = int64(o) }

// WithElectionSeed configures the seed for the leader-election RNG, for
// reproducible test replays. Defaults to 0.
func WithElectionSeed(seed int64) Option {
	return electionSeedOption(seed)
}

type metricsOption struct{ v *Metrics }

func (o metricsOption) apply(opts *options) { opts.metrics = o.v }

// WithMetrics configures the Prometheus metrics. Defaults to a fresh,
// unregistered Metrics.
func WithMetrics(m *Metrics) Option {
	return metricsOption{v: m}
}

type loggerOption struct{ v log.Logger }

func (o loggerOption) apply(opts *options) { opts.logger = o.v }

// WithLogger configures the logger. Defaults to no output.
func WithLogger(logger log.Logger) Option {
	return loggerOption{v: logger}
}
