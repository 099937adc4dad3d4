package cluster

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus metrics describing the simulated cluster
// state.
type Metrics struct {
	// Nodes contains the number of known nodes, labelled by liveness.
	Nodes *prometheus.GaugeVec

	// Replicas contains the number of known replicas, labelled by
	// collection and state.
	Replicas *prometheus.GaugeVec

	// Collections contains the number of known collections.
	Collections prometheus.Gauge

	// PublishTotal counts successful snapshot publishes, labelled by key.
	PublishTotal *prometheus.CounterVec

	// PublishFailuresTotal counts failed snapshot publishes, labelled by
	// key.
	PublishFailuresTotal *prometheus.CounterVec

	// ElectionsTotal counts completed leader elections.
	ElectionsTotal prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Nodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "shardsim",
				Subsystem: "cluster",
				Name:      "nodes",
				Help:      "Number of nodes in the simulated cluster state.",
			},
			[]string{"live"},
		),
		Replicas: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "shardsim",
				Subsystem: "cluster",
				Name:      "replicas",
				Help:      "Number of replicas in the simulated cluster state.",
			},
			[]string{"collection", "state"},
		),
		Collections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "shardsim",
				Subsystem: "cluster",
				Name:      "collections",
				Help:      "Number of collections in the simulated cluster state.",
			},
		),
		PublishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shardsim",
				Subsystem: "cluster",
				Name:      "publish_total",
				Help:      "Number of successful snapshot publishes.",
			},
			[]string{"key"},
		),
		PublishFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shardsim",
				Subsystem: "cluster",
				Name:      "publish_failures_total",
				Help:      "Number of failed snapshot publishes.",
			},
			[]string{"key"},
		),
		ElectionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "shardsim",
				Subsystem: "cluster",
				Name:      "elections_total",
				Help:      "Number of completed leader elections.",
			},
		),
	}
}

func (m *Metrics) Register(registry *prometheus.Registry) {
	registry.MustRegister(
		m.Nodes,
		m.Replicas,
		m.Collections,
		m.PublishTotal,
		m.PublishFailuresTotal,
		m.ElectionsTotal,
	)
}

func (m *Metrics) setFromState(state *ClusterState, live liveNodeSet, totalNodes int) {
	m.Nodes.With(prometheus.Labels{"live": "true"}).Set(float64(len(live)))
	m.Nodes.With(prometheus.Labels{"live": "false"}).Set(float64(totalNodes - len(live)))

	m.Replicas.Reset()
	m.Collections.Set(float64(len(state.Collections)))
	for _, c := range state.Collections {
		counts := make(map[ReplicaState]int)
		for _, s := range c.Shards {
			for _, r := range s.Replicas {
				counts[r.State()]++
			}
		}
		for st, n := range counts {
			m.Replicas.With(prometheus.Labels{
				"collection": c.Name,
				"state":      string(st),
			}).Set(float64(n))
		}
	}
}
