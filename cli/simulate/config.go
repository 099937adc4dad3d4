package simulate

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/shardsim/shardsim/pkg/log"
)

// Config configures the simulate command.
type Config struct {
	// Nodes is the number of live nodes to seed the simulation with.
	Nodes int `json:"nodes" yaml:"nodes"`

	// ElectionSeed seeds the leader elector's RNG, making elections
	// reproducible across runs.
	ElectionSeed int64 `json:"election_seed" yaml:"election_seed"`

	// Workers is the number of goroutines running asynchronous leader
	// elections submitted to the executor.
	Workers int `json:"workers" yaml:"workers"`

	// QueueDepth bounds the number of queued, not-yet-running election
	// tasks.
	QueueDepth int `json:"queue_depth" yaml:"queue_depth"`

	// Status configures the read-only HTTP introspection server.
	Status StatusConfig `json:"status" yaml:"status"`

	Log log.Config `json:"log" yaml:"log"`
}

// StatusConfig configures the status HTTP server.
type StatusConfig struct {
	// BindAddr is the address to listen on for the status server.
	BindAddr string `json:"bind_addr" yaml:"bind_addr"`
}

// Default returns the default simulate configuration.
func Default() *Config {
	return &Config{
		Nodes:        3,
		ElectionSeed: 0,
		Workers:      4,
		QueueDepth:   256,
		Status: StatusConfig{
			BindAddr: "localhost:8721",
		},
		Log: log.Config{
			Level: "info",
		},
	}
}

// RegisterFlags registers the command line flags for the simulate command.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.IntVar(
		&c.Nodes,
		"nodes",
		c.Nodes,
		`
Number of live nodes to seed the simulation with.`,
	)
	fs.Int64Var(
		&c.ElectionSeed,
		"election-seed",
		c.ElectionSeed,
		`
Seed for the leader elector's random candidate selection, making elections
reproducible across runs given the same sequence of mutations.`,
	)
	fs.IntVar(
		&c.Workers,
		"workers",
		c.Workers,
		`
Number of goroutines running asynchronous leader elections.`,
	)
	fs.IntVar(
		&c.QueueDepth,
		"queue-depth",
		c.QueueDepth,
		`
Maximum number of queued, not-yet-running election tasks.`,
	)
	fs.StringVar(
		&c.Status.BindAddr,
		"status.bind-addr",
		c.Status.BindAddr,
		`
Address to bind the read-only status HTTP server to.`,
	)
	c.Log.RegisterFlags(fs)
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if c.Nodes < 0 {
		return fmt.Errorf("nodes must not be negative")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}
	if c.QueueDepth <= 0 {
		return fmt.Errorf("queue depth must be greater than 0")
	}
	if c.Status.BindAddr == "" {
		return fmt.Errorf("missing status.bind-addr")
	}
	return c.Log.Validate()
}
