// Package simulate implements the 'shardsim simulate' command, which runs a
// standalone simulated cluster state provider with a read-only status HTTP
// server, for manual exploration and scripted test scenarios.
package simulate

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	rungroup "github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/shardsim/shardsim/cluster"
	"github.com/shardsim/shardsim/pkg/config"
	"github.com/shardsim/shardsim/pkg/log"
	"github.com/shardsim/shardsim/sim"
)

// NewCommand returns the 'simulate' cobra command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "run a simulated cluster state provider",
		Long: `Run a standalone simulated cluster state provider.

Seeds the given number of live nodes and serves a read-only status HTTP
endpoint over the resulting cluster state. Intended for manually exploring
mutator behavior and for scripted fault-injection scenarios.

Supports both YAML configuration and command line flags. Configure a YAML
file using '--config.path'.

Sending a SIGHUP signal to the process re-reads and re-validates the
configuration; the running simulation does not apply the reloaded values.
`,
	}

	conf := Default()
	var loadConf config.Config

	conf.RegisterFlags(cmd.Flags())
	loadConf.RegisterFlags(cmd.Flags())

	var logger log.Logger

	loadConfig := func() error {
		if err := loadConf.Load(conf); err != nil {
			return fmt.Errorf("load: %w", err)
		}
		if err := conf.Validate(); err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		return nil
	}

	cmd.PreRun = func(_ *cobra.Command, _ []string) {
		if err := loadConfig(); err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}

		var err error
		logger, err = log.NewLogger(conf.Log.Level, conf.Log.Subsystems)
		if err != nil {
			fmt.Printf("failed to setup logger: %s\n", err.Error())
			os.Exit(1)
		}
	}

	cmd.Run = func(_ *cobra.Command, _ []string) {
		if err := run(conf, loadConfig, logger); err != nil {
			logger.Error("simulate failed", zap.Error(err))
			os.Exit(1)
		}
	}

	return cmd
}

func run(conf *Config, loadConfig func() error, logger log.Logger) error {
	logger.Info("starting simulation", zap.Int("nodes", conf.Nodes))
	defer func() {
		logger.Info("shutdown complete")
	}()

	registry := prometheus.NewRegistry()
	metrics := cluster.NewMetrics()
	metrics.Register(registry)

	executor := sim.NewExecutor(conf.QueueDepth)

	provider := cluster.NewProvider(
		cluster.WithNodeStateProvider(sim.NewNodeState()),
		cluster.WithStateManager(sim.NewStateManager()),
		cluster.WithPlacementEngine(sim.NewRoundRobinPlacement()),
		cluster.WithIdAssigner(sim.NewIdAssigner()),
		cluster.WithExecutor(executor),
		cluster.WithElectionSeed(conf.ElectionSeed),
		cluster.WithMetrics(metrics),
		cluster.WithLogger(logger),
	)

	for i := 0; i < conf.Nodes; i++ {
		if _, err := provider.AddNode(fmt.Sprintf("node-%d", i)); err != nil {
			return fmt.Errorf("seed node: %w", err)
		}
	}

	waiter := cluster.NewPredicateWaiter(provider, clock.RealClock{}, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	group := router.Group("/status")
	cluster.NewStatus(provider).Register(group)
	group.GET("/collections/:name/wait", waitRoute(waiter))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	server := &http.Server{
		Addr:    conf.Status.BindAddr,
		Handler: router,
	}

	var g rungroup.Group

	executorCtx, executorCancel := context.WithCancel(context.Background())
	g.Add(func() error {
		return executor.Run(executorCtx, conf.Workers)
	}, func(error) {
		executor.Close()
		executorCancel()
	})

	g.Add(func() error {
		logger.Info("status server listening", zap.String("addr", conf.Status.BindAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}, func(error) {
		_ = server.Close()
	})

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	hupCancel := make(chan struct{})
	g.Add(func() error {
		for {
			select {
			case <-hup:
				logger.Info("received hup signal")
				if err := loadConfig(); err != nil {
					logger.Error("failed to reload config", zap.Error(err))
				}
			case <-hupCancel:
				return nil
			}
		}
	}, func(error) {
		close(hupCancel)
	})

	signalCtx, signalCancel := context.WithCancel(context.Background())
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	g.Add(func() error {
		select {
		case sig := <-signalCh:
			logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			return nil
		case <-signalCtx.Done():
			return nil
		}
	}, func(error) {
		signalCancel()
	})

	return g.Run()
}

// waitRoute blocks the request until the named collection reaches the
// requested shape (query params 'shards', 'replicas', 'timeout'), using
// waiter's simulated clock. Returns 504 on timeout.
func waitRoute(waiter *cluster.PredicateWaiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		shards, err := strconv.Atoi(c.DefaultQuery("shards", "1"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shards"})
			return
		}
		replicas, err := strconv.Atoi(c.DefaultQuery("replicas", "1"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid replicas"})
			return
		}
		timeout, err := time.ParseDuration(c.DefaultQuery("timeout", "10s"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timeout"})
			return
		}

		err = waiter.WaitFor(c.Param("name"), timeout, cluster.Shape(shards, replicas))
		if err != nil {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusOK)
	}
}
