package cluster

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shardsim/shardsim/pkg/backoff"
	"github.com/shardsim/shardsim/pkg/log"
)

// publishRetries bounds the number of times elect retries a failed
// pre-election publish before giving up and logging. Asynchronously
// scheduled election failures are logged rather than propagated, since
// there is no caller left to return them to.
const publishRetries = 3

// leaderElector re-elects a leader per slice for a set of collections
// whenever the current leader is absent or dead.
//
// leaderElector holds its own mutex so concurrent elections are strictly
// serialized even though they run on Provider's executor, independent of
// Provider.stateLock.
type leaderElector struct {
	provider *Provider

	mu  sync.Mutex
	rng *rand.Rand

	logger log.Logger
}

func newLeaderElector(provider *Provider, seed int64, logger log.Logger) *leaderElector {
	return &leaderElector{
		provider: provider,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logger.WithSubsystem("cluster.elector"),
	}
}

// elect runs the election procedure for the given collections.
func (e *leaderElector) elect(ctx context.Context, collections []string, publishBeforeElecting bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if publishBeforeElecting {
		if err := e.publishWithRetry(ctx); err != nil {
			return err
		}
	}

	e.provider.lock()
	defer e.provider.unlock()

	for _, collection := range collections {
		e.electCollectionLocked(collection)
	}
	e.provider.metrics.ElectionsTotal.Inc()
	return nil
}

// publishWithRetry retries a failed pre-election publish with exponential
// backoff before giving up.
func (e *leaderElector) publishWithRetry(ctx context.Context) error {
	b := backoff.New(publishRetries, 10*time.Millisecond, 200*time.Millisecond)
	var lastErr error
	for {
		lastErr = e.provider.PublishState(ctx)
		if lastErr == nil {
			return nil
		}
		e.logger.Warn("retrying pre-election publish")
		if !b.Wait(ctx) {
			return lastErr
		}
	}
}

// electCollectionLocked runs the election procedure for every shard of
// collection. Callers must hold Provider.stateLock.
func (e *leaderElector) electCollectionLocked(collection string) {
	shards := make(map[string][]*ReplicaRecord)
	for _, records := range e.provider.index {
		for _, r := range records {
			if r.Collection == collection {
				shards[r.Shard] = append(shards[r.Shard], r)
			}
		}
	}
	if len(shards) == 0 {
		// Collection no longer exists; nothing to do.
		return
	}

	// Deterministic iteration order so the seeded RNG consumption is
	// reproducible across runs.
	names := make([]string, 0, len(shards))
	for shard := range shards {
		names = append(names, shard)
	}
	sort.Strings(names)

	for _, shard := range names {
		e.electSliceLocked(collection, shard, shards[shard])
	}
}

func (e *leaderElector) electSliceLocked(collection, shard string, records []*ReplicaRecord) {
	if leader, ok := e.currentLiveLeader(records); ok {
		_ = leader
		return
	}

	var candidates []*ReplicaRecord
	for _, r := range records {
		r.setLeader(false)
		if e.provider.live.has(r.Node) && r.state() == ReplicaStateActive {
			candidates = append(candidates, r)
		} else if !e.provider.live.has(r.Node) {
			r.setState(ReplicaStateDown)
		}
	}

	if len(candidates) == 0 {
		e.logger.Info(
			"no active candidates for slice; leaving leaderless",
			zap.String("collection", collection),
			zap.String("shard", shard),
		)
		return
	}

	// Sort first for determinism, then shuffle with the seeded RNG so the
	// selection is reproducible given the same seed.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Name < candidates[j].Name
	})
	e.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	candidates[0].setLeader(true)
}

func (e *leaderElector) currentLiveLeader(records []*ReplicaRecord) (*ReplicaRecord, bool) {
	for _, r := range records {
		if r.isLeader() && e.provider.live.has(r.Node) {
			return r, true
		}
	}
	return nil, false
}
