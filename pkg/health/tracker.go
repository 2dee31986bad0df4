package health

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for origin health tracking.
var (
	originConsecutiveFailures = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "offcache_origin_consecutive_failures",
		Help: "Number of consecutive failed network fetches against the origin",
	})

	originFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offcache_origin_failures_total",
		Help: "Total number of failed network fetches against the origin",
	})

	originRecoveriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offcache_origin_recoveries_total",
		Help: "Total number of times the origin recovered after a failure run",
	})
)

// Tracker records network fetch outcomes and maintains the shared origin
// reachability state.
type Tracker struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewTracker creates a new origin health tracker.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:  redisClient,
		logger: logger,
	}
}

// State retrieves the current origin health state from Redis.
// Returns a default online state if no data exists yet.
func (t *Tracker) State(ctx context.Context) (*State, error) {
	failures, err := t.redis.Get(ctx, RedisKeyConsecutiveFailures).Int()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get consecutive failures: %w", err)
	}

	lastSuccess, err := t.redis.Get(ctx, RedisKeyLastSuccess).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get last success: %w", err)
	}

	lastFailure, err := t.redis.Get(ctx, RedisKeyLastFailure).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get last failure: %w", err)
	}

	state := &State{
		ConsecutiveFailures: failures,
	}
	if lastSuccess > 0 {
		state.LastSuccess = time.Unix(lastSuccess, 0)
	}
	if lastFailure > 0 {
		state.LastFailure = time.Unix(lastFailure, 0)
	}

	return state, nil
}

// RecordSuccess resets the failure run after a successful network fetch.
func (t *Tracker) RecordSuccess(ctx context.Context) error {
	prev, err := t.redis.Get(ctx, RedisKeyConsecutiveFailures).Int()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("get consecutive failures: %w", err)
	}

	pipe := t.redis.Pipeline()
	pipe.Set(ctx, RedisKeyConsecutiveFailures, 0, 0)
	pipe.Set(ctx, RedisKeyLastSuccess, time.Now().Unix(), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store origin health state: %w", err)
	}

	originConsecutiveFailures.Set(0)

	if prev >= FailuresDegraded {
		originRecoveriesTotal.Inc()
		t.logger.Info().
			Int("failures", prev).
			Msg("Origin recovered")
	}

	return nil
}

// RecordFailure extends the failure run after a failed network fetch
// and logs classification transitions.
func (t *Tracker) RecordFailure(ctx context.Context) error {
	failures, err := t.redis.Incr(ctx, RedisKeyConsecutiveFailures).Result()
	if err != nil {
		return fmt.Errorf("incr consecutive failures: %w", err)
	}

	if err := t.redis.Set(ctx, RedisKeyLastFailure, time.Now().Unix(), 0).Err(); err != nil {
		return fmt.Errorf("store last failure: %w", err)
	}

	originFailuresTotal.Inc()
	originConsecutiveFailures.Set(float64(failures))

	// Log only at the transition points, not on every failure.
	switch failures {
	case FailuresOffline:
		t.logger.Error().
			Int64("failures", failures).
			Msg("Origin OFFLINE - serving from cache only")
	case FailuresDegraded:
		t.logger.Warn().
			Int64("failures", failures).
			Msg("Origin degraded - repeated network failures")
	}

	return nil
}
