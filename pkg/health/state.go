// Package health implements origin reachability tracking.
// It records the outcome of every network fetch the gateway performs and
// classifies the origin as online, degraded or offline. The classification
// is observational only: strategies never consult it, request handling is
// driven purely by per-request fetch outcomes.
package health

import (
	"time"
)

// Redis keys for origin health state storage.
// State lives in Redis so that all gateway instances share one view.
// The namespace is deliberately disjoint from the cache entry keys so
// that version rotation never touches health state.
const (
	RedisKeyConsecutiveFailures = "offhealth:origin:consecutive_failures"
	RedisKeyLastSuccess         = "offhealth:origin:last_success"
	RedisKeyLastFailure         = "offhealth:origin:last_failure"
)

// Thresholds for origin classification.
const (
	// FailuresDegraded marks the origin degraded once this many network
	// fetches have failed in a row.
	FailuresDegraded = 3

	// FailuresOffline marks the origin offline once this many network
	// fetches have failed in a row.
	FailuresOffline = 10
)

// Status classifies origin reachability.
type Status string

const (
	// StatusOnline means the last network fetch succeeded.
	StatusOnline Status = "online"

	// StatusDegraded means several consecutive fetches have failed.
	StatusDegraded Status = "degraded"

	// StatusOffline means the origin has been unreachable for a sustained
	// run of fetches.
	StatusOffline Status = "offline"
)

// State represents the current origin reachability state.
// This state is shared across all gateway instances via Redis.
type State struct {
	// ConsecutiveFailures is the number of network fetches that have
	// failed since the last success.
	ConsecutiveFailures int `json:"consecutive_failures"`

	// LastSuccess is when a network fetch last succeeded.
	LastSuccess time.Time `json:"last_success"`

	// LastFailure is when a network fetch last failed.
	LastFailure time.Time `json:"last_failure"`
}

// Status returns the classification for the current failure run.
func (s *State) Status() Status {
	switch {
	case s.ConsecutiveFailures >= FailuresOffline:
		return StatusOffline
	case s.ConsecutiveFailures >= FailuresDegraded:
		return StatusDegraded
	default:
		return StatusOnline
	}
}

// IsOnline reports whether the origin is currently considered reachable.
func (s *State) IsOnline() bool {
	return s.Status() == StatusOnline
}

// SinceSuccess returns how long ago the last successful fetch was.
// Returns 0 if no success has been recorded yet.
func (s *State) SinceSuccess() time.Duration {
	if s.LastSuccess.IsZero() {
		return 0
	}
	return time.Since(s.LastSuccess)
}
