// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

package tator

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/uavreview/internal/logging"
	"github.com/tomtom215/uavreview/internal/metrics"
)

// newBreaker returns the circuit breaker for one endpoint family:
//   - Max 3 requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//
// Client errors (4xx other than 429) and caller cancellations do not count
// against the upstream.
func newBreaker(name string) *gobreaker.CircuitBreaker[*response] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordBreakerTransition(name, from.String(), to.String())
		},
		IsSuccessful: upstreamHealthy,
	})
}

func upstreamHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return !se.retryable()
	}
	return false
}

// execute runs fn under the family's breaker.
func (c *Client) execute(family string, fn func() (*response, error)) (*response, error) {
	cb, ok := c.breakers[family]
	if !ok {
		return fn()
	}
	resp, err := cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logging.Warn().Str("breaker", cb.Name()).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
	}
	return resp, err
}

// BreakerStates reports the state of each endpoint family's breaker.
func (c *Client) BreakerStates() map[string]string {
	out := make(map[string]string, len(c.breakers))
	for family, cb := range c.breakers {
		out[family] = cb.State().String()
	}
	return out
}
