// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package transport

import (
	"errors"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/gw2api/internal/logging"
	"github.com/tomtom215/gw2api/internal/metrics"
)

// CircuitBreaker wraps a Doer with the circuit breaker pattern, shedding
// load when the upstream API is unavailable or slow instead of piling
// requests onto it.
//
// Configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
type CircuitBreaker struct {
	next Doer
	cb   *gobreaker.CircuitBreaker[*http.Response]
	name string
}

// NewCircuitBreaker wraps next with a named breaker. Server 5xx responses
// count as failures alongside transport errors.
func NewCircuitBreaker(name string, next Doer) *CircuitBreaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &CircuitBreaker{next: next, cb: cb, name: name}
}

// Do executes the request through the breaker. When the circuit is open the
// request fails fast without reaching the network.
func (c *CircuitBreaker) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.cb.Execute(func() (*http.Response, error) {
		resp, err := c.next.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, &serverError{status: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		var se *serverError
		if errors.As(err, &se) && resp != nil {
			// 5xx counted against the breaker; the caller still decodes
			// the response into an API error.
			return resp, nil
		}
		return nil, err
	}
	return resp, nil
}

// serverError marks a 5xx response as a breaker failure while still handing
// the response back to the caller for error decoding.
type serverError struct {
	status int
}

func (e *serverError) Error() string {
	return http.StatusText(e.status)
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return -1
	}
}
