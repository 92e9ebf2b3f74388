// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

// Package transport abstracts the HTTP request/response sink the client
// dispatches through, and provides the default http.Client construction plus
// an optional circuit-breaker wrapper.
package transport

import (
	"net/http"
	"time"
)

// Doer issues HTTP requests. *http.Client satisfies it; tests substitute
// counting fakes and the circuit breaker wraps another Doer.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultTimeout bounds a single request including body read on the API
// side. Timeouts surface as network errors to the caller.
const DefaultTimeout = 30 * time.Second

// NewHTTPClient returns the default transport. A zero timeout selects
// DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
