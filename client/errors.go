// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package client

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	// ErrNotAuthenticated is returned when an endpoint requires an api key
	// but none is configured. No request is sent.
	ErrNotAuthenticated = errors.New("endpoint requires authentication but no api key is configured")

	// ErrUnsupportedEndpointQuery is returned when a bulk query style is
	// requested that the endpoint descriptor does not advertise.
	ErrUnsupportedEndpointQuery = errors.New("endpoint does not support the requested query")

	// ErrNetwork wraps transport-level failures (connect, DNS, I/O).
	ErrNetwork = errors.New("network failure")

	// ErrDecode wraps failures to parse a response body.
	ErrDecode = errors.New("failed to decode response body")

	// ErrReceive is returned to a subscriber whose producer finished
	// without publishing a value or caching one. Transient; retry.
	ErrReceive = errors.New("in-flight request finished without a result")
)

// APIError is a non-2xx response from the API. Text carries the error
// message decoded best-effort from the standard {"text": "..."} payload;
// Body holds the raw response.
type APIError struct {
	StatusCode int
	Text       string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Text)
	}
	return fmt.Sprintf("api returned status %d", e.StatusCode)
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Text string `json:"text"`
	}
	_ = json.Unmarshal(body, &payload)
	return &APIError{StatusCode: status, Text: payload.Text, Body: body}
}
