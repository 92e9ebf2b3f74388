// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/gw2api/endpoint"
	"github.com/tomtom215/gw2api/internal/logging"
	"github.com/tomtom215/gw2api/internal/metrics"
)

// chunkSize is the maximum number of ids one ids= request may carry.
const chunkSize = 200

// defaultCacheSeconds applies when neither the caller nor the response
// specifies an expiry.
const defaultCacheSeconds = 300

// buildRequest constructs the GET request for an endpoint: schema version
// header, bearer token for authenticated endpoints, lang and extra query
// parameters. Purely syntactic; no cache or limiter involvement.
func (r *Requester) buildRequest(ctx context.Context, desc endpoint.Descriptor, url, extra string) (*http.Request, error) {
	if desc.Authenticated && r.client.apiKey == "" {
		return nil, ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Schema-Version", desc.Version)
	req.Header.Set("Accept", "application/json")
	if desc.Authenticated {
		req.Header.Set("Authorization", "Bearer "+r.client.apiKey)
	}

	var args []string
	if desc.LocaleAware {
		args = append(args, "lang="+string(r.client.language))
	}
	if extra != "" {
		args = append(args, extra)
	}
	if len(args) > 0 {
		q := strings.Join(args, "&")
		if req.URL.RawQuery != "" {
			req.URL.RawQuery += "&" + q
		} else {
			req.URL.RawQuery = q
		}
	}

	return req, nil
}

// dispatch sends one request through the limiter and transport. It returns
// the response body, headers and the derived cache expiry. Non-2xx
// responses surface as *APIError.
func (r *Requester) dispatch(ctx context.Context, desc endpoint.Descriptor, url, query string) ([]byte, http.Header, time.Time, error) {
	req, err := r.buildRequest(ctx, desc, url, query)
	if err != nil {
		return nil, nil, time.Time{}, err
	}

	if err := r.client.limiter.Wait(ctx); err != nil {
		return nil, nil, time.Time{}, err
	}

	start := time.Now()
	resp, err := r.client.transport.Do(req)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(desc.URL, "error").Inc()
		return nil, nil, time.Time{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	elapsed := time.Since(start)
	metrics.RequestDuration.WithLabelValues(desc.URL).Observe(elapsed.Seconds())
	metrics.RequestsTotal.WithLabelValues(desc.URL, strconv.Itoa(resp.StatusCode)).Inc()

	expires := r.deriveExpiry(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return nil, nil, time.Time{}, newAPIError(resp.StatusCode, body)
	}

	logging.Debug().Str("url", req.URL.String()).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("api request")
	return body, resp.Header, expires, nil
}

// deriveExpiry picks the cache expiry for a response: the requester's
// override when set, otherwise the cache-control header, otherwise the
// default. The whole header value is read as an integer number of seconds;
// directive syntax like "public, max-age=300" falls back to the default.
func (r *Requester) deriveExpiry(resp *http.Response) time.Time {
	d := r.cacheDuration
	if d <= 0 {
		d = time.Duration(headerInt(resp.Header, "cache-control", defaultCacheSeconds)) * time.Second
	}
	return time.Now().Add(d)
}

// headerInt parses a header value as an integer, returning def when the
// header is absent or unparseable.
func headerInt(h http.Header, name string, def int) int {
	n, err := strconv.Atoi(h.Get(name))
	if err != nil {
		return def
	}
	return n
}

// chunkIDs concatenates ids separated by comma, chunked in at most
// chunkSize per batch.
func chunkIDs[I endpoint.ID](ids []I) []string {
	chunks := make([]string, 0, (len(ids)+chunkSize-1)/chunkSize)
	for start := 0; start < len(ids); start += chunkSize {
		end := min(start+chunkSize, len(ids))
		var sb strings.Builder
		for i, id := range ids[start:end] {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprint(&sb, id)
		}
		chunks = append(chunks, sb.String())
	}
	return chunks
}
