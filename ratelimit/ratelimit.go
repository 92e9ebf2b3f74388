// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

// Package ratelimit throttles outgoing API requests. The client calls Wait
// before every dispatch; coalesced and cached requests never reach the
// limiter.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter gates request dispatch. Wait blocks until a request may proceed
// or the context is done.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Bucket is a token-bucket limiter. The live API allows bursts above its
// sustained rate, which maps directly onto rate.Limiter semantics.
type Bucket struct {
	lim *rate.Limiter
}

// NewBucket creates a limiter allowing rps sustained requests per second
// with the given burst size.
func NewBucket(rps float64, burst int) *Bucket {
	if burst < 1 {
		burst = 1
	}
	return &Bucket{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (b *Bucket) Wait(ctx context.Context) error {
	return b.lim.Wait(ctx)
}

// Unlimited performs no throttling. Used in tests and when the caller
// manages request pacing elsewhere.
type Unlimited struct{}

func (Unlimited) Wait(context.Context) error { return nil }
