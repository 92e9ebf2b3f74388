// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

/*
Package inflight coalesces concurrent requests for the same resource.

The registry maps cache keys to in-progress fetches. The first caller for a
key becomes the producer and owns a Producer guard; everyone else joins as a
subscriber and waits for the producer's single published value. Producers
publish at most once, and a guard that is closed without publishing wakes all
subscribers empty-handed so they can fall back to the cache.

Slots are removed synchronously under the registry mutex when the guard
publishes or closes, so a caller arriving after the producer finished never
observes a dead slot; it either finds the cache populated or claims a fresh
slot itself.
*/
package inflight

import (
	"context"
	"sync"

	"github.com/tomtom215/gw2api/cache"
	"github.com/tomtom215/gw2api/internal/metrics"
)

// Registry tracks in-progress requests by cache key.
type Registry struct {
	mu      sync.Mutex
	flights map[cache.Key]*flight
}

type flight struct {
	done      chan struct{}
	value     any
	published bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{flights: make(map[cache.Key]*flight)}
}

// Check subscribes to or claims the slot for key. Exactly one of the return
// values is non-nil: a Handle when an earlier caller is already fetching the
// key, or a Producer when the caller must perform the fetch itself.
//
// A returned Producer must be finished with Publish or Close; deferring
// Close is safe since it is a no-op after Publish.
func (r *Registry) Check(key cache.Key) (*Handle, *Producer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.flights[key]; ok {
		metrics.InflightJoins.Inc()
		return &Handle{f: f}, nil
	}

	f := &flight{done: make(chan struct{})}
	r.flights[key] = f
	return nil, &Producer{reg: r, key: key, f: f}
}

// Len returns the number of in-progress slots.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flights)
}

func (r *Registry) remove(key cache.Key, f *flight) {
	r.mu.Lock()
	if cur, ok := r.flights[key]; ok && cur == f {
		delete(r.flights, key)
	}
	r.mu.Unlock()
}

// Handle is the subscriber side of a flight.
type Handle struct {
	f *flight
}

// Wait blocks until the producer publishes or gives up, or ctx is done.
// The second return reports whether a value was published; when false the
// caller must fall back to the cache (the producer caches before it
// publishes, so a missed broadcast still surfaces the value there).
func (h *Handle) Wait(ctx context.Context) (any, bool, error) {
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-h.f.done:
		return h.f.value, h.f.published, nil
	}
}

// Producer owns the publishing side of a flight. The holder performs the
// upstream fetch, inserts the result into the cache, then publishes it here.
type Producer struct {
	reg  *Registry
	key  cache.Key
	f    *flight
	once sync.Once
}

// Publish broadcasts value to all subscribers and frees the slot.
func (p *Producer) Publish(value any) {
	p.once.Do(func() {
		p.f.value = value
		p.f.published = true
		p.reg.remove(p.key, p.f)
		close(p.f.done)
	})
}

// Close frees the slot without publishing. Subscribers wake with no value
// and re-consult the cache. No-op if Publish already ran.
func (p *Producer) Close() {
	p.once.Do(func() {
		p.reg.remove(p.key, p.f)
		close(p.f.done)
	})
}
