// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/gw2api/cache"
	"github.com/tomtom215/gw2api/endpoint"
	"github.com/tomtom215/gw2api/inflight"
	"github.com/tomtom215/gw2api/internal/logging"
)

// Get calls a fixed endpoint and returns its single document.
func Get[T endpoint.Endpoint](ctx context.Context, c Caller) (T, error) {
	r := c.requester()
	var zero T
	desc := zero.Descriptor()
	lang := keyLang(desc, r.client.language)
	key := cache.UnitKeyOf[T, T](lang)
	url := r.client.host + "/" + desc.URL
	return fetchOne[T](ctx, r, desc, key, url, "")
}

// Single requests one item by id.
func Single[T endpoint.Identifiable[I], I endpoint.ID](ctx context.Context, c Caller, id I) (T, error) {
	r := c.requester()
	var zero T
	desc := zero.Descriptor()
	lang := keyLang(desc, r.client.language)
	key := cache.KeyOf[T, T](id, lang)
	url := fmt.Sprintf("%s/%s/%v", r.client.host, desc.URL, id)
	return fetchOne[T](ctx, r, desc, key, url, "")
}

// TryGet retrieves an item from the cache without any network activity.
// Always misses on a forced requester.
func TryGet[T endpoint.Identifiable[I], I endpoint.ID](c Caller, id I) (T, bool) {
	r := c.requester()
	var zero T
	if r.force {
		return zero, false
	}
	desc := zero.Descriptor()
	lang := keyLang(desc, r.client.language)
	return cacheLookup[T](r.client.store, cache.KeyOf[T, T](id, lang))
}

// Ids requests all available ids for the endpoint. The list is cached as a
// whole under the endpoint's unit key.
func Ids[T endpoint.Identifiable[I], I endpoint.ID](ctx context.Context, c Caller) ([]I, error) {
	r := c.requester()
	var zero T
	desc := zero.Descriptor()
	lang := keyLang(desc, r.client.language)
	key := cache.UnitKeyOf[[]I, T](lang)
	url := r.client.host + "/" + desc.URL
	return fetchOne[[]I](ctx, r, desc, key, url, "")
}

// Many requests multiple ids at once, interleaving cache hits, subscriptions
// to in-progress fetches, and batched upstream requests of at most 200 ids
// each. Duplicates in ids are tolerated; the result order is unspecified.
//
// A failing chunk fails the whole call. Items decoded by other chunks stay
// cached, so the work is not lost to a retry.
func Many[T endpoint.Identifiable[I], I endpoint.ID](ctx context.Context, c Caller, ids []I) ([]T, error) {
	r := c.requester()
	var zero T
	desc := zero.Descriptor()
	lang := keyLang(desc, r.client.language)

	result := make([]T, 0, len(ids))
	if !r.force {
		ids = extractManyFromCache[T](r, ids, lang, &result)
		if len(ids) == 0 {
			return result, nil
		}
	}

	type joiner struct {
		key    cache.Key
		handle *inflight.Handle
	}
	joiners := make([]joiner, 0, len(ids))
	producers := make(map[I]*inflight.Producer, len(ids))
	remaining := make([]I, 0, len(ids))
	for _, id := range ids {
		key := cache.KeyOf[T, T](id, lang)
		h, p := r.client.inflight.Check(key)
		if h != nil {
			joiners = append(joiners, joiner{key: key, handle: h})
			continue
		}
		producers[id] = p
		remaining = append(remaining, id)
	}

	// Guards whose id never arrived (omitted from the response, or the
	// chunk failed) are released at the end; their subscribers wake and
	// fall back to the cache.
	defer func() {
		for _, p := range producers {
			p.Close()
		}
	}()

	var mu sync.Mutex // guards result and producers across chunks
	url := r.client.host + "/" + desc.URL
	g, gctx := errgroup.WithContext(ctx)
	for _, chunk := range chunkIDs(remaining) {
		query := "ids=" + chunk
		g.Go(func() error {
			items, expires, err := fetchDecode[[]T](gctx, r, desc, url, query)
			if err != nil {
				return err
			}

			// All items of the chunk are cached in one batch before any
			// subscriber is woken.
			entries := make([]cache.Entry, len(items))
			for i, it := range items {
				entries[i] = cache.Entry{
					Key:       cache.KeyOf[T, T](it.ID(), lang),
					Value:     it,
					ExpiresAt: expires,
				}
			}
			r.client.store.SetBatch(entries)

			mu.Lock()
			defer mu.Unlock()
			for _, it := range items {
				result = append(result, it)
				if p, ok := producers[it.ID()]; ok {
					delete(producers, it.ID())
					p.Publish(it)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, j := range joiners {
		v, err := awaitHandle[T](ctx, r, j.key, j.handle)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}

	return result, nil
}

// Page requests one page of items, appends them to result and returns the
// total item count across all pages (the x-result-total header, 0 when
// absent). Page indices start at 0.
func Page[T endpoint.Identifiable[I], I endpoint.ID](ctx context.Context, c Caller, page, pageSize int, result *[]T) (int, error) {
	r := c.requester()
	var zero T
	desc := zero.Descriptor()
	if !desc.Paging {
		return 0, ErrUnsupportedEndpointQuery
	}
	lang := keyLang(desc, r.client.language)

	url := r.client.host + "/" + desc.URL
	query := fmt.Sprintf("page=%d&page_size=%d", page, pageSize)
	body, header, expires, err := r.dispatch(ctx, desc, url, query)
	if err != nil {
		return 0, err
	}
	total := headerInt(header, "x-result-total", 0)

	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	entries := make([]cache.Entry, len(items))
	for i, it := range items {
		entries[i] = cache.Entry{
			Key:       cache.KeyOf[T, T](it.ID(), lang),
			Value:     it,
			ExpiresAt: expires,
		}
	}
	r.client.store.SetBatch(entries)

	*result = append(*result, items...)
	return total, nil
}

// All requests every item using the most efficient method the endpoint
// supports: a single ids=all request when available, otherwise the id list
// followed by chunked bulk fetches. Paging is never selected automatically
// because it bypasses the per-item cache and inflight coalescing; call
// AllByPaging explicitly when that trade-off is acceptable.
func All[T endpoint.Identifiable[I], I endpoint.ID](ctx context.Context, c Caller) ([]T, error) {
	var zero T
	if zero.Descriptor().BulkAll {
		return AllByIdsAll[T, I](ctx, c)
	}
	return AllByRequestingIds[T, I](ctx, c)
}

// AllByIdsAll requests every item in one ids=all call and caches each item
// by id. Fails with ErrUnsupportedEndpointQuery when the endpoint does not
// support ids=all.
func AllByIdsAll[T endpoint.Identifiable[I], I endpoint.ID](ctx context.Context, c Caller) ([]T, error) {
	r := c.requester()
	var zero T
	desc := zero.Descriptor()
	if !desc.BulkAll {
		return nil, ErrUnsupportedEndpointQuery
	}
	lang := keyLang(desc, r.client.language)

	url := r.client.host + "/" + desc.URL
	body, header, expires, err := r.dispatch(ctx, desc, url, "ids=all")
	if err != nil {
		return nil, err
	}
	count := headerInt(header, "x-result-total", 0)

	items := make([]T, 0, count)
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	entries := make([]cache.Entry, len(items))
	for i, it := range items {
		entries[i] = cache.Entry{
			Key:       cache.KeyOf[T, T](it.ID(), lang),
			Value:     it,
			ExpiresAt: expires,
		}
	}
	r.client.store.SetBatch(entries)

	return items, nil
}

// AllByPaging requests every item by walking all pages with page size 200.
// The first page determines the total count; page indices start at 0.
func AllByPaging[T endpoint.Identifiable[I], I endpoint.ID](ctx context.Context, c Caller) ([]T, error) {
	var zero T
	if !zero.Descriptor().Paging {
		return nil, ErrUnsupportedEndpointQuery
	}

	result := make([]T, 0, chunkSize)
	total, err := Page[T, I](ctx, c, 0, chunkSize, &result)
	if err != nil {
		return nil, err
	}

	remaining := total - chunkSize
	if remaining < 0 {
		remaining = 0
	}
	pages := (remaining + chunkSize - 1) / chunkSize
	for page := 0; page < pages; page++ {
		if _, err := Page[T, I](ctx, c, page+1, chunkSize, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// AllByRequestingIds fetches the id list (cached under the endpoint's unit
// key) and bulk-requests every id through Many.
func AllByRequestingIds[T endpoint.Identifiable[I], I endpoint.ID](ctx context.Context, c Caller) ([]T, error) {
	ids, err := Ids[T, I](ctx, c)
	if err != nil {
		return nil, err
	}
	return Many[T, I](ctx, c, ids)
}

// fetchOne runs the cache → inflight → network triage for one key. The
// caller that claims the inflight slot dispatches upstream, caches the
// decoded value, then broadcasts it; everyone else waits on that broadcast.
func fetchOne[K any](ctx context.Context, r *Requester, desc endpoint.Descriptor, key cache.Key, url, query string) (K, error) {
	var zero K
	if !r.force {
		if v, ok := cacheLookup[K](r.client.store, key); ok {
			return v, nil
		}
	}

	h, p := r.client.inflight.Check(key)
	if h != nil {
		return awaitHandle[K](ctx, r, key, h)
	}
	defer p.Close()

	v, expires, err := fetchDecode[K](ctx, r, desc, url, query)
	if err != nil {
		return zero, err
	}

	// The insert happens before the broadcast, so a subscriber that misses
	// the publish still finds the value on its cache re-check.
	r.client.store.Set(key, v, expires)
	p.Publish(v)
	return v, nil
}

// awaitHandle waits on a subscription. When the producer vanished without
// publishing, the cache is consulted once more (a finished producer caches
// before it publishes); a miss there surfaces ErrReceive.
func awaitHandle[K any](ctx context.Context, r *Requester, key cache.Key, h *inflight.Handle) (K, error) {
	var zero K
	v, published, err := h.Wait(ctx)
	if err != nil {
		return zero, err
	}
	if published {
		if k, ok := v.(K); ok {
			return k, nil
		}
	}
	if !r.force {
		if k, ok := cacheLookup[K](r.client.store, key); ok {
			return k, nil
		}
	}
	return zero, ErrReceive
}

// fetchDecode dispatches one request and decodes the body into K.
func fetchDecode[K any](ctx context.Context, r *Requester, desc endpoint.Descriptor, url, query string) (K, time.Time, error) {
	var zero K
	body, _, expires, err := r.dispatch(ctx, desc, url, query)
	if err != nil {
		return zero, time.Time{}, err
	}

	var v K
	if err := json.Unmarshal(body, &v); err != nil {
		return zero, time.Time{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return v, expires, nil
}

// cacheLookup fetches and types a cache entry. Serializing backends return
// raw bytes, which are decoded here into the stored type.
func cacheLookup[K any](store cache.Store, key cache.Key) (K, bool) {
	var zero K
	v, ok := store.Get(key)
	if !ok {
		return zero, false
	}
	if k, ok := v.(K); ok {
		return k, true
	}
	if raw, ok := v.(cache.Raw); ok {
		var k K
		if err := json.Unmarshal(raw, &k); err == nil {
			return k, true
		}
		logging.Warn().Str("key", key.String()).Msg("discarding undecodable cache entry")
	}
	return zero, false
}

// extractManyFromCache moves cache hits into result and returns the ids
// that still need fetching.
func extractManyFromCache[T endpoint.Identifiable[I], I endpoint.ID](r *Requester, ids []I, lang endpoint.Language, result *[]T) []I {
	rest := make([]I, 0, len(ids))
	for _, id := range ids {
		if v, ok := cacheLookup[T](r.client.store, cache.KeyOf[T, T](id, lang)); ok {
			*result = append(*result, v)
		} else {
			rest = append(rest, id)
		}
	}
	return rest
}
