// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

/*
Package client implements the caching, request-coalescing core of the API
client.

Every operation runs the same triage: consult the cache, then the inflight
registry (joining an in-progress fetch for the same key when one exists),
and only then dispatch upstream. Successful responses are cached before
being broadcast to subscribers, so concurrent callers for one resource
collapse to a single request.

Operations are generic top-level functions parameterized by the resource
type, which supplies its endpoint descriptor:

	c := client.New(client.Config{Host: client.DefaultHost})
	build, err := client.Get[models.Build](ctx, c)
	item, err := client.Single[models.Item](ctx, c, 19721)
	items, err := client.Many[models.Item](ctx, c, ids)

Cache policy is adjusted per call chain with the Cached and Forced views:

	item, err := client.Single[models.Item](ctx, c.Cached(5*time.Second), 19721)
	item, err = client.Single[models.Item](ctx, c.Forced(), 19721)
*/
package client

import (
	"strings"
	"time"

	"github.com/tomtom215/gw2api/cache"
	"github.com/tomtom215/gw2api/endpoint"
	"github.com/tomtom215/gw2api/inflight"
	"github.com/tomtom215/gw2api/ratelimit"
	"github.com/tomtom215/gw2api/transport"
)

// DefaultHost is the public API host.
const DefaultHost = "https://api.guildwars2.com"

// Default rate limit, matching the API's documented sustained allowance.
const (
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 10
)

// Config is the client configuration surface.
type Config struct {
	// Host is the base URL, without trailing slash. Empty selects
	// DefaultHost.
	Host string

	// Language is the locale sent to locale-aware endpoints. Empty selects
	// English.
	Language endpoint.Language

	// APIKey is the bearer token for authenticated endpoints. Optional;
	// authenticated endpoints fail with ErrNotAuthenticated without it.
	APIKey string

	// CacheDuration overrides server cache headers for every request when
	// positive. Zero derives expiry from the response.
	CacheDuration time.Duration

	// Timeout bounds a single upstream request. Zero selects
	// transport.DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the default token-bucket
	// limiter. Zero values select the defaults above.
	RequestsPerSecond float64
	Burst             int
}

// Client holds the shared state behind all requesters: configuration, the
// transport, the response cache and the inflight registry.
type Client struct {
	host          string
	language      endpoint.Language
	apiKey        string
	cacheDuration time.Duration

	transport transport.Doer
	limiter   ratelimit.Limiter
	store     cache.Store
	inflight  *inflight.Registry
}

// Option customizes a Client beyond the Config surface.
type Option func(*Client)

// WithTransport substitutes the HTTP transport, e.g. a circuit-breaker
// wrapped client or a test double.
func WithTransport(d transport.Doer) Option {
	return func(c *Client) { c.transport = d }
}

// WithStore substitutes the cache backend (default: in-memory).
func WithStore(s cache.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithLimiter substitutes the rate limiter (default: token bucket from
// Config).
func WithLimiter(l ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// New creates a Client. Unset config fields and options fall back to the
// in-memory cache, the default http.Client and the default token bucket.
func New(cfg Config, opts ...Option) *Client {
	host := strings.TrimSuffix(cfg.Host, "/")
	if host == "" {
		host = DefaultHost
	}
	lang := cfg.Language
	if lang == "" {
		lang = endpoint.LanguageEnglish
	}

	c := &Client{
		host:          host,
		language:      lang,
		apiKey:        cfg.APIKey,
		cacheDuration: cfg.CacheDuration,
		inflight:      inflight.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		c.transport = transport.NewHTTPClient(cfg.Timeout)
	}
	if c.store == nil {
		c.store = cache.NewMemory()
	}
	if c.limiter == nil {
		rps := cfg.RequestsPerSecond
		if rps <= 0 {
			rps = DefaultRequestsPerSecond
		}
		burst := cfg.Burst
		if burst <= 0 {
			burst = DefaultBurst
		}
		c.limiter = ratelimit.NewBucket(rps, burst)
	}

	return c
}

// Close releases the cache backend.
func (c *Client) Close() error {
	return c.store.Close()
}

// Requester is a view over a Client with per-call-chain cache policy: an
// expiry override and the force flag. The zero policy is the client's own.
type Requester struct {
	client        *Client
	cacheDuration time.Duration
	force         bool
}

// Caller is satisfied by *Client and *Requester; every operation accepts
// either.
type Caller interface {
	requester() *Requester
}

func (c *Client) requester() *Requester {
	return &Requester{client: c, cacheDuration: c.cacheDuration}
}

func (r *Requester) requester() *Requester { return r }

// Cached returns a requester whose responses are cached for d regardless of
// server cache headers.
func (c *Client) Cached(d time.Duration) *Requester {
	return &Requester{client: c, cacheDuration: d}
}

// Forced returns a requester that skips cache reads but still caches and
// broadcasts what it fetches.
func (c *Client) Forced() *Requester {
	return &Requester{client: c, cacheDuration: c.cacheDuration, force: true}
}

// Cached derives a requester with the given expiry override, keeping the
// force flag.
func (r *Requester) Cached(d time.Duration) *Requester {
	return &Requester{client: r.client, cacheDuration: d, force: r.force}
}

// Forced derives a force-mode requester, keeping the expiry override.
func (r *Requester) Forced() *Requester {
	return &Requester{client: r.client, cacheDuration: r.cacheDuration, force: true}
}

// keyLang returns the cache-key language component: the client language for
// locale-aware endpoints, empty otherwise.
func keyLang(desc endpoint.Descriptor, lang endpoint.Language) endpoint.Language {
	if desc.LocaleAware {
		return lang
	}
	return ""
}
