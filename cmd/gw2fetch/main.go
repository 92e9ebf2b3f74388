// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

// Package main is the gw2fetch command, a thin CLI over the client library.
//
// Usage:
//
//	gw2fetch [flags] build
//	gw2fetch [flags] item <id>
//	gw2fetch [flags] items <id,id,...>
//	gw2fetch [flags] legends
//	gw2fetch [flags] currencies
//	gw2fetch [flags] worlds
//	gw2fetch [flags] tokeninfo
//
// Flags:
//
//	-config <path>  config file (default: search gw2fetch.yaml, /etc/gw2fetch/config.yaml)
//	-force          bypass cache reads for this invocation
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): GW2_-prefixed environment variables, the config file,
// built-in defaults. When metrics are enabled a Prometheus /metrics
// endpoint is served for the lifetime of the fetch.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/gw2api/cache"
	"github.com/tomtom215/gw2api/client"
	"github.com/tomtom215/gw2api/internal/config"
	"github.com/tomtom215/gw2api/internal/logging"
	"github.com/tomtom215/gw2api/models"
	"github.com/tomtom215/gw2api/transport"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	force := flag.Bool("force", false, "bypass cache reads")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: gw2fetch [flags] <build|item|items|legends|currencies|worlds|tokeninfo> [args]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	opts := make([]client.Option, 0, 2)
	if cfg.Cache.Backend == "badger" {
		store, err := cache.NewBadger(cfg.Cache.Path)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open badger cache")
		}
		opts = append(opts, client.WithStore(store))
	}
	if cfg.CircuitBreaker {
		opts = append(opts, client.WithTransport(
			transport.NewCircuitBreaker("gw2-api", transport.NewHTTPClient(cfg.Timeout)),
		))
	}

	c := client.New(cfg.ClientConfig(), opts...)
	defer func() { _ = c.Close() }()

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Listen)
	}

	ctx := context.Background()
	var caller client.Caller = c
	if *force {
		caller = c.Forced()
	}

	result, err := run(ctx, caller, flag.Arg(0), flag.Args()[1:])
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			logging.Fatal().Int("status", apiErr.StatusCode).Str("text", apiErr.Text).Msg("API error")
		}
		logging.Fatal().Err(err).Msg("Fetch failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logging.Fatal().Err(err).Msg("Failed to encode result")
	}
}

func run(ctx context.Context, c client.Caller, resource string, args []string) (any, error) {
	switch resource {
	case "build":
		return client.Get[models.Build](ctx, c)

	case "item":
		if len(args) != 1 {
			return nil, fmt.Errorf("item requires exactly one id")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q: %w", args[0], err)
		}
		return client.Single[models.Item](ctx, c, id)

	case "items":
		if len(args) != 1 {
			return nil, fmt.Errorf("items requires a comma-separated id list")
		}
		parts := strings.Split(args[0], ",")
		ids := make([]int, 0, len(parts))
		for _, p := range parts {
			id, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("invalid item id %q: %w", p, err)
			}
			ids = append(ids, id)
		}
		return client.Many[models.Item](ctx, c, ids)

	case "legends":
		return client.All[models.Legend, string](ctx, c)

	case "currencies":
		return client.All[models.Currency, int](ctx, c)

	case "worlds":
		return client.All[models.World, int](ctx, c)

	case "tokeninfo":
		return client.Get[models.TokenInfo](ctx, c)

	default:
		return nil, fmt.Errorf("unknown resource %q", resource)
	}
}

func serveMetrics(listen string) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	logging.Info().Str("listen", listen).Msg("Serving metrics")
	if err := http.ListenAndServe(listen, r); err != nil {
		logging.Error().Err(err).Msg("Metrics listener failed")
	}
}
