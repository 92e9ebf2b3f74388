// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

// Package endpoint describes the static metadata every API resource type
// advertises: its URL path, schema version, and capability flags. The client
// consumes these descriptors to build requests and to shape cache keys.
package endpoint

// Descriptor is the per-resource metadata for a v2 API endpoint.
//
// URL is the path suffix under the host (e.g. "v2/items"). Version is sent
// verbatim as the X-Schema-Version header. LocaleAware endpoints include the
// configured language both in the request URL and in the cache key. BulkAll
// and Paging describe which bulk query styles (?ids=all, ?page=&page_size=)
// the endpoint supports.
type Descriptor struct {
	URL           string
	Version       string
	Authenticated bool
	LocaleAware   bool
	BulkAll       bool
	Paging        bool
}

// Endpoint is implemented by every resource type. Descriptor must be callable
// on the zero value; resource types are plain structs with value receivers.
type Endpoint interface {
	Descriptor() Descriptor
}

// ID constrains the id types used by the v2 API: integers (items, worlds)
// and strings (legends).
type ID interface {
	~int | ~string
}

// Identifiable is implemented by resource types addressable by id. The ID
// accessor is what lets bulk responses be cached item-by-item.
type Identifiable[I ID] interface {
	Endpoint
	ID() I
}
