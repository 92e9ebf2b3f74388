// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package models

import "github.com/tomtom215/gw2api/endpoint"

// Build is the current game build id (v2/build). Fixed endpoint: one
// document for the whole endpoint.
type Build struct {
	ID int `json:"id"`
}

func (Build) Descriptor() endpoint.Descriptor {
	return endpoint.Descriptor{
		URL:     "v2/build",
		Version: schemaVersion,
	}
}
