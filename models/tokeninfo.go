// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package models

import "github.com/tomtom215/gw2api/endpoint"

// TokenInfo describes the configured api key (v2/tokeninfo). Fixed,
// authenticated endpoint.
type TokenInfo struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func (TokenInfo) Descriptor() endpoint.Descriptor {
	return endpoint.Descriptor{
		URL:           "v2/tokeninfo",
		Version:       schemaVersion,
		Authenticated: true,
	}
}
