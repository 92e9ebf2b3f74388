// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package models

import "github.com/tomtom215/gw2api/endpoint"

// Currency is a wallet currency (v2/currencies).
type Currency struct {
	Id          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
}

func (Currency) Descriptor() endpoint.Descriptor {
	return endpoint.Descriptor{
		URL:         "v2/currencies",
		Version:     schemaVersion,
		LocaleAware: true,
		BulkAll:     true,
		Paging:      true,
	}
}

func (c Currency) ID() int { return c.Id }
