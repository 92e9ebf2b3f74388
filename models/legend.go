// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package models

import "github.com/tomtom215/gw2api/endpoint"

// Legend is a revenant legend (v2/legends). String-keyed bulk endpoint with
// ids=all support.
type Legend struct {
	Id        string `json:"id"`
	Code      int    `json:"code"`
	Swap      int    `json:"swap"`
	Heal      int    `json:"heal"`
	Elite     int    `json:"elite"`
	Utilities [3]int `json:"utilities"`
}

func (Legend) Descriptor() endpoint.Descriptor {
	return endpoint.Descriptor{
		URL:         "v2/legends",
		Version:     schemaVersion,
		LocaleAware: true,
		BulkAll:     true,
	}
}

func (l Legend) ID() string { return l.Id }
