// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package models

import "github.com/tomtom215/gw2api/endpoint"

// World is a game world / server (v2/worlds).
type World struct {
	Id         int    `json:"id"`
	Name       string `json:"name"`
	Population string `json:"population"`
}

func (World) Descriptor() endpoint.Descriptor {
	return endpoint.Descriptor{
		URL:         "v2/worlds",
		Version:     schemaVersion,
		LocaleAware: true,
		BulkAll:     true,
		Paging:      true,
	}
}

func (w World) ID() int { return w.Id }
