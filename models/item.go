// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package models

import (
	"github.com/goccy/go-json"

	"github.com/tomtom215/gw2api/endpoint"
)

// Item is one game item (v2/items). The items endpoint supports bulk ids=
// and paging but not ids=all; the id space is too large for one response.
type Item struct {
	Id           int             `json:"id"`
	ChatLink     string          `json:"chat_link"`
	Name         string          `json:"name"`
	Icon         string          `json:"icon,omitempty"`
	Description  string          `json:"description,omitempty"`
	Type         string          `json:"type"`
	Rarity       string          `json:"rarity"`
	Level        int             `json:"level"`
	VendorValue  int             `json:"vendor_value"`
	DefaultSkin  int             `json:"default_skin,omitempty"`
	Flags        []string        `json:"flags"`
	GameTypes    []string        `json:"game_types"`
	Restrictions []string        `json:"restrictions"`
	Details      json.RawMessage `json:"details,omitempty"`
}

func (Item) Descriptor() endpoint.Descriptor {
	return endpoint.Descriptor{
		URL:         "v2/items",
		Version:     schemaVersion,
		LocaleAware: true,
		Paging:      true,
	}
}

func (i Item) ID() int { return i.Id }
