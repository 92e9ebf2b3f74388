// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

// Package models defines the v2 API resource types together with their
// endpoint descriptors. Types are plain structs with value receivers so the
// client can read the descriptor off a zero value.
package models

// schemaVersion is the API schema snapshot all models in this package are
// written against, sent as the X-Schema-Version header.
const schemaVersion = "2022-07-22T00:00:00.000Z"
