// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package cache

import (
	"fmt"
	"hash/fnv"
	"reflect"

	"github.com/tomtom215/gw2api/endpoint"
)

// Key is the composite cache key. Value is the type of the stored value and
// Scope the endpoint type it was fetched for; keeping both prevents aliasing
// when two endpoints share a stored shape (e.g. the []int id lists of two
// different bulk endpoints). ID is a 64-bit hash of the resource id, with
// UnitID standing in for fixed endpoints and id-list entries. Lang is empty
// unless the endpoint is locale-aware.
type Key struct {
	Value reflect.Type
	Scope reflect.Type
	ID    uint64
	Lang  endpoint.Language
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%x|%s", k.Value, k.Scope, k.ID, k.Lang)
}

// UnitID is the id hash used for fixed endpoints and whole-endpoint id lists
// (the FNV-1a offset basis, i.e. the hash of no input).
const UnitID uint64 = 14695981039346656037

// HashID returns the 64-bit FNV-1a hash of the id's string form. Equal ids
// hash equally; distinct ids collide only with negligible probability.
func HashID[I endpoint.ID](id I) uint64 {
	h := fnv.New64a()
	fmt.Fprint(h, id)
	return h.Sum64()
}

// KeyOf builds the cache key for one item of type V fetched via endpoint
// type S. Pass an empty lang for locale-insensitive endpoints.
func KeyOf[V any, S any, I endpoint.ID](id I, lang endpoint.Language) Key {
	return Key{
		Value: typeOf[V](),
		Scope: typeOf[S](),
		ID:    HashID(id),
		Lang:  lang,
	}
}

// UnitKeyOf builds the cache key for a fixed document or an id list, which
// are stored under the unit id.
func UnitKeyOf[V any, S any](lang endpoint.Language) Key {
	return Key{
		Value: typeOf[V](),
		Scope: typeOf[S](),
		ID:    UnitID,
		Lang:  lang,
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
