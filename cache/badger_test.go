// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package cache

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newTestBadger(t *testing.T) *Badger {
	t.Helper()
	b, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open badger store: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBadgerRoundtrip(t *testing.T) {
	b := newTestBadger(t)

	b.Set(testKey(1), fakeItem{ID: 1}, time.Now().Add(time.Minute))

	value, exists := b.Get(testKey(1))
	if !exists {
		t.Fatal("Expected key to exist")
	}

	raw, ok := value.(Raw)
	if !ok {
		t.Fatalf("Expected Raw value, got %T", value)
	}
	var item fakeItem
	if err := json.Unmarshal(raw, &item); err != nil {
		t.Fatalf("Failed to decode stored value: %v", err)
	}
	if item.ID != 1 {
		t.Errorf("Expected item 1, got %v", item)
	}
}

func TestBadgerMissingKey(t *testing.T) {
	b := newTestBadger(t)

	if _, exists := b.Get(testKey(404)); exists {
		t.Error("Expected missing key to not exist")
	}
}

func TestBadgerExpiredEntryNotWritten(t *testing.T) {
	b := newTestBadger(t)

	b.Set(testKey(1), fakeItem{ID: 1}, time.Now().Add(-time.Second))

	if _, exists := b.Get(testKey(1)); exists {
		t.Error("Expected already-expired entry to not be stored")
	}
}

func TestBadgerSetBatch(t *testing.T) {
	b := newTestBadger(t)

	expires := time.Now().Add(time.Minute)
	entries := make([]Entry, 10)
	for i := range entries {
		entries[i] = Entry{Key: testKey(i), Value: fakeItem{ID: i}, ExpiresAt: expires}
	}
	b.SetBatch(entries)

	for i := range entries {
		if _, exists := b.Get(testKey(i)); !exists {
			t.Errorf("Expected batch entry %d to exist", i)
		}
	}
}

func TestBadgerRawPassthrough(t *testing.T) {
	b := newTestBadger(t)

	b.Set(testKey(1), Raw(`{"ID":7}`), time.Now().Add(time.Minute))

	value, exists := b.Get(testKey(1))
	if !exists {
		t.Fatal("Expected key to exist")
	}
	if string(value.(Raw)) != `{"ID":7}` {
		t.Errorf("Expected raw bytes to be stored verbatim, got %s", value)
	}
}
