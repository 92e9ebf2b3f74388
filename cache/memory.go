// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package cache

import (
	"sync"
	"time"

	"github.com/tomtom215/gw2api/internal/metrics"
)

// Memory is a thread-safe in-memory cache keyed by composite Key. Expiry is
// an absolute instant chosen by the caller; expired entries are treated as
// absent on lookup and reaped by a background cleanup goroutine.
type Memory struct {
	mu      sync.RWMutex
	entries map[Key]memoryEntry
	stats   Stats
	done    chan struct{}
}

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

// Stats tracks cache performance counters.
type Stats struct {
	mu        sync.RWMutex
	Hits      int64
	Misses    int64
	Evictions int64
	TotalKeys int64
}

const cleanupInterval = 5 * time.Minute

// NewMemory creates an in-memory store and starts its cleanup goroutine.
// Call Close to stop it.
func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[Key]memoryEntry),
		done:    make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// Get retrieves a value by key. Entries at or past their expiry are removed
// and reported as a miss.
//
// Thread Safety: uses RLock for the lookup, upgrades to Lock for deletion.
func (m *Memory) Get(key Key) (any, bool) {
	m.mu.RLock()
	entry, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		m.recordMiss()
		return nil, false
	}

	if !time.Now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		m.recordMiss()
		m.recordEviction()
		return nil, false
	}

	m.recordHit()
	return entry.value, true
}

// Set upserts a single entry, replacing any prior value under the same key.
func (m *Memory) Set(key Key, value any, expiresAt time.Time) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	total := int64(len(m.entries))
	m.mu.Unlock()

	m.stats.mu.Lock()
	m.stats.TotalKeys = total
	m.stats.mu.Unlock()
}

// SetBatch upserts all entries under one write lock, so a concurrent reader
// observes either none or all of a bulk response.
func (m *Memory) SetBatch(entries []Entry) {
	m.mu.Lock()
	for _, e := range entries {
		m.entries[e.Key] = memoryEntry{value: e.Value, expiresAt: e.ExpiresAt}
	}
	total := int64(len(m.entries))
	m.mu.Unlock()

	m.stats.mu.Lock()
	m.stats.TotalKeys = total
	m.stats.mu.Unlock()
}

// Close stops the cleanup goroutine.
func (m *Memory) Close() error {
	close(m.done)
	return nil
}

// GetStats returns a snapshot of the cache counters.
func (m *Memory) GetStats() Stats {
	m.stats.mu.RLock()
	defer m.stats.mu.RUnlock()

	return Stats{
		Hits:      m.stats.Hits,
		Misses:    m.stats.Misses,
		Evictions: m.stats.Evictions,
		TotalKeys: m.stats.TotalKeys,
	}
}

// HitRate returns the cache hit rate as a percentage.
func (m *Memory) HitRate() float64 {
	stats := m.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// cleanupLoop periodically removes expired entries.
func (m *Memory) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}

// cleanup removes all expired entries.
func (m *Memory) cleanup() {
	now := time.Now()
	m.mu.Lock()
	evictions := int64(0)
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
			evictions++
		}
	}
	total := int64(len(m.entries))
	m.mu.Unlock()

	m.stats.mu.Lock()
	m.stats.Evictions += evictions
	m.stats.TotalKeys = total
	m.stats.mu.Unlock()
	metrics.CacheEvictions.WithLabelValues("memory").Add(float64(evictions))
}

func (m *Memory) recordHit() {
	m.stats.mu.Lock()
	m.stats.Hits++
	m.stats.mu.Unlock()
	metrics.CacheHits.WithLabelValues("memory").Inc()
}

func (m *Memory) recordMiss() {
	m.stats.mu.Lock()
	m.stats.Misses++
	m.stats.mu.Unlock()
	metrics.CacheMisses.WithLabelValues("memory").Inc()
}

func (m *Memory) recordEviction() {
	m.stats.mu.Lock()
	m.stats.Evictions++
	m.stats.mu.Unlock()
	metrics.CacheEvictions.WithLabelValues("memory").Inc()
}
