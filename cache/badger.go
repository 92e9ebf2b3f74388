// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

package cache

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/gw2api/internal/logging"
	"github.com/tomtom215/gw2api/internal/metrics"
)

// Badger is a persistent Store backed by a Badger key-value database.
// Values are stored JSON-encoded; Get returns them as Raw for the caller to
// decode. Expiry maps onto Badger's native entry TTL.
type Badger struct {
	db *badger.DB
}

// NewBadger opens (or creates) a Badger database at path.
func NewBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache at %s: %w", path, err)
	}

	return &Badger{db: db}, nil
}

// Get retrieves the serialized value for key. Badger drops entries past
// their TTL, so expired entries read as absent.
func (b *Badger) Get(key Key) (any, bool) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.String()))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("key", key.String()).Msg("badger cache read failed")
		}
		metrics.CacheMisses.WithLabelValues("badger").Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("badger").Inc()
	return Raw(data), true
}

// Set upserts one entry with a TTL derived from expiresAt. Entries already
// past their expiry are not written.
func (b *Badger) Set(key Key, value any, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}

	data, err := encodeValue(value)
	if err != nil {
		logging.Warn().Err(err).Str("key", key.String()).Msg("badger cache encode failed")
		return
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key.String()), data).WithTTL(ttl))
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key.String()).Msg("badger cache write failed")
	}
}

// SetBatch writes all entries through one write batch.
func (b *Badger) SetBatch(entries []Entry) {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	for _, e := range entries {
		ttl := time.Until(e.ExpiresAt)
		if ttl <= 0 {
			continue
		}
		data, err := encodeValue(e.Value)
		if err != nil {
			logging.Warn().Err(err).Str("key", e.Key.String()).Msg("badger cache encode failed")
			continue
		}
		if err := wb.SetEntry(badger.NewEntry([]byte(e.Key.String()), data).WithTTL(ttl)); err != nil {
			logging.Warn().Err(err).Str("key", e.Key.String()).Msg("badger cache batch write failed")
			return
		}
	}

	if err := wb.Flush(); err != nil {
		logging.Warn().Err(err).Msg("badger cache batch flush failed")
	}
}

// Close closes the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func encodeValue(value any) ([]byte, error) {
	if raw, ok := value.(Raw); ok {
		return raw, nil
	}
	return json.Marshal(value)
}
