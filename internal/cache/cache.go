// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cache memoizes query pipeline results by question fingerprint.
// The backing store is Redis when configured, or an in-process map otherwise.
// A failing store never aborts the pipeline: the cache flips to disabled,
// logs the condition once, and every later call behaves as a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"wosool/insight/internal/errors"
)

// DefaultTTL is the expiry applied when the caller does not override it.
const DefaultTTL = time.Hour

// CachedResult is the stored outcome of one answered question.
type CachedResult struct {
	SQL      string    `json:"sql"`
	Columns  []string  `json:"columns"`
	Rows     [][]any   `json:"rows"`
	RowCount int       `json:"row_count"`
	CachedAt time.Time `json:"cached_at"`
}

// Store is the minimal key/value contract the cache needs. Expiry enforcement
// is delegated to the store's native mechanism.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Fingerprint derives the cache key for a question. It is a pure function of
// the case- and whitespace-normalized question text, so identical questions
// always hit and distinct questions collide only by digest collision.
func Fingerprint(question string) string {
	norm := strings.ToLower(strings.TrimSpace(question))
	sum := sha256.Sum256([]byte(norm))
	return "query:" + hex.EncodeToString(sum[:])
}

// Cache wraps a Store with fingerprint keying and failure degradation.
type Cache struct {
	store    Store
	ttl      time.Duration
	log      *slog.Logger
	disabled atomic.Bool
	warnOnce sync.Once
}

// New builds a Cache over the given store. A zero ttl means DefaultTTL.
func New(store Store, ttl time.Duration, log *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache{store: store, ttl: ttl, log: log}
}

// Get returns the cached result for a question, or (nil, false) on miss.
// Store errors disable the cache and count as a miss.
func (c *Cache) Get(ctx context.Context, question string) (*CachedResult, bool) {
	if c == nil || c.disabled.Load() {
		return nil, false
	}
	data, ok, err := c.store.Get(ctx, Fingerprint(question))
	if err != nil {
		c.disable(err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var res CachedResult
	if err := json.Unmarshal(data, &res); err != nil {
		// Corrupt entry: treat as a miss, the next put overwrites it.
		return nil, false
	}
	return &res, true
}

// Put stores a result under the question's fingerprint. Store errors disable
// the cache; they are never surfaced to the caller.
func (c *Cache) Put(ctx context.Context, question string, res *CachedResult) {
	if c == nil || c.disabled.Load() {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, Fingerprint(question), data, c.ttl); err != nil {
		c.disable(err)
	}
}

// Enabled reports whether the cache is still serving.
func (c *Cache) Enabled() bool { return c != nil && !c.disabled.Load() }

func (c *Cache) disable(err error) {
	c.disabled.Store(true)
	c.warnOnce.Do(func() {
		c.log.Warn("result cache unavailable, caching disabled",
			"error", errors.Wrap(errors.CacheUnavailable, "result cache store failure", err))
	})
}
