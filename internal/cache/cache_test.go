// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestFingerprintDeterminism(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{name: "identical", a: "count customers", b: "count customers", same: true},
		{name: "case normalized", a: "Count Customers", b: "count customers", same: true},
		{name: "whitespace trimmed", a: "  count customers  ", b: "count customers", same: true},
		{name: "different questions", a: "count customers", b: "count orders", same: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, kb := Fingerprint(tt.a), Fingerprint(tt.b)
			if (ka == kb) != tt.same {
				t.Errorf("Fingerprint(%q) == Fingerprint(%q) = %v, want %v", tt.a, tt.b, ka == kb, tt.same)
			}
		})
	}
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), time.Minute, nil)

	want := &CachedResult{
		SQL:      "SELECT COUNT(*) FROM customers;",
		Columns:  []string{"count"},
		Rows:     [][]any{{float64(42)}},
		RowCount: 1,
		CachedAt: time.Now().UTC().Truncate(time.Second),
	}
	c.Put(ctx, "count customers", want)

	got, ok := c.Get(ctx, "count customers")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.SQL != want.SQL || got.RowCount != want.RowCount {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(got.Columns, want.Columns) {
		t.Errorf("Columns = %v, want %v", got.Columns, want.Columns)
	}
	if !reflect.DeepEqual(got.Rows, want.Rows) {
		t.Errorf("Rows = %v, want %v", got.Rows, want.Rows)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New(NewMemoryStore(), time.Minute, nil)
	if _, ok := c.Get(context.Background(), "never stored"); ok {
		t.Error("expected miss for unknown question")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("expired entry still returned")
	}
}

// failingStore errors on every call to exercise degradation.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store unreachable")
}
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("store unreachable")
}

func TestCacheDegradesOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	c := New(failingStore{}, time.Minute, slog.New(slog.NewTextHandler(&logs, nil)))

	if _, ok := c.Get(ctx, "q"); ok {
		t.Error("failing store must read as miss")
	}
	if c.Enabled() {
		t.Error("cache should be disabled after store failure")
	}
	// Subsequent calls proceed as misses without panicking.
	c.Put(ctx, "q", &CachedResult{})
	if _, ok := c.Get(ctx, "q"); ok {
		t.Error("disabled cache must miss")
	}

	if got := strings.Count(logs.String(), "cache_unavailable"); got != 1 {
		t.Errorf("cache_unavailable logged %d times, want exactly once: %s", got, logs.String())
	}
}
