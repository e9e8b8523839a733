// Package store is the storage adapter: typed collections of flat records
// kept as JSON arrays under one key each, plus scalar preferences.
//
// Every write re-encodes and persists the entire collection inside a single
// [kv.Store.Update], so a read-modify-write never interleaves with another
// writer of the same key.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/calvinalkan/homebase/internal/kv"
)

// ErrEncode reports a record that could not be serialized.
var ErrEncode = errors.New("encode collection")

// Adapter binds collections to one key-value store.
type Adapter struct {
	kv  kv.Store
	log *zap.Logger
}

// New returns an adapter over store. A nil logger discards logs.
func New(store kv.Store, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}

	return &Adapter{kv: store, log: log}
}

// Collection is a named, ordered sequence of records of type T.
type Collection[T any] struct {
	adapter *Adapter
	key     string
}

// NewCollection returns the collection stored under key.
func NewCollection[T any](a *Adapter, key string) *Collection[T] {
	return &Collection[T]{adapter: a, key: key}
}

// Key returns the storage key.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load returns the decoded collection, or def when the key is absent or its
// payload does not decode. Only store failures produce an error.
func (c *Collection[T]) Load(ctx context.Context, def []T) ([]T, error) {
	data, exists, err := c.adapter.kv.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}

	records, ok := c.decode(data, exists)
	if !ok {
		return def, nil
	}

	return records, nil
}

// Append adds rec to the end of the collection.
func (c *Collection[T]) Append(ctx context.Context, rec T) error {
	err := c.mutate(ctx, func(records []T) ([]T, bool) {
		return append(records, rec), true
	})
	if err != nil {
		return fmt.Errorf("append %s: %w", c.key, err)
	}

	return nil
}

// Remove drops every record for which match returns true and reports how
// many were removed. Nothing is written when no record matches.
func (c *Collection[T]) Remove(ctx context.Context, match func(T) bool) (int, error) {
	removed := 0

	err := c.mutate(ctx, func(records []T) ([]T, bool) {
		kept := records[:0:0]

		for _, rec := range records {
			if match(rec) {
				removed++

				continue
			}

			kept = append(kept, rec)
		}

		return kept, removed > 0
	})
	if err != nil {
		return 0, fmt.Errorf("remove from %s: %w", c.key, err)
	}

	return removed, nil
}

// RemoveEqual removes every record structurally equal to rec. Two records
// with identical field values are indistinguishable, so both go.
func (c *Collection[T]) RemoveEqual(ctx context.Context, rec T) (int, error) {
	target, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	return c.Remove(ctx, func(candidate T) bool {
		return sameJSON(candidate, target)
	})
}

// Replace maps every record for which match returns true to next and
// reports how many were replaced.
func (c *Collection[T]) Replace(ctx context.Context, match func(T) bool, next T) (int, error) {
	replaced := 0

	err := c.mutate(ctx, func(records []T) ([]T, bool) {
		for i, rec := range records {
			if match(rec) {
				records[i] = next
				replaced++
			}
		}

		return records, replaced > 0
	})
	if err != nil {
		return 0, fmt.Errorf("replace in %s: %w", c.key, err)
	}

	return replaced, nil
}

// ReplaceEqual replaces every record structurally equal to old with next.
func (c *Collection[T]) ReplaceEqual(ctx context.Context, old, next T) (int, error) {
	target, err := json.Marshal(old)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	return c.Replace(ctx, func(candidate T) bool {
		return sameJSON(candidate, target)
	}, next)
}

// Save overwrites the whole collection with records.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	err := c.mutate(ctx, func([]T) ([]T, bool) {
		return records, true
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}

	return nil
}

// mutate loads the collection under the store lock, applies fn, and writes
// the result back when fn reports a change.
func (c *Collection[T]) mutate(ctx context.Context, fn func([]T) ([]T, bool)) error {
	return c.adapter.kv.Update(ctx, c.key, func(current []byte, exists bool) ([]byte, error) {
		records, _ := c.decode(current, exists)

		next, changed := fn(records)
		if !changed {
			return nil, nil
		}

		if next == nil {
			next = []T{}
		}

		data, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}

		return data, nil
	})
}

func (c *Collection[T]) decode(data []byte, exists bool) ([]T, bool) {
	if !exists {
		return nil, false
	}

	var records []T

	err := json.Unmarshal(data, &records)
	if err != nil || records == nil {
		c.adapter.log.Warn("stored collection unreadable, using default",
			zap.String("key", c.key),
			zap.Int("bytes", len(data)),
			zap.Error(err))

		return nil, false
	}

	return records, true
}

func sameJSON[T any](candidate T, target []byte) bool {
	data, err := json.Marshal(candidate)
	if err != nil {
		return false
	}

	return bytes.Equal(data, target)
}

// Scalar is a single string preference stored verbatim under one key.
type Scalar struct {
	adapter *Adapter
	key     string
}

// NewScalar returns the scalar stored under key.
func NewScalar(a *Adapter, key string) *Scalar {
	return &Scalar{adapter: a, key: key}
}

// Key returns the storage key.
func (s *Scalar) Key() string {
	return s.key
}

// Get returns the stored value and whether one exists.
func (s *Scalar) Get(ctx context.Context) (string, bool, error) {
	data, exists, err := s.adapter.kv.Get(ctx, s.key)
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", s.key, err)
	}

	if !exists {
		return "", false, nil
	}

	return string(bytes.TrimSpace(data)), true, nil
}

// Set stores value.
func (s *Scalar) Set(ctx context.Context, value string) error {
	err := s.adapter.kv.Set(ctx, s.key, []byte(value))
	if err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}

	return nil
}
