package kv

import (
	"context"
	"slices"
	"sort"
	"sync"
)

// Memory is an in-process [Store]. Nothing survives Close.
type Memory struct {
	mu     sync.Mutex
	data   map[string][]byte
	quota  int
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory(quota int) *Memory {
	if quota <= 0 {
		quota = DefaultQuota
	}

	return &Memory{data: make(map[string][]byte), quota: quota}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := m.enter(ctx, key); err != nil {
		return nil, false, err
	}
	defer m.mu.Unlock()

	value, ok := m.data[key]

	return slices.Clone(value), ok, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	return m.Update(ctx, key, func([]byte, bool) ([]byte, error) {
		return value, nil
	})
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := m.enter(ctx, key); err != nil {
		return err
	}
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

func (m *Memory) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := m.enter(ctx, key); err != nil {
		return err
	}
	defer m.mu.Unlock()

	current, ok := m.data[key]

	next, err := fn(slices.Clone(current), ok)
	if err != nil {
		return err
	}

	if next == nil {
		return nil
	}

	if err := checkQuota(key, next, m.quota); err != nil {
		return err
	}

	m.data[key] = slices.Clone(next)

	return nil
}

func (m *Memory) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return nil
}

// enter validates the call and acquires the lock. The caller must unlock
// when enter returns nil.
func (m *Memory) enter(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := ValidateKey(key); err != nil {
		return err
	}

	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()

		return ErrClosed
	}

	return nil
}

var _ Store = (*Memory)(nil)
