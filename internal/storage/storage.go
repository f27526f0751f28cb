// Package storage provides the key-value backends the cart is persisted to.
// Every driver overwrites the whole value on Set; there is no partial update.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrEmptyKey is returned when a driver is called without a key.
var ErrEmptyKey = errors.New("storage key is required")

// KV is the get/set surface the cart persists through.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value stored at key.
	Set(ctx context.Context, key, value string) error
}

// Memory keeps values in process memory. Used for local runs and tests.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Ping always succeeds; it lets the readiness probe treat drivers uniformly.
func (m *Memory) Ping(context.Context) error {
	return nil
}
