// Package kv is the flat key-value namespace the registry persists into.
// Values are opaque strings; callers own the encoding.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Batch is a set of writes applied together.
type Batch struct {
	Set    map[string]string
	Delete []string
}

func (b Batch) Empty() bool {
	return len(b.Set) == 0 && len(b.Delete) == 0
}

// Store is implemented by every backend. Get returns ErrNotFound for an
// absent key. Apply writes a batch atomically; a key present in both Set
// and Delete ends up deleted.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Apply(ctx context.Context, b Batch) error
}

// Set writes one key.
func Set(ctx context.Context, s Store, key, value string) error {
	return s.Apply(ctx, Batch{Set: map[string]string{key: value}})
}

// Delete removes keys; absent keys are ignored.
func Delete(ctx context.Context, s Store, keys ...string) error {
	return s.Apply(ctx, Batch{Delete: keys})
}
