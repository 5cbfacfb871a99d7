// Package kvstore abstracts the external key-value store backing the content
// catalog. Values are opaque JSON documents; every write replaces the whole
// value for its key (last-write-wins, no conditional writes).
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// Entry is one key/value pair returned by a prefix scan.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Store is the key-value client interface.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	// Set upserts the whole value under key.
	Set(ctx context.Context, key string, value json.RawMessage) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// ScanPrefix returns all entries whose key starts with prefix, in key order.
	ScanPrefix(ctx context.Context, prefix string) ([]Entry, error)
}
