// Package storage abstracts the external blob store holding uploaded file
// bytes. Implementations stream request bodies straight through; nothing is
// staged on local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// PutOptions carries optional upload parameters. Size must be the exact byte
// count when known, -1 otherwise.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key  string
	Size int64
	ETag string
}

// BlobStore is the object-storage client interface.
type BlobStore interface {
	// Put uploads an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL for the object.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
