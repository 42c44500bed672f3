// Package filestore defines the read-only interface lorelink uses to browse
// object storage backends.
//
// All drivers (MinIO, AWS S3, in-memory) implement the Store interface.
// The catalog depends only on this package, never on a specific driver.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin", "compendium")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	entries, err := store.ListLevel(ctx, "srd/bestiary/", "/")
//	data, err := store.Download(ctx, entries[0].Name, 5_000_000)
package filestore

import (
	"context"
	"fmt"
	"io"

	"github.com/koustreak/lorelink/internal/errs"
)

// Store is the contract every object storage driver implements.
// It is bound to a single bucket and strictly read-only.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// ListLevel lists one hierarchy level under prefix: objects whose
	// remaining key has no delimiter, plus the distinct child prefixes.
	// Entries are returned in lexicographic key order.
	ListLevel(ctx context.Context, prefix, delimiter string) ([]Entry, error)

	// Download returns the content of the object at key. Objects larger
	// than maxBytes fail with errs.ErrKindTooLarge after reading at most
	// maxBytes+1 bytes. A non-positive maxBytes reads the whole object.
	Download(ctx context.Context, key string, maxBytes int64) ([]byte, error)
}

// ReadLimited reads r to the end, stopping one byte past maxBytes. Read
// errors are returned unwrapped so drivers can map them.
func ReadLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, errs.New(errs.ErrKindTooLarge, fmt.Sprintf("object exceeds %d bytes", maxBytes))
	}
	return data, nil
}
