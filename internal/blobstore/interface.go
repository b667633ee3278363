package blobstore

import (
	"context"
	"io"
)

// BlobStore is the byte-storage abstraction used by the upload service.
// Put must refuse to overwrite an existing key: collisions are an error, not
// an upsert.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Stat(ctx context.Context, key string) (int64, error)
}
