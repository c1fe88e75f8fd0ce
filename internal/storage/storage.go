// Package storage holds the binaries behind catalog records. The default
// backend is a local directory; an S3-compatible bucket (MinIO) can replace it.
package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("paperhub/storage")

var (
	// ErrObjectNotFound is returned by Get when no object exists under the key.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidKey is returned for keys that are empty or would escape the storage root.
	ErrInvalidKey = errors.New("invalid object key")
	// ErrObjectExists is returned by Put when the key is already taken.
	ErrObjectExists = errors.New("object already exists")
	// ErrPresignUnsupported is returned by backends that serve objects directly.
	ErrPresignUnsupported = errors.New("presigned urls not supported by backend")
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the binary store used by file intake.
// An object is either fully written under its key or not present at all.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	// If reading r fails, nothing is left behind under key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// PingContext reports whether the backend is reachable and writable.
	PingContext(ctx context.Context) error
}
