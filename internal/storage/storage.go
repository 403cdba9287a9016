package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage contains the key-addressed blob storage abstraction for
// S3-compatible object stores. Objects live under a configured bucket and
// key prefix; keys are treated as write-once. Implementations must avoid
// local disk and rely on streaming I/O only.

var (
	// ErrObjectNotFound indicates the key is absent from the namespace.
	ErrObjectNotFound = errors.New("object not found")

	// ErrObjectExists indicates a write-once key collision on Put.
	// Callers should regenerate the key, not retry with the same one.
	ErrObjectExists = errors.New("object already exists")

	// ErrStorageUnavailable indicates a transport/backend failure.
	// May be transient; this layer does not retry.
	ErrStorageUnavailable = errors.New("object storage unavailable")
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
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

// Storage is a reusable object storage client scoped to one bucket/prefix
// namespace. Safe for concurrent use.
type Storage interface {
	// Put uploads an object under the given key. Keys are write-once:
	// an existing key yields ErrObjectExists.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Idempotent: deleting an absent key
	// succeeds, since the desired post-condition already holds.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL addressing the object without
	// transferring the payload. Returns ErrObjectNotFound for absent keys.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// List enumerates all keys currently in the namespace, prefix stripped.
	// Backend pagination is flattened; a fresh call re-lists from scratch.
	List(ctx context.Context) ([]string, error)
}
