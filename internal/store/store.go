package store

import (
	"context"
	"errors"
	"fmt"
)

// Package store contains the generic persisted-entity access layer: a typed
// CRUD adapter over a document-oriented Postgres layout (one JSONB table per
// entity type) and a cache-augmented decorator in front of it.

var (
	// ErrNotFound indicates the requested identity is absent.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict indicates an identity collision on create.
	ErrConflict = errors.New("entity already exists")

	// ErrStoreUnavailable indicates the backing store connection failed.
	// May be transient; retry policy is the caller's responsibility.
	ErrStoreUnavailable = errors.New("document store unavailable")
)

// DocumentStore is generic typed CRUD against a document-oriented backing
// store. All operations may block on store I/O and honor ctx cancellation.
// Each operation is atomic with respect to the single document it touches;
// no multi-document transactions are guaranteed.
type DocumentStore[T any] interface {
	// GetAll returns all documents of the type. Ordering is store-defined.
	GetAll(ctx context.Context) ([]T, error)

	// Get fetches a document by identity. Returns ErrNotFound if absent.
	Get(ctx context.Context, id int) (T, error)

	// Save inserts a new document. A zero identity is assigned by the store;
	// a caller-supplied identity that already exists yields ErrConflict.
	Save(ctx context.Context, instance T) (T, error)

	// Update loads the document by id, applies UpdateFrom(instance), persists
	// and returns the mutated result. Returns ErrNotFound if absent.
	Update(ctx context.Context, id int, instance T) (T, error)

	// UpdateFunc is the partial-update variant: mutate is applied to a freshly
	// loaded copy and the result persisted. Same NotFound semantics as Update.
	UpdateFunc(ctx context.Context, id int, mutate func(T) T) (T, error)

	// Delete removes the document by identity and returns the deleted value.
	// Returns ErrNotFound if absent.
	Delete(ctx context.Context, id int) (T, error)
}

// OpError wraps a failed store operation with its collection and identity
// for log and error-chain context.
type OpError struct {
	Collection string
	Op         string
	ID         int
	Err        error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("store %s %s/%d: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
