package service

import (
	"context"
	"errors"

	"galleryapi/internal/store"
)

var ErrIDRequired = errors.New("id is required")

// EntityService defines the generic use cases over one persisted entity
// type. It fronts the cache-augmented document store and is what HTTP
// handlers talk to; the typed store errors pass through for status
// translation at the edge.
type EntityService[T any] interface {
	// List returns all entities of the type.
	List(ctx context.Context) ([]T, error)

	// Get returns a single entity by its identity.
	Get(ctx context.Context, id int) (T, error)

	// Save persists a new entity and returns it with identity assigned.
	Save(ctx context.Context, instance T) (T, error)

	// Update applies the DTO to the stored entity and returns the result.
	Update(ctx context.Context, id int, instance T) (T, error)

	// UpdateFunc applies a field mutator to the stored entity — the partial
	// update path that needs no full instance.
	UpdateFunc(ctx context.Context, id int, mutate func(T) T) (T, error)

	// Delete removes the entity and returns the deleted value for caller
	// confirmation.
	Delete(ctx context.Context, id int) (T, error)
}

// entityService is a concrete implementation of EntityService.
type entityService[T any] struct {
	store store.DocumentStore[T]
}

// NewEntityService constructs an EntityService over the given store.
func NewEntityService[T any](s store.DocumentStore[T]) EntityService[T] {
	return &entityService[T]{store: s}
}

func (s *entityService[T]) List(ctx context.Context) ([]T, error) {
	return s.store.GetAll(ctx)
}

func (s *entityService[T]) Get(ctx context.Context, id int) (T, error) {
	var zero T
	if id <= 0 {
		return zero, ErrIDRequired
	}
	return s.store.Get(ctx, id)
}

func (s *entityService[T]) Save(ctx context.Context, instance T) (T, error) {
	return s.store.Save(ctx, instance)
}

func (s *entityService[T]) Update(ctx context.Context, id int, instance T) (T, error) {
	var zero T
	if id <= 0 {
		return zero, ErrIDRequired
	}
	return s.store.Update(ctx, id, instance)
}

func (s *entityService[T]) UpdateFunc(ctx context.Context, id int, mutate func(T) T) (T, error) {
	var zero T
	if id <= 0 {
		return zero, ErrIDRequired
	}
	return s.store.UpdateFunc(ctx, id, mutate)
}

func (s *entityService[T]) Delete(ctx context.Context, id int) (T, error) {
	var zero T
	if id <= 0 {
		return zero, ErrIDRequired
	}
	return s.store.Delete(ctx, id)
}
