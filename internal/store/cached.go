package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"galleryapi/internal/cache"
	"galleryapi/internal/model"
)

// Cached decorates a DocumentStore with a read-through cache keyed by
// (collection, identity).
//
// Consistency contract: mutations hit the store first; only on success is the
// cache entry replaced (Save/Update) or removed (Delete). Invalidating before
// the write is forbidden — a failed write after eager invalidation could
// leave a stale value uncorrectable. Cache backend failures degrade to a
// miss and never fail the operation.
type Cached[E any, T model.Ptr[E, T]] struct {
	store      DocumentStore[T]
	cache      cache.Cache
	collection string
}

// NewCached wraps store with the given cache backend. collection namespaces
// the cache keys and must match one table to one value.
func NewCached[E any, T model.Ptr[E, T]](store DocumentStore[T], c cache.Cache, collection string) *Cached[E, T] {
	return &Cached[E, T]{store: store, cache: c, collection: collection}
}

var _ DocumentStore[*model.Rug] = (*Cached[model.Rug, *model.Rug])(nil)

// Get checks the cache first; on a hit the store is not touched. On a miss
// it delegates, populates the cache and returns.
func (c *Cached[E, T]) Get(ctx context.Context, id int) (T, error) {
	key := cache.Key(c.collection, id)

	raw, err := c.cache.Get(ctx, key)
	if err == nil {
		e := T(new(E))
		if jsonErr := json.Unmarshal(raw, e); jsonErr == nil {
			return e, nil
		}
		// Undecodable entry: drop it and fall through to the store.
		c.evict(ctx, key)
	} else if !errors.Is(err, cache.ErrMiss) {
		c.degrade("get", err)
	}

	entity, err := c.store.Get(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	c.populate(ctx, key, entity)
	return entity, nil
}

// GetAll delegates to the store and refreshes the per-entity cache entries.
// The list shape itself is never cached, so a stale collection entry cannot
// resurrect a deleted entity.
func (c *Cached[E, T]) GetAll(ctx context.Context) ([]T, error) {
	items, err := c.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		c.populate(ctx, cache.Key(c.collection, item.Identity()), item)
	}
	return items, nil
}

// Save inserts through the store, then populates the cache entry so the
// first read after create is already warm.
func (c *Cached[E, T]) Save(ctx context.Context, instance T) (T, error) {
	saved, err := c.store.Save(ctx, instance)
	if err != nil {
		var zero T
		return zero, err
	}
	c.populate(ctx, cache.Key(c.collection, saved.Identity()), saved)
	return saved, nil
}

// Update persists through the store, then replaces the cache entry.
func (c *Cached[E, T]) Update(ctx context.Context, id int, instance T) (T, error) {
	updated, err := c.store.Update(ctx, id, instance)
	if err != nil {
		var zero T
		return zero, err
	}
	c.populate(ctx, cache.Key(c.collection, id), updated)
	return updated, nil
}

// UpdateFunc persists through the store, then replaces the cache entry.
func (c *Cached[E, T]) UpdateFunc(ctx context.Context, id int, mutate func(T) T) (T, error) {
	updated, err := c.store.UpdateFunc(ctx, id, mutate)
	if err != nil {
		var zero T
		return zero, err
	}
	c.populate(ctx, cache.Key(c.collection, id), updated)
	return updated, nil
}

// Delete removes through the store, then invalidates the cache entry.
func (c *Cached[E, T]) Delete(ctx context.Context, id int) (T, error) {
	deleted, err := c.store.Delete(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	c.evict(ctx, cache.Key(c.collection, id))
	return deleted, nil
}

func (c *Cached[E, T]) populate(ctx context.Context, key string, entity T) {
	raw, err := json.Marshal(entity)
	if err != nil {
		c.degrade("set", err)
		return
	}
	if err := c.cache.Set(ctx, key, raw); err != nil {
		c.degrade("set", err)
	}
}

func (c *Cached[E, T]) evict(ctx context.Context, key string) {
	if err := c.cache.Delete(ctx, key); err != nil {
		c.degrade("delete", err)
	}
}

func (c *Cached[E, T]) degrade(op string, err error) {
	entry, _ := json.Marshal(map[string]any{
		"level":      "warn",
		"msg":        "cache_degraded",
		"collection": c.collection,
		"cache_op":   op,
		"error":      err.Error(),
	})
	log.SetFlags(0)
	log.Println(string(entry))
}
