// Package cache holds the client-side copy of each server collection.
// The only write path is a full replace with a fresh server snapshot;
// mutations never patch entries in place, which keeps server-derived
// fields (taskCount, updatedAt) trustworthy without merge logic. A
// superseded refresh is allowed to land: last response wins.
package cache

import "context"

// FetchFunc produces the latest server snapshot of a collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Collection is the in-memory copy of one server collection. All writes
// happen on the caller's event loop; there is no internal locking.
type Collection[T any] struct {
	name   string
	fetch  FetchFunc[T]
	items  []T
	loaded bool
	err    error
}

func New[T any](name string, fetch FetchFunc[T]) *Collection[T] {
	return &Collection[T]{name: name, fetch: fetch}
}

// Name labels error banners ("projects", "tasks").
func (c *Collection[T]) Name() string { return c.name }

// Refresh fetches a snapshot and replaces the collection wholesale.
// On error the previous contents stay put and the error is retained
// until the next successful refresh (or ClearErr).
func (c *Collection[T]) Refresh(ctx context.Context) error {
	items, err := c.fetch(ctx)
	if err != nil {
		c.Fail(err)
		return err
	}
	c.Replace(items)
	return nil
}

// Replace installs a fresh snapshot. Split out of Refresh so an event
// loop can run the fetch off-thread and apply the result on-thread.
func (c *Collection[T]) Replace(items []T) {
	c.items = items
	c.loaded = true
	c.err = nil
}

// Fail records a fetch failure without touching the cached items.
func (c *Collection[T]) Fail(err error) {
	c.err = err
}

// List returns the cached entities in server order.
func (c *Collection[T]) List() []T { return c.items }

// Loaded reports whether any snapshot has ever been installed; it stays
// true across later failures so stale-but-present data keeps rendering.
func (c *Collection[T]) Loaded() bool { return c.loaded }

// Err is the collection-scoped fetch error, if any.
func (c *Collection[T]) Err() error { return c.err }

// ClearErr dismisses the error banner without touching the items.
func (c *Collection[T]) ClearErr() { c.err = nil }
