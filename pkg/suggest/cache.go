package suggest

import (
	"context"
	"slices"

	"github.com/bastiangx/typeahead/pkg/autocomplete"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedResolver memoizes another resolver's answers by query.
// Failed lookups are not cached. It is safe for concurrent use.
type CachedResolver[T any] struct {
	next  autocomplete.Resolver[T]
	cache *lru.Cache[string, []T]
}

// NewCachedResolver wraps next with an LRU holding up to size queries.
func NewCachedResolver[T any](next autocomplete.Resolver[T], size int) (*CachedResolver[T], error) {
	cache, err := lru.New[string, []T](size)
	if err != nil {
		return nil, err
	}
	return &CachedResolver[T]{next: next, cache: cache}, nil
}

// Resolve implements autocomplete.Resolver.
func (c *CachedResolver[T]) Resolve(ctx context.Context, query string) ([]T, error) {
	if items, ok := c.cache.Get(query); ok {
		return slices.Clone(items), nil
	}
	items, err := c.next.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}
	c.cache.Add(query, slices.Clone(items))
	return items, nil
}

// Len returns the number of cached queries.
func (c *CachedResolver[T]) Len() int {
	return c.cache.Len()
}

// Purge drops every cached query, e.g. after the dictionary changed.
func (c *CachedResolver[T]) Purge() {
	c.cache.Purge()
}
