package client

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"
)

// Resource is a typed REST collection at a fixed path, e.g. /api/manuals.
// T is the DTO returned by the API.
type Resource[T any] struct {
	client *Client
	path   string
	cache  *Cache[T]

	mu        sync.Mutex
	lastQuery url.Values
}

// NewResource creates a resource client for path
func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{client: c, path: path, cache: NewCache[T]()}
}

// Cache exposes the collection cache for subscriptions
func (r *Resource[T]) Cache() *Cache[T] {
	return r.cache
}

// List fetches the collection and replaces the cache with the result
func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	path := r.path
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var items []T
	if err := r.client.Do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	r.mu.Lock()
	r.lastQuery = query
	r.mu.Unlock()

	r.cache.Replace(items)
	return items, nil
}

// Items returns the cached collection, refetching the last listed query when
// the cache was never filled or has been invalidated
func (r *Resource[T]) Items(ctx context.Context) ([]T, error) {
	if items, loaded := r.cache.Snapshot(); loaded {
		return items, nil
	}
	r.mu.Lock()
	query := r.lastQuery
	r.mu.Unlock()
	return r.List(ctx, query)
}

// Get fetches a single item
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.client.Do(ctx, http.MethodGet, r.path+"/"+url.PathEscape(id), nil, &item)
	return item, err
}

// Create posts in and refreshes the cached collection
func (r *Resource[T]) Create(ctx context.Context, in any) (T, error) {
	var item T
	if err := r.client.Do(ctx, http.MethodPost, r.path, in, &item); err != nil {
		return item, err
	}
	r.refresh(ctx)
	return item, nil
}

// Update puts in at id and refreshes the cached collection
func (r *Resource[T]) Update(ctx context.Context, id string, in any) (T, error) {
	var item T
	if err := r.client.Do(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), in, &item); err != nil {
		return item, err
	}
	r.refresh(ctx)
	return item, nil
}

// Action posts to a sub-path of an item, e.g. /api/goals/{id}/complete
func (r *Resource[T]) Action(ctx context.Context, id, action string) (T, error) {
	var item T
	if err := r.client.Do(ctx, http.MethodPost, r.path+"/"+url.PathEscape(id)+"/"+action, nil, &item); err != nil {
		return item, err
	}
	r.refresh(ctx)
	return item, nil
}

// Delete removes the item at id and refreshes the cached collection
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if err := r.client.Do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	r.refresh(ctx)
	return nil
}

// refresh refetches the last listed query after a committed write. A failed
// refetch never fails the write; the cache is invalidated instead.
func (r *Resource[T]) refresh(ctx context.Context) {
	r.mu.Lock()
	query := r.lastQuery
	r.mu.Unlock()

	if _, err := r.List(ctx, query); err != nil {
		r.client.Logger.Warn("Failed to refresh cached collection", zap.String("path", r.path), zap.Error(err))
		r.cache.Invalidate()
	}
}
