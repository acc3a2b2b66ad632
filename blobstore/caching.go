package blobstore

import (
	"container/list"
	"context"
	"fmt"
	"io"
	"sync"
)

// CachingStore wraps a slower Store, typically an object store, with an
// in-memory whole-blob cache evicted least-recently-used by byte size.
// Writes pass through and invalidate; blobs larger than the cache capacity
// are served uncached.
type CachingStore struct {
	inner    Store
	capacity int64

	mu    sync.Mutex
	bytes int64
	order *list.List               // front = most recently used
	blobs map[string]*list.Element // value: *cacheEntry
}

var _ Store = (*CachingStore)(nil)

type cacheEntry struct {
	name string
	data []byte
}

// NewCachingStore wraps inner with a cache of at most capacity bytes.
func NewCachingStore(inner Store, capacity int64) (*CachingStore, error) {
	if inner == nil {
		return nil, fmt.Errorf("blobstore: nil inner store")
	}

	if capacity <= 0 {
		return nil, fmt.Errorf("blobstore: cache capacity %d must be positive", capacity)
	}

	return &CachingStore{
		inner:    inner,
		capacity: capacity,
		order:    list.New(),
		blobs:    make(map[string]*list.Element),
	}, nil
}

// Open serves from cache when possible, otherwise reads the whole blob
// through and caches it if it fits.
func (c *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := c.lookup(name); ok {
		return &memoryBlob{data: data}, nil
	}

	blob, err := c.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	if blob.Size() > c.capacity {
		return blob, nil
	}

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		_ = blob.Close()
		return nil, err
	}

	data, err := io.ReadAll(rc)
	_ = rc.Close()
	_ = blob.Close()

	if err != nil {
		return nil, err
	}

	c.insert(name, data)

	return &memoryBlob{data: data}, nil
}

// Create passes through and invalidates the name on Close.
func (c *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := c.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	return &invalidatingBlob{WritableBlob: w, cache: c, name: name}, nil
}

// Put passes through and invalidates.
func (c *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	if err := c.inner.Put(ctx, name, data); err != nil {
		return err
	}

	c.invalidate(name)

	return nil
}

// Delete passes through and invalidates.
func (c *CachingStore) Delete(ctx context.Context, name string) error {
	if err := c.inner.Delete(ctx, name); err != nil {
		return err
	}

	c.invalidate(name)

	return nil
}

// List always asks the inner store; the cache holds contents, not truth
// about existence.
func (c *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return c.inner.List(ctx, prefix)
}

func (c *CachingStore) lookup(name string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.blobs[name]
	if !ok {
		return nil, false
	}

	c.order.MoveToFront(el)

	return el.Value.(*cacheEntry).data, true
}

func (c *CachingStore) insert(name string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.blobs[name]; ok {
		c.bytes -= int64(len(el.Value.(*cacheEntry).data))
		c.order.Remove(el)
		delete(c.blobs, name)
	}

	for c.bytes+int64(len(data)) > c.capacity {
		back := c.order.Back()
		if back == nil {
			break
		}

		entry := back.Value.(*cacheEntry)
		c.bytes -= int64(len(entry.data))
		c.order.Remove(back)
		delete(c.blobs, entry.name)
	}

	c.blobs[name] = c.order.PushFront(&cacheEntry{name: name, data: data})
	c.bytes += int64(len(data))
}

func (c *CachingStore) invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.blobs[name]; ok {
		c.bytes -= int64(len(el.Value.(*cacheEntry).data))
		c.order.Remove(el)
		delete(c.blobs, name)
	}
}

type invalidatingBlob struct {
	WritableBlob

	cache *CachingStore
	name  string
}

func (b *invalidatingBlob) Close() error {
	err := b.WritableBlob.Close()
	b.cache.invalidate(b.name)

	return err
}
