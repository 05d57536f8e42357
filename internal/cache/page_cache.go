package cache

import (
	"time"

	"povlens/viewer/internal/model"

	"github.com/coocood/freecache"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrPageTooLarge is returned by Set when an encoded page exceeds the
// per-entry limit of the memory cache.
var ErrPageTooLarge = errors.New("page exceeds cache entry limit")

// Store caches pages by scope and request. The scope names the API
// instance and dataset a page came from. A nil *PageCache or *RedisCache
// is a valid Store that never hits.
type Store interface {
	Get(scope string, req model.RequestDescriptor) (model.PageResult, bool)
	Set(scope string, req model.RequestDescriptor, page model.PageResult) error
	Delete(scope string, req model.RequestDescriptor)
}

// PageCache keeps recent pages keyed by scope and RequestDescriptor.Key.
// A nil *PageCache is valid and never hits.
type PageCache struct {
	cache *freecache.Cache
	ttl   time.Duration
}

// NewPageCache returns nil when size is not positive. freecache raises
// sizes below 512KB to that minimum and rejects entries larger than
// 1/1024 of the size, so a 500-row page needs a cache of about 128MB.
func NewPageCache(size int, ttl time.Duration) *PageCache {
	if size <= 0 {
		return nil
	}
	return &PageCache{
		cache: freecache.NewCache(size),
		ttl:   ttl,
	}
}

func key(scope string, req model.RequestDescriptor) []byte {
	return []byte(scope + "?" + req.Key())
}

func (c *PageCache) Get(scope string, req model.RequestDescriptor) (model.PageResult, bool) {
	if c == nil {
		return model.PageResult{}, false
	}
	data, err := c.cache.Get(key(scope, req))
	if err != nil {
		return model.PageResult{}, false
	}
	var page model.PageResult
	if err := msgpack.Unmarshal(data, &page); err != nil {
		c.cache.Del(key(scope, req))
		return model.PageResult{}, false
	}
	return page, true
}

func (c *PageCache) Set(scope string, req model.RequestDescriptor, page model.PageResult) error {
	if c == nil {
		return nil
	}
	data, err := msgpack.Marshal(page)
	if err != nil {
		return errors.Wrap(err, "encode page")
	}
	if err := c.cache.Set(key(scope, req), data, int(c.ttl/time.Second)); err != nil {
		if errors.Is(err, freecache.ErrLargeEntry) {
			return errors.Wrapf(ErrPageTooLarge, "%d bytes", len(data))
		}
		return errors.Wrap(err, "store page")
	}
	return nil
}

func (c *PageCache) Delete(scope string, req model.RequestDescriptor) {
	if c == nil {
		return
	}
	c.cache.Del(key(scope, req))
}

func (c *PageCache) Clear() {
	if c == nil {
		return
	}
	c.cache.Clear()
}
