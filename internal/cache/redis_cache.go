package cache

import (
	"context"
	"time"

	"povlens/viewer/internal/model"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const redisKeyPrefix = "povlens:page:"

// RedisCache shares pages between server instances. Values use the same
// msgpack encoding as PageCache.
type RedisCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	timeout time.Duration
}

// NewRedisCache connects to addr and checks it with PING. Each cache
// operation is bounded by timeout.
func NewRedisCache(addr string, ttl, timeout time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "ping redis %s", addr)
	}

	return &RedisCache{client: client, ttl: ttl, timeout: timeout}, nil
}

func (c *RedisCache) Get(scope string, req model.RequestDescriptor) (model.PageResult, bool) {
	if c == nil {
		return model.PageResult{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	data, err := c.client.Get(ctx, redisKeyPrefix+string(key(scope, req))).Bytes()
	if err != nil {
		return model.PageResult{}, false
	}
	var page model.PageResult
	if err := msgpack.Unmarshal(data, &page); err != nil {
		return model.PageResult{}, false
	}
	return page, true
}

func (c *RedisCache) Set(scope string, req model.RequestDescriptor, page model.PageResult) error {
	if c == nil {
		return nil
	}
	data, err := msgpack.Marshal(page)
	if err != nil {
		return errors.Wrap(err, "encode page")
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if err := c.client.Set(ctx, redisKeyPrefix+string(key(scope, req)), data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "store page")
	}
	return nil
}

func (c *RedisCache) Delete(scope string, req model.RequestDescriptor) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	c.client.Del(ctx, redisKeyPrefix+string(key(scope, req)))
}
