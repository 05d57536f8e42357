package cache

import (
	"testing"
	"time"

	"povlens/viewer/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(mr.Addr(), ttl, time.Second)
	require.NoError(t, err)
	return c, mr
}

func TestRedisCache(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)

	req := model.RequestDescriptor{
		Page:    1,
		Limit:   100,
		Filters: model.Filters{"poor": model.IntFilter(0)},
	}
	page := model.PageResult{
		Data:  []model.Record{{"hh_id": "H-1", "poor": int64(0)}},
		Total: 1,
		Page:  1,
		Limit: 100,
	}

	_, ok := c.Get("predictions", req)
	assert.False(t, ok)

	require.NoError(t, c.Set("predictions", req, page))
	assert.True(t, mr.Exists(redisKeyPrefix+string(key("predictions", req))))

	got, ok := c.Get("predictions", req)
	require.True(t, ok)
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, "H-1", got.Data[0]["hh_id"])

	_, ok = c.Get("poverty-data", req)
	assert.False(t, ok)

	c.Delete("predictions", req)
	_, ok = c.Get("predictions", req)
	assert.False(t, ok)
}

func TestRedisCacheExpiry(t *testing.T) {
	c, mr := newTestRedisCache(t, 30*time.Second)
	req := model.RequestDescriptor{Page: 3, Limit: 50}
	require.NoError(t, c.Set("poverty-data", req, model.PageResult{Total: 400}))

	mr.FastForward(31 * time.Second)
	_, ok := c.Get("poverty-data", req)
	assert.False(t, ok)
}

func TestRedisCacheUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c, err := NewRedisCache(addr, time.Minute, 200*time.Millisecond)
	assert.Error(t, err)
	assert.Nil(t, c)

	var nilCache *RedisCache
	var s Store = nilCache
	assert.NoError(t, s.Set("predictions", model.RequestDescriptor{}, model.PageResult{}))
	_, ok := s.Get("predictions", model.RequestDescriptor{})
	assert.False(t, ok)
}
