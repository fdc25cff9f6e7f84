package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/cache"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/testenv"
)

type entry struct {
	Name string `json:"name"`
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewRedisCache(ctx, testenv.StartRedis(t), time.Minute)
	require.NoError(t, err)
	defer c.Close()

	var got entry
	assert.ErrorIs(t, c.Get(ctx, "missing", &got), cache.ErrMiss)

	require.NoError(t, c.Set(ctx, "k", entry{Name: "alice"}))
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "alice", got.Name)

	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &got), cache.ErrMiss)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := cache.NewRedisCache(ctx, "127.0.0.1:1", time.Minute)
	assert.Error(t, err)
}
