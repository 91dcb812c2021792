package cache

import (
	"context"
	"testing"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAvailableKey(t *testing.T) {
	assert.Equal(t, "seats:available:42", availableKey(42))
}

func TestNewRedisClient_EmptyAddr(t *testing.T) {
	assert.Nil(t, NewRedisClient(utils.RedisConfig{}, zap.NewNop()))
}

func TestNewSeatCache_DegradesToNoop(t *testing.T) {
	log := zap.NewNop()

	assert.Equal(t, Noop{}, NewSeatCache(nil, time.Minute, log))

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()
	assert.Equal(t, Noop{}, NewSeatCache(client, 0, log))
	assert.IsType(t, &redisSeatCache{}, NewSeatCache(client, time.Minute, log))
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	c := Noop{}

	_, ok := c.Version(ctx, 1)
	assert.False(t, ok)
	assert.False(t, c.Set(ctx, 1, 0, []entity.ShowSeat{{ID: 1, Label: "A01"}}))
	seats, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	assert.Nil(t, seats)
	c.Invalidate(ctx, 1, 2)
}

func newTestCache(t *testing.T) (*miniredis.Miniredis, SeatCache) {
	t.Helper()

	server := miniredis.RunT(t)
	client := NewRedisClient(utils.RedisConfig{Addr: server.Addr()}, zap.NewNop())
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	return server, NewSeatCache(client, time.Minute, zap.NewNop())
}

func TestRedisSeatCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	server, c := newTestCache(t)

	_, ok := c.Get(ctx, 7)
	assert.False(t, ok)

	version, ok := c.Version(ctx, 7)
	require.True(t, ok)
	assert.Zero(t, version)

	seats := []entity.ShowSeat{{ID: 1, ShowID: 7, Label: "A01", PriceCents: 1000}}
	require.True(t, c.Set(ctx, 7, version, seats))

	got, ok := c.Get(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, seats, got)

	server.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, 7)
	assert.False(t, ok, "entries expire after the ttl")
}

func TestRedisSeatCache_InvalidateVoidsOlderVersion(t *testing.T) {
	ctx := context.Background()
	server, c := newTestCache(t)

	before, ok := c.Version(ctx, 7)
	require.True(t, ok)
	require.True(t, c.Set(ctx, 7, before, []entity.ShowSeat{{ID: 1, Label: "A01"}}))

	// a booking commits while a reader is still on the old list
	c.Invalidate(ctx, 7, 8)
	_, ok = c.Get(ctx, 7)
	assert.False(t, ok)

	assert.False(t, c.Set(ctx, 7, before, []entity.ShowSeat{{ID: 1, Label: "A01"}}))
	_, ok = c.Get(ctx, 7)
	assert.False(t, ok, "a list read before the invalidation is never cached")

	after, ok := c.Version(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, before+1, after)
	assert.True(t, c.Set(ctx, 7, after, []entity.ShowSeat{}))

	ttl := server.TTL(versionKey(8))
	assert.Equal(t, versionTTL, ttl)
}

func TestRedisSeatCache_ServerDown(t *testing.T) {
	ctx := context.Background()
	server, c := newTestCache(t)
	server.Close()

	_, ok := c.Version(ctx, 7)
	assert.False(t, ok)
	assert.False(t, c.Set(ctx, 7, 0, []entity.ShowSeat{}))
	_, ok = c.Get(ctx, 7)
	assert.False(t, ok)
	c.Invalidate(ctx, 7)
}
