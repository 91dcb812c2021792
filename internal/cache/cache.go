package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SeatCache holds the available-seat list of a show. It is advisory: misses
// and failures fall through to the store, and writers invalidate after commit.
//
// Every Invalidate bumps the show's version. A reader takes the Version
// before it reads the store and hands it to Set, which drops the write when
// an invalidation happened in between.
type SeatCache interface {
	Get(ctx context.Context, showID int64) ([]entity.ShowSeat, bool)
	// Version returns false when the version cannot be read; callers must
	// not Set in that case.
	Version(ctx context.Context, showID int64) (int64, bool)
	Set(ctx context.Context, showID, version int64, seats []entity.ShowSeat) bool
	Invalidate(ctx context.Context, showIDs ...int64)
}

// NewRedisClient connects to cfg.Addr and returns nil when the address is
// empty or the server does not answer a ping.
func NewRedisClient(cfg utils.RedisConfig, log *zap.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, seat cache disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return nil
	}

	log.Info("Connected to Redis", zap.String("addr", cfg.Addr))
	return client
}

// NewSeatCache wraps client, or returns a noop cache when client is nil or
// ttl is not positive.
func NewSeatCache(client *redis.Client, ttl time.Duration, log *zap.Logger) SeatCache {
	if client == nil || ttl <= 0 {
		return Noop{}
	}
	return &redisSeatCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("cache", "seats")),
	}
}

func availableKey(showID int64) string {
	return fmt.Sprintf("seats:available:%d", showID)
}

func versionKey(showID int64) string {
	return fmt.Sprintf("seats:version:%d", showID)
}

// versionTTL keeps version keys well past any list entry they guard.
const versionTTL = 24 * time.Hour

type redisSeatCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func (c *redisSeatCache) Get(ctx context.Context, showID int64) ([]entity.ShowSeat, bool) {
	data, err := c.client.Get(ctx, availableKey(showID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Cache read failed", zap.Int64("show_id", showID), zap.Error(err))
		}
		return nil, false
	}

	var seats []entity.ShowSeat
	if err := json.Unmarshal(data, &seats); err != nil {
		c.log.Warn("Cache entry corrupt", zap.Int64("show_id", showID), zap.Error(err))
		return nil, false
	}
	return seats, true
}

func (c *redisSeatCache) Version(ctx context.Context, showID int64) (int64, bool) {
	version, err := c.client.Get(ctx, versionKey(showID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.log.Warn("Cache version read failed", zap.Int64("show_id", showID), zap.Error(err))
		return 0, false
	}
	return version, true
}

// Set writes the list only while the version key still holds version. WATCH
// aborts the write if an Invalidate lands between the check and EXEC.
func (c *redisSeatCache) Set(ctx context.Context, showID, version int64, seats []entity.ShowSeat) bool {
	data, err := json.Marshal(seats)
	if err != nil {
		c.log.Warn("Cache encode failed", zap.Int64("show_id", showID), zap.Error(err))
		return false
	}

	key := versionKey(showID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, availableKey(showID), data, c.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return true
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("Cache write skipped, list changed meanwhile", zap.Int64("show_id", showID))
	default:
		c.log.Warn("Cache write failed", zap.Int64("show_id", showID), zap.Error(err))
	}
	return false
}

var errStale = errors.New("seat cache version moved")

func (c *redisSeatCache) Invalidate(ctx context.Context, showIDs ...int64) {
	if len(showIDs) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range showIDs {
			pipe.Incr(ctx, versionKey(id))
			pipe.Expire(ctx, versionKey(id), versionTTL)
			pipe.Del(ctx, availableKey(id))
		}
		return nil
	})
	if err != nil {
		c.log.Warn("Cache invalidation failed", zap.Int64s("show_ids", showIDs), zap.Error(err))
	}
}

// Noop never hits.
type Noop struct{}

func (Noop) Get(context.Context, int64) ([]entity.ShowSeat, bool)      { return nil, false }
func (Noop) Version(context.Context, int64) (int64, bool)              { return 0, false }
func (Noop) Set(context.Context, int64, int64, []entity.ShowSeat) bool { return false }
func (Noop) Invalidate(context.Context, ...int64)                      {}
