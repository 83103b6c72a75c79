package albums

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mberzins/discnote/internal/logging"
	"github.com/mberzins/discnote/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// redisCommands is the slice of go-redis used by the cache, so tests can
// substitute a fake.
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedGateway decorates a Gateway with a Redis read-through cache.
// Cache failures are logged and fall through to the inner gateway; the
// cache can only make lookups cheaper, never make them fail.
type CachedGateway struct {
	inner  Gateway
	rdb    redisCommands
	ttl    time.Duration
	logger logging.Logger
}

// NewCachedGateway wraps inner with a Redis cache using the given TTL.
func NewCachedGateway(inner Gateway, rdb redisCommands, ttl time.Duration, logger logging.Logger) *CachedGateway {
	return &CachedGateway{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(albumID string) string {
	return "album:" + albumID
}

func (g *CachedGateway) GetAlbum(ctx context.Context, albumID string) (*models.Album, error) {
	key := cacheKey(albumID)

	cached, err := g.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		album := &models.Album{}
		if jsonErr := json.Unmarshal(cached, album); jsonErr == nil {
			return album, nil
		}
		g.logger.Warn(ctx, "discarding malformed cache entry", "key", key)
	case errors.Is(err, redis.Nil):
		// cache miss
	default:
		g.logger.Warn(ctx, "album cache read failed", "key", key, "error", err.Error())
	}

	album, err := g.inner.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(album)
	if err == nil {
		if setErr := g.rdb.Set(ctx, key, payload, g.ttl).Err(); setErr != nil {
			g.logger.Warn(ctx, "album cache write failed", "key", key, "error", setErr.Error())
		}
	}

	return album, nil
}
