package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"rentwheels/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CachedVehicleCatalog is a read-through cache in front of the vehicle
// catalog. Rate data changes rarely and every booking attempt reads it, so a
// short TTL takes the read off the database without a dedicated invalidation
// path. Cache failures degrade to the underlying store.
type CachedVehicleCatalog struct {
	inner shared.VehicleCatalog
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedVehicleCatalog(inner shared.VehicleCatalog, rdb *redis.Client, ttl time.Duration) *CachedVehicleCatalog {
	return &CachedVehicleCatalog{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedVehicleCatalog) GetByID(ctx context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	key := cacheKey(id)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var snap shared.VehicleSnapshot
		if unmarshalErr := json.Unmarshal(raw, &snap); unmarshalErr == nil {
			return &snap, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		c.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("vehicle cache read failed", "vehicle_id", id.String(), "error", err.Error())
	}

	snap, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, marshalErr := json.Marshal(snap); marshalErr == nil {
		if setErr := c.rdb.Set(ctx, key, raw, c.ttl).Err(); setErr != nil {
			slog.Warn("vehicle cache write failed", "vehicle_id", id.String(), "error", setErr.Error())
		}
	}
	return snap, nil
}

func cacheKey(id uuid.UUID) string {
	return "vehicle:" + id.String()
}
