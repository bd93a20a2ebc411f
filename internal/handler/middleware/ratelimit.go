package middleware

import (
	"log/slog"

	"rentwheels/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewBookingRateLimiter throttles booking creation per authenticated user.
// The limit is shared across instances through Redis. If the limiter cannot
// be constructed the middleware degrades to a pass-through; booking creation
// must not depend on Redis being up.
func NewBookingRateLimiter(rdb *redis.Client, cfg config.RateLimitConfig) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.BookingCreate)
	if err != nil {
		slog.Error("invalid booking rate limit, rate limiting disabled", "rate", cfg.BookingCreate, "error", err.Error())
		return func(c *gin.Context) { c.Next() }
	}

	store, err := redisstore.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix:          "ratelimit:bookings",
		MaxRetry:        3,
		CleanUpInterval: rate.Period,
	})
	if err != nil {
		slog.Error("failed to create rate limit store, rate limiting disabled", "error", err.Error())
		return func(c *gin.Context) { c.Next() }
	}

	instance := limiter.New(store, rate)

	return ginmiddleware.NewMiddleware(instance, ginmiddleware.WithKeyGetter(func(c *gin.Context) string {
		if userID, ok := GetUserID(c); ok {
			return userID.String()
		}
		return c.ClientIP()
	}))
}
