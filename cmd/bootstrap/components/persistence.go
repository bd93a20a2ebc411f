package components

import (
	"rentwheels/internal/infra/cache"
	"rentwheels/internal/infra/readstore"
	"rentwheels/internal/infra/repository"
	"rentwheels/internal/infra/uow"
	"rentwheels/internal/pkg/config"
	"rentwheels/internal/usecase/queries"
	"rentwheels/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		// Booking write side
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(shared.BookingRepository)),
		),
		// Booking read side
		fx.Annotate(
			NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
		),
		// Vehicle catalog behind the Redis read-through cache
		fx.Annotate(
			NewVehicleCatalog,
			fx.As(new(shared.VehicleCatalog)),
		),
	),
)

func NewBookingReadStore(pool *pgxpool.Pool) *readstore.BookingReadStore {
	return readstore.NewBookingReadStore(pool)
}

func NewVehicleCatalog(pool *pgxpool.Pool, rdb *redis.Client, cfg config.Config) *cache.CachedVehicleCatalog {
	return cache.NewCachedVehicleCatalog(
		readstore.NewVehicleReadStore(pool),
		rdb,
		cfg.Redis.VehicleCacheTTL,
	)
}
