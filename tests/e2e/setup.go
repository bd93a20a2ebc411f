//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"rentwheels/internal/domain/booking"
	"rentwheels/internal/handler"
	"rentwheels/internal/handler/api"
	"rentwheels/internal/handler/middleware"
	"rentwheels/internal/infra/cache"
	"rentwheels/internal/infra/db"
	"rentwheels/internal/infra/readstore"
	"rentwheels/internal/infra/repository"
	"rentwheels/internal/infra/uow"
	"rentwheels/internal/pkg/clock"
	"rentwheels/internal/pkg/config"
	"rentwheels/internal/pkg/jwt"
	"rentwheels/internal/usecase"
	"rentwheels/internal/usecase/commands"
	"rentwheels/internal/usecase/queries"
	"rentwheels/tests/common/builder"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	containersOnce    sync.Once
	postgresContainer testcontainers.Container
	redisContainer    testcontainers.Container

	testUser     = "test"
	testPassword = "testpass"
)

// fakeGateway replaces the payment provider so the HTTP flow can run without
// external calls. Set failNext to make the next intent creation fail.
type fakeGateway struct {
	mu       sync.Mutex
	seq      int
	failNext bool
}

func (g *fakeGateway) CreateIntent(_ context.Context, _ commands.PaymentIntentInput) (*commands.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failNext {
		g.failNext = false
		return nil, fmt.Errorf("gateway unavailable")
	}
	g.seq++
	redirect := fmt.Sprintf("https://pay.example.com/l/%d", g.seq)
	return &commands.PaymentIntent{
		ID:          fmt.Sprintf("plink_e2e_%d", g.seq),
		RedirectURL: &redirect,
	}, nil
}

func (g *fakeGateway) GetIntent(_ context.Context, id string) (*commands.PaymentIntent, error) {
	return &commands.PaymentIntent{ID: id}, nil
}

// testApp is a fully wired HTTP application backed by real Postgres and Redis
// containers, with the payment gateway and clock substituted.
type testApp struct {
	Router  *gin.Engine
	Pool    *pgxpool.Pool
	Clock   *clock.MockClock
	Gateway *fakeGateway
	JWT     *jwt.Service
}

func setupTestApp(t *testing.T, mutate func(cfg *config.Config)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	startContainersOnce(t)

	cfg := config.NewTestConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	pool := newTestDatabase(t)
	rdb := newRedisClient(t)

	clk := clock.NewMockClock(builder.BaseTime)
	gateway := &fakeGateway{}

	unit := uow.NewPostgresUoW(pool)
	catalog := cache.NewCachedVehicleCatalog(readstore.NewVehicleReadStore(pool), rdb, cfg.Redis.VehicleCacheTTL)
	cmds := commands.NewBookingCommands(
		unit,
		repository.NewBookingRepository(),
		catalog,
		gateway,
		booking.NewFactory(clk),
		clk,
		cfg.Payment,
	)
	qrs := queries.NewBookingQueries(readstore.NewBookingReadStore(pool))

	jwtService := jwt.NewService(cfg.JWT.Secret, 15*time.Minute)
	authMiddleware := middleware.NewAuthMiddleware(usecase.NewTokenValidator(jwtService))
	rateLimiter := middleware.NewBookingRateLimiter(rdb, cfg.RateLimit)

	engine := gin.New()
	handler.NewRouter(engine, cfg, api.NewBookingHandler(cmds, qrs), authMiddleware, rateLimiter)

	return &testApp{
		Router:  engine,
		Pool:    pool,
		Clock:   clk,
		Gateway: gateway,
		JWT:     jwtService,
	}
}

func newTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	host, port := containerHostPort(t, postgresContainer, "5432/tcp")
	dbName := "e2e_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, host, port)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err)
	defer adminPool.Close()

	_, err = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
	require.NoError(t, err)

	pool, cleanup, err := db.Connect(ctx, config.DBConfig{
		Host:     host,
		Port:     port,
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		MaxConns: 20,
	})
	require.NoError(t, err)
	t.Cleanup(cleanup)

	sql, err := readMigration("migrations/001_init.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, sql)
	require.NoError(t, err)

	return pool
}

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	host, port := containerHostPort(t, redisContainer, "6379/tcp")
	rdb := redis.NewClient(&redis.Options{Addr: host + ":" + port})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, rdb.Ping(ctx).Err())

	return rdb
}

func readMigration(file string) (string, error) {
	candidates := []string{
		file,
		filepath.Join("..", file),
		filepath.Join("..", "..", file),
	}
	var lastErr error
	for _, cand := range candidates {
		b, err := os.ReadFile(cand)
		if err == nil {
			return string(b), nil
		}
		lastErr = err
	}
	return "", lastErr
}

func startContainersOnce(t *testing.T) {
	containersOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
		defer cancel()

		var err error
		postgresContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:17",
				ExposedPorts: []string{"5432/tcp"},
				Env: map[string]string{
					"POSTGRES_USER":     testUser,
					"POSTGRES_PASSWORD": testPassword,
					"POSTGRES_DB":       "postgres",
				},
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
				Cmd: []string{
					"postgres",
					"-c", "fsync=off",
					"-c", "full_page_writes=off",
					"-c", "synchronous_commit=off",
					"-c", "max_connections=200",
				},
				WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
						testUser, testPassword, host, port.Port())
				}).WithStartupTimeout(60 * time.Second),
			},
			Started: true,
		})
		require.NoError(t, err, "failed to start postgres container")

		redisContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
			},
			Started: true,
		})
		require.NoError(t, err, "failed to start redis container")

		// Containers are shared across the package run; the testcontainers
		// reaper removes them when the process exits.
	})
}

func containerHostPort(t *testing.T, c testcontainers.Container, port string) (string, string) {
	t.Helper()
	ctx := context.Background()
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)
	host, err := c.Host(ctx)
	require.NoError(t, err)
	return host, mapped.Port()
}
