package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
	Payment    PaymentConfig
	RateLimit  RateLimitConfig
	Reconciler ReconcilerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`

	VehicleCacheTTL time.Duration `envconfig:"REDIS_VEHICLE_CACHE_TTL" default:"5m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret              string `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenDuration string `envconfig:"JWT_ACCESS_TOKEN_DURATION" default:"15m"`
}

// PaymentConfig configures the payment gateway. The currency is fixed to a
// single ISO code for a deployment; multi-currency is out of scope.
type PaymentConfig struct {
	KeyID      string `envconfig:"PAYMENT_KEY_ID" required:"true"`
	KeySecret  string `envconfig:"PAYMENT_KEY_SECRET" required:"true"`
	Currency   string `envconfig:"PAYMENT_CURRENCY" default:"INR"`
	SuccessURL string `envconfig:"PAYMENT_SUCCESS_URL" required:"true"`
	FailureURL string `envconfig:"PAYMENT_FAILURE_URL" required:"true"`
}

// RateLimitConfig uses the limiter library's formatted notation,
// e.g. "10-M" for ten requests per minute.
type RateLimitConfig struct {
	BookingCreate string `envconfig:"RATE_LIMIT_BOOKING_CREATE" default:"10-M"`
}

type ReconcilerConfig struct {
	Schedule     string        `envconfig:"RECONCILER_SCHEDULE" default:"@every 5m"`
	StuckTimeout time.Duration `envconfig:"RECONCILER_STUCK_TIMEOUT" default:"15m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			MaxConns: 10,
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:              "test-secret",
			AccessTokenDuration: "15m",
		},
		Payment: PaymentConfig{
			KeyID:      "rzp_test_key",
			KeySecret:  "rzp_test_secret",
			Currency:   "INR",
			SuccessURL: "http://localhost:3000/payment/success",
			FailureURL: "http://localhost:3000/payment/failure",
		},
		Redis: RedisConfig{
			Addr:            "localhost:6379",
			VehicleCacheTTL: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			BookingCreate: "100-M",
		},
		Reconciler: ReconcilerConfig{
			Schedule:     "@every 5m",
			StuckTimeout: 15 * time.Minute,
		},
	}
}
