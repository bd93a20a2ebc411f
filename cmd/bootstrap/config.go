package bootstrap

import (
	"rentwheels/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.PaymentConfig { return cfg.Payment },
		func(cfg config.Config) config.RateLimitConfig { return cfg.RateLimit },
		func(cfg config.Config) config.ReconcilerConfig { return cfg.Reconciler },
	),
)
