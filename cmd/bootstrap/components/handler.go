package components

import (
	"rentwheels/internal/handler"
	"rentwheels/internal/handler/api"
	"rentwheels/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
		middleware.NewBookingRateLimiter,
	),
	fx.Invoke(handler.NewRouter),
)
