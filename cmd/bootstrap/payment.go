package bootstrap

import (
	"rentwheels/internal/infra/payment"
	"rentwheels/internal/usecase/commands"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		fx.Annotate(
			payment.NewRazorpayGateway,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)
