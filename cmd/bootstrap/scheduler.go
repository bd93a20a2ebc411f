package bootstrap

import (
	"context"

	"rentwheels/internal/jobs"
	"rentwheels/internal/pkg/clock"
	"rentwheels/internal/pkg/config"
	"rentwheels/internal/usecase/shared"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewReconciler,
	),
	fx.Invoke(StartScheduler),
)

func NewReconciler(uow shared.UnitOfWork, clk clock.Clock, cfg config.ReconcilerConfig) *jobs.Reconciler {
	return jobs.NewReconciler(uow, clk, cfg.StuckTimeout)
}

func StartScheduler(lc fx.Lifecycle, reconciler *jobs.Reconciler, cfg config.ReconcilerConfig) error {
	c := cron.New()

	_, err := c.AddFunc(cfg.Schedule, func() {
		reconciler.Run(context.Background())
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			<-c.Stop().Done()
			return nil
		},
	})

	return nil
}
