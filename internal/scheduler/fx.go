package scheduler

import (
	"context"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("scheduler",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
	fx.Invoke(RunScheduler),
)

func RunScheduler(lc fx.Lifecycle, cfg config.Config, sched *Scheduler) {
	if !cfg.SchedulerEnabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sched.StartAll(ctx)
		},
		OnStop: func(context.Context) error {
			sched.StopAll()
			return nil
		},
	})
}
