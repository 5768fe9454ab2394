package rate

import (
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/rate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.service",
	fx.Provide(service.NewService),
)
