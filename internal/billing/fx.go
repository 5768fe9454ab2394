package billing

import (
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(service.NewService),
)
