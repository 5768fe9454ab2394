package approval

import (
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/approval/service"
	"go.uber.org/fx"
)

var Module = fx.Module("approval.service",
	fx.Provide(service.NewService),
)
