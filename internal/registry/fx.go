package registry

import (
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/registry/service"
	"go.uber.org/fx"
)

var Module = fx.Module("registry.service",
	fx.Provide(service.NewService),
)
