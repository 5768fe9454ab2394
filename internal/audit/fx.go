package audit

import (
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/audit/repository"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
