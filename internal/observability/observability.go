package observability

import (
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/config"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

var Module = fx.Module("observability",
	fx.Provide(NewLogger),
	metrics.Module,
)
