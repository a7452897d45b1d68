package jwt

import (
	"github.com/tasknest/tasknest/config"
	"github.com/tasknest/tasknest/services/logging"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(ProvideJWTService),
)

func ProvideJWTService(cfg *config.Config, logger *logging.Service) *Service {
	return NewService(cfg, logger)
}
