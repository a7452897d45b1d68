package mail

import (
	"github.com/tasknest/tasknest/config"
	"github.com/tasknest/tasknest/services/logging"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(ProvideMailService),
)

func ProvideMailService(cfg *config.Config, logger *logging.Service) (*Service, error) {
	return NewService(&cfg.Mail, &cfg.App, logger)
}
