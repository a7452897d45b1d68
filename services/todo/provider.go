package todo

import (
	"github.com/tasknest/tasknest/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Options(
	fx.Provide(ProvideTodoService),
)

func ProvideTodoService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}
