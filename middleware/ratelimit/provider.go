package ratelimit

import (
	"github.com/tasknest/tasknest/config"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(ProvideLimiters),
)

func ProvideLimiters(cfg *config.Config) *Limiters {
	return &Limiters{
		Identity: NewLimiter(cfg.RateLimit.AuthenticatedRate, cfg.RateLimit.Period),
		Address:  NewLimiter(cfg.RateLimit.AnonymousRate, cfg.RateLimit.Period),
	}
}
