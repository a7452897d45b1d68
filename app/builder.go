package app

import (
	"context"
	"fmt"
	"time"

	"github.com/tasknest/tasknest/config"
	"github.com/tasknest/tasknest/database"
	"github.com/tasknest/tasknest/handlers"
	"github.com/tasknest/tasknest/middleware/ratelimit"
	"github.com/tasknest/tasknest/models"
	"github.com/tasknest/tasknest/server"
	"github.com/tasknest/tasknest/services/auth"
	"github.com/tasknest/tasknest/services/jwt"
	"github.com/tasknest/tasknest/services/logging"
	"github.com/tasknest/tasknest/services/mail"
	"github.com/tasknest/tasknest/services/todo"
	"github.com/tasknest/tasknest/services/user"
	"go.uber.org/fx"
)

type AppBuilder struct {
	config    *config.Config
	models    []any
	fxOptions []fx.Option
	withMail  bool
	errors    []error
}

func NewApp() *AppBuilder {
	return &AppBuilder{
		models: []any{
			&models.User{},
			&models.Todo{},
			&models.EmailVerificationToken{},
		},
	}
}

func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	if cfg == nil {
		b.addError("config cannot be nil")
		return b
	}
	b.config = cfg
	return b
}

func (b *AppBuilder) WithAutoConfig() *AppBuilder {
	cfg := &config.Config{}
	if err := config.LoadConfig(cfg); err != nil {
		b.addError(fmt.Sprintf("failed to load config: %v", err))
		return b
	}
	b.config = cfg
	return b
}

// WithMail enables SMTP delivery of verification mails. Without it the auth
// service logs verification URLs instead.
func (b *AppBuilder) WithMail() *AppBuilder {
	b.withMail = true
	return b
}

func (b *AppBuilder) WithModels(extra ...any) *AppBuilder {
	b.models = append(b.models, extra...)
	return b
}

func (b *AppBuilder) WithFxOptions(opts ...fx.Option) *AppBuilder {
	b.fxOptions = append(b.fxOptions, opts...)
	return b
}

func (b *AppBuilder) Build() (*App, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("configuration errors: %v", b.errors)
	}

	if b.config == nil {
		if b.WithAutoConfig(); len(b.errors) > 0 {
			return nil, fmt.Errorf("configuration errors: %v", b.errors)
		}
	}

	logger, err := logging.NewLoggingService(b.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.ProvideDatabase(*b.config, database.WithModels(b.models...), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		config: b.config,
		logger: logger,
		db:     db,
	}

	options := []fx.Option{
		fx.Supply(b.config),
		fx.Supply(logger),
		fx.Supply(db),
		fx.NopLogger,
		jwt.Module,
		auth.Module,
		todo.Module,
		user.Module,
		ratelimit.Module,
		server.NewProvider(),
		fx.Provide(handlers.New),
	}

	// Without an SMTP host the auth service keeps its log-only delivery.
	if b.withMail && b.config.Mail.Host != "" {
		options = append(options,
			mail.Module,
			fx.Invoke(func(authSvc *auth.Service, mailSvc *mail.Service) {
				authSvc.SetMailService(mailSvc)
			}),
		)
	}

	options = append(options, fx.Invoke(registerTokenCleanup))

	options = append(options, b.fxOptions...)

	options = append(options,
		fx.Invoke(func(srv *server.Server, h *handlers.Handlers, limiters *ratelimit.Limiters) {
			h.Register(srv.Echo(), limiters)
		}),
		fx.Invoke(func(srv *server.Server) {
			app.server = srv
		}),
	)

	app.fx = fx.New(options...)

	return app, nil
}

func (b *AppBuilder) addError(msg string) {
	b.errors = append(b.errors, fmt.Errorf("%s", msg))
}

// registerTokenCleanup prunes expired verification tokens hourly for the
// lifetime of the application.
func registerTokenCleanup(lc fx.Lifecycle, authSvc *auth.Service, logger *logging.Service) {
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(time.Hour)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := authSvc.CleanupExpiredVerificationTokens(); err != nil && logger != nil {
							logger.Errorf("verification token cleanup failed: %v", err)
						}
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}
