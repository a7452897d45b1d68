package mail

import (
	"fmt"
	"time"

	"github.com/tasknest/tasknest/config"
	"github.com/tasknest/tasknest/services/logging"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Service struct {
	config *config.MailConfig
	app    *config.AppConfig
	client *mail.Client
	logger *logging.Service
}

func NewService(cfg *config.MailConfig, app *config.AppConfig, logger *logging.Service) (*Service, error) {
	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
	}

	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username))
	}
	if cfg.Password != "" {
		clientOpts = append(clientOpts, mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		logger.Error("failed to create mail client",
			zap.Error(err),
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port))
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	logger.Info("mail service initialized", zap.String("host", cfg.Host), zap.Int("port", cfg.Port))

	return &Service{
		config: cfg,
		app:    app,
		client: client,
		logger: logger,
	}, nil
}

func (s *Service) SendVerificationMail(to, verificationURL string, expiry time.Duration) error {
	msg := mail.NewMsg()
	if err := msg.From(s.config.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(fmt.Sprintf("Verify your %s email address", s.app.Name))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Welcome to %s!\n\nPlease verify your email address within %s:\n\n%s\n",
		s.app.Name, expiry, verificationURL))

	if err := s.client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send verification mail: %w", err)
	}

	s.logger.Info("verification mail sent", zap.String("to", to))
	return nil
}
