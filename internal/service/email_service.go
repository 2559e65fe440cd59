package service

import (
	"context"

	"campaign-be/internal/config"
	apperrors "campaign-be/pkg/errors"
	"campaign-be/pkg/logger"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// EmailService sends campaign emails over SMTP
type EmailService struct {
	host     string
	port     int
	sender   string
	password string
	logger   *logger.Logger
}

func NewEmailService(cfg *config.Config, log *logger.Logger) *EmailService {
	return &EmailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		sender:   cfg.SenderEmail,
		password: cfg.EmailAppPassword,
		logger:   log.Named("email"),
	}
}

// Send delivers a single plain-text email to one recipient
func (s *EmailService) Send(ctx context.Context, recipient, subject, body string) error {
	if s.sender == "" || s.password == "" {
		return apperrors.NewConfigurationError("SMTP credentials are not configured")
	}

	msg := mail.NewMsg()
	if err := msg.From(s.sender); err != nil {
		return apperrors.NewInternalError("invalid sender address", err)
	}
	if err := msg.To(recipient); err != nil {
		return apperrors.NewValidationError("invalid recipient address", map[string]interface{}{
			"recipient": recipient,
		})
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.sender),
		mail.WithPassword(s.password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return apperrors.NewInternalError("failed to create SMTP client", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Warn("SMTP delivery failed",
			zap.String("recipient", recipient),
			zap.Error(err))
		return apperrors.NewExternalError("failed to send email", err)
	}

	s.logger.Debug("Email sent", zap.String("recipient", recipient))
	return nil
}
