package scheduling

import (
	"context"

	"talentmatch/internal/config"
	"talentmatch/internal/errors"

	"github.com/wneessen/go-mail"
)

// Mailer dispatches invitation emails over SMTP
type Mailer struct {
	cfg    config.SMTPConfig
	logger *errors.Logger
}

// NewMailer creates a mailer when dispatch is enabled and credentials are
// present; otherwise it returns nil and invitations are composed only.
func NewMailer(cfg config.SMTPConfig, logger *errors.Logger) *Mailer {
	if !cfg.DispatchEnabled {
		return nil
	}
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		logger.Warn("SMTP dispatch enabled but credentials are incomplete; dispatch disabled")
		return nil
	}
	return &Mailer{cfg: cfg, logger: logger}
}

// Send delivers one plain-text message
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return errors.NewNotificationError(errors.ErrCodeNotificationFailed,
			"Invalid SMTP from address", err)
	}
	if err := msg.To(to); err != nil {
		return errors.NewNotificationError(errors.ErrCodeNotificationFailed,
			"Invalid recipient address", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return errors.NewNotificationError(errors.ErrCodeNotificationFailed,
			"Failed to create SMTP client", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.NewNotificationError(errors.ErrCodeNotificationFailed,
			"Failed to send invitation email", err)
	}

	m.logger.Info("Invitation email dispatched", "to", to, "subject", subject)
	return nil
}
