package notification

import (
	"context"
	"fmt"

	"github.com/estodobien/ActiveGo/config"

	"github.com/wneessen/go-mail"
)

// Mailer sends a single plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer delivers over the configured SMTP relay.
type SMTPMailer struct{}

func (m *SMTPMailer) client() (*mail.Client, error) {
	cfg := config.AppConfig
	opts := []mail.Option{mail.WithPort(cfg.SMTPPort)}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}
	c, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not initialize smtp client: %w", err)
	}
	return c, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	c, err := m.client()
	if err != nil {
		return err
	}
	msg := mail.NewMsg()
	if err := msg.From(config.AppConfig.FromEmail); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
