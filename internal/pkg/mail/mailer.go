package mail

import (
	"Blips/internal/api/config"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	gomail "gopkg.in/mail.v2"
)

var ErrNotConfigured = errors.New("email service is not configured")

// Mailer sends HTML mail
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type smtpMailer struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg config.EmailConfig) Mailer {
	s := &smtpMailer{cfg: cfg}
	if cfg.Host != "" {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
		d.Timeout = 20 * time.Second
		d.SSL = cfg.SSL
		d.TLSConfig = &tls.Config{ServerName: cfg.Host}
		s.dialer = d
	}
	return s
}

func (s *smtpMailer) Enabled() bool {
	return s.dialer != nil
}

func (s *smtpMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		log.ErrorContext(ctx, "failed to send email", "to", to, "err", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.InfoContext(ctx, "email sent", "to", to, "subject", subject)
	return nil
}
