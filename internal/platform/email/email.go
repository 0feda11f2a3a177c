package email

import (
	"context"
	"errors"
	"strings"

	"gopkg.in/gomail.v2"

	"labourhub/internal/domain/notification"
	"labourhub/internal/platform/config"
	"labourhub/internal/platform/logging"
)

var ErrNoAddress = errors.New("recipient has no email address")

type noopSender struct{}

func (noopSender) Send(ctx context.Context, to notification.Recipient, subject, body string) error {
	log := logging.WithComponent("email")
	log.Debug().Str("userId", to.UserID).Msg("email delivery disabled, skipping")
	return nil
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpSender struct {
	from   string
	dialer dialer
}

func New(cfg config.Config) notification.Sender {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return noopSender{}
	}
	return &smtpSender{
		from:   cfg.EmailFrom,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

func (s *smtpSender) Send(ctx context.Context, to notification.Recipient, subject, body string) error {
	if strings.TrimSpace(to.Email) == "" {
		return ErrNoAddress
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dialer.DialAndSend(buildMessage(s.from, to, subject, body))
}

func buildMessage(from string, to notification.Recipient, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	if to.Name != "" {
		m.SetAddressHeader("To", to.Email, to.Name)
	} else {
		m.SetHeader("To", to.Email)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}
