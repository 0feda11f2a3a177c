// Package sms delivers notifications over the SMS channel. No gateway is
// integrated yet, so messages are written to the structured log.
package sms

import (
	"context"
	"errors"
	"strings"

	"labourhub/internal/domain/notification"
	"labourhub/internal/platform/logging"
)

var ErrNoPhone = errors.New("recipient has no phone number")

type LogSender struct{}

func New() notification.Sender {
	return LogSender{}
}

func (LogSender) Send(ctx context.Context, to notification.Recipient, subject, body string) error {
	if strings.TrimSpace(to.Phone) == "" {
		return ErrNoPhone
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log := logging.WithComponent("sms")
	log.Info().
		Str("userId", to.UserID).
		Str("phone", to.Phone).
		Int("length", len(body)).
		Msg("sms dispatched")
	return nil
}
