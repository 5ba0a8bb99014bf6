// Package mailer sends invitation emails. The SMTP transport is optional;
// without one, outbound mail is written to the log so development setups
// work end to end.
package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"studio-service/pkg/config"
)

// Mailer delivers invitation mail.
type Mailer interface {
	SendInvitation(to, studioName, inviteURL string) error
}

// New returns an SMTP mailer when a host is configured, otherwise a mailer
// that only logs.
func New(cfg config.SMTPConfig, log *zap.Logger) Mailer {
	if cfg.Host == "" {
		return &logMailer{log: log}
	}
	return NewSMTP(cfg)
}

// SMTP sends invitation mail through a gomail dialer.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(cfg config.SMTPConfig) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTP) SendInvitation(to, studioName, inviteURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("You have been invited to join %s", studioName))
	msg.SetBody("text/html", fmt.Sprintf(
		`<p>You have been invited to join the studio <strong>%s</strong>.</p>`+
			`<p><a href="%s">Accept the invitation</a></p>`+
			`<p>This invitation expires in 24 hours.</p>`,
		studioName, inviteURL))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send invitation mail: %w", err)
	}
	return nil
}

type logMailer struct {
	log *zap.Logger
}

func (m *logMailer) SendInvitation(to, studioName, inviteURL string) error {
	m.log.Info("invitation mail (no SMTP transport configured)",
		zap.String("to", to),
		zap.String("studio", studioName),
		zap.String("url", inviteURL))
	return nil
}
