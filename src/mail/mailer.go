// Package mail sends notification emails over SMTP.
package mail

import (
	"fintrack-server/src/config"

	gomail "gopkg.in/gomail.v2"
)

// Sender delivers a single email. The alert notifier depends on this rather
// than a concrete dialer so tests can capture messages.
type Sender interface {
	Send(to, subject, body string) error
}

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg config.Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.FromEmail,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
