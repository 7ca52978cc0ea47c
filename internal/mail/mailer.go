// Package mail sends transactional email over SMTP.
package mail

import (
	"fmt"

	"inkwell/internal/config"

	"gopkg.in/gomail.v2"
)

// Message is a single outbound email.
type Message struct {
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers messages to the site operators.
type Mailer interface {
	Send(msg Message) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

// NewSMTPMailer builds a Mailer that delivers through the configured
// SMTP relay.
func NewSMTPMailer(cfg *config.Config) Mailer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return &smtpMailer{
		dialer: d,
		from:   cfg.MailFrom,
		to:     cfg.ContactEmail,
	}
}

func (m *smtpMailer) Send(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", m.to)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}
	return nil
}
