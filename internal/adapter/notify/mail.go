package notify

import (
	"context"
	"crypto/tls"
	"fmt"

	"fasting/internal/domain"

	"gopkg.in/gomail.v2"
)

// MailConfig holds SMTP settings.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	// UseTLS selects STARTTLS; otherwise the connection is SSL from the start.
	UseTLS bool
}

// MailNotifier sends notifications by email.
type MailNotifier struct {
	cfg  MailConfig
	send func(m ...*gomail.Message) error
}

// NewMailNotifier creates a MailNotifier that dials the SMTP server for each
// message.
func NewMailNotifier(cfg MailConfig) *MailNotifier {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = !cfg.UseTLS
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &MailNotifier{cfg: cfg, send: d.DialAndSend}
}

// newMailNotifierWithSender sends through s instead of dialing.
func newMailNotifierWithSender(cfg MailConfig, s gomail.Sender) *MailNotifier {
	return &MailNotifier{cfg: cfg, send: func(m ...*gomail.Message) error { return gomail.Send(s, m...) }}
}

// Notify implements domain.Notifier.
func (n *MailNotifier) Notify(ctx context.Context, msg domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To)
	m.SetHeader("Subject", msg.Title)
	m.SetBody("text/plain", msg.Body)

	if err := n.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
