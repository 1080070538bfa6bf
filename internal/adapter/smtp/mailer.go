// Package smtp implements the mailer port over SMTP using go-mail.
package smtp

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/contactd/contactd/internal/config"
)

// Mailer sends transactional account mail.
type Mailer struct {
	cfg config.Mail
}

// New creates a Mailer from SMTP configuration.
func New(cfg config.Mail) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendVerification mails an address-confirmation link.
func (m *Mailer) SendVerification(ctx context.Context, to, username, baseURL, token string) error {
	link := baseURL + "/api/v1/auth/confirm/" + token
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Welcome! Please confirm your email address by following "+
			"<a href=%q>this link</a>.</p><p>The link expires in a few days.</p>",
		username, link)
	return m.send(ctx, to, "Confirm your account", body)
}

// SendPasswordReset mails a password-reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, username, baseURL, token string) error {
	link := baseURL + "/reset-password?token=" + token
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>A password reset was requested for your account. "+
			"<a href=%q>Choose a new password</a>.</p>"+
			"<p>If you did not request this, you can ignore this message.</p>",
		username, link)
	return m.send(ctx, to, "Reset your password", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	}
	if m.cfg.SSL {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
