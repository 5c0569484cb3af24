package mailer

import (
	"fmt"

	"github.com/aitp-labs/aitp-server/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendHTML sends a single HTML email.
func (m *Mailer) SendHTML(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

// SendPasswordReset sends the reset link for the given token. The link is
// valid for as long as the token itself.
func (m *Mailer) SendPasswordReset(to, resetURL string) error {
	body := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Password Reset Request</h2>
			<p>You requested a password reset for your AI Travel Planner account.</p>
			<p>Click the link below to set a new password. This link is valid for 1 hour.</p>
			<p><a href="%s">Reset Password</a></p>
			<p style="color: #777; font-size: 12px;">If you didn't request this, you can safely ignore this email.</p>
			<p style="color: #999; font-size: 11px;">%s</p>
		</div>
	`, resetURL, resetURL)

	return m.SendHTML(to, "Reset Your Password", body)
}
