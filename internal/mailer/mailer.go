// Package mailer delivers outbound transactional email over SMTP.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends transactional email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, fromName, resetLink string) error
}

// SMTPMailer sends mail through a plain SMTP relay (no auth, no TLS), the
// setup used by the local mail catcher in development and the internal relay
// in production.
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer creates a mailer pointed at host:port.
func NewSMTPMailer(host, port, from string) *SMTPMailer {
	return &SMTPMailer{
		addr: host + ":" + port,
		from: from,
	}
}

// SendPasswordReset emails the reset link to the user. The link contains the
// raw reset token, so it must never be logged here.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, fromName, resetLink string) error {
	var body strings.Builder
	body.WriteString("<p>You requested a password reset for your account.</p>\n")
	body.WriteString("<p>Please click on the following link to reset your password:</p>\n")
	fmt.Fprintf(&body, "<a href=%q>%s</a>\n", resetLink, resetLink)
	body.WriteString("<p>This link will expire in 1 hour.</p>\n")
	body.WriteString("<p>If you did not request this, please ignore this email.</p>\n")

	msg := fmt.Sprintf("From: %q <%s>\r\nTo: %s\r\nSubject: Password Reset Request\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		fromName, m.from, to, body.String())

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send password reset email to %s: %w", to, err)
	}
	return nil
}
