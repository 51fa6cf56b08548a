package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Message is one rendered mail: subject plus HTML body.
type Message struct {
	Subject string
	HTML    string
}

// Sender delivers a single message to a single recipient. The SMTP
// implementation is below; tests substitute a recording fake.
type Sender interface {
	Send(ctx context.Context, to string, msg Message) error
}

// SMTPConfig configures the upstream mail relay.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	// From is the envelope sender (MAIL FROM), a raw mailbox address.
	From string
	// FromName is an optional display name used only for the header.
	FromName string
}

// SMTPSender sends HTML mail through a plain SMTP relay with optional
// PLAIN auth. The relay's own connection timeout bounds a hung send.
type SMTPSender struct {
	config SMTPConfig
	auth   smtp.Auth
}

func NewSMTPSender(config SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if config.User != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.User, config.Password, config.Host)
	}
	return &SMTPSender{config: config, auth: auth}
}

// Configured reports whether a relay host is set. An unconfigured sender
// lets local development run without a mail provider.
func (s *SMTPSender) Configured() bool {
	return s.config.Host != "" && s.config.From != ""
}

func (s *SMTPSender) Send(_ context.Context, to string, msg Message) error {
	if !s.Configured() {
		return fmt.Errorf("smtp sender not configured")
	}

	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)

	fromHeader := s.config.From
	if strings.TrimSpace(s.config.FromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	lines := []string{
		fmt.Sprintf("From: %s", sanitizeHeader(fromHeader)),
		fmt.Sprintf("To: %s", sanitizeHeader(to)),
		fmt.Sprintf("Subject: %s", sanitizeHeader(msg.Subject)),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"",
		msg.HTML,
	}
	body := []byte(strings.Join(lines, "\r\n"))

	if err := smtp.SendMail(addr, s.auth, s.config.From, []string{to}, body); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// sanitizeHeader strips CRLF to prevent header injection.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}

var _ Sender = (*SMTPSender)(nil)
