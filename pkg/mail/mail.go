// Package mail delivers outbound email (password reset links).
//
// Drivers, picked by MAIL_DRIVER:
//   - "smtp":   net/smtp, implicit TLS on port 465, STARTTLS otherwise
//   - "log":    writes the message to the application log (development)
//
// Usage:
//
//	mailer := mail.FromConfig()
//	err := mailer.Send(ctx, mail.Message{To: []string{u.Email}, Subject: "...", Text: body})
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"sync"

	"github.com/shashiranjanraj/backoffice/config"
	"github.com/shashiranjanraj/backoffice/pkg/logger"
)

// Message is one plain-text email.
type Message struct {
	To      []string
	Subject string
	Text    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// FromConfig returns the MAIL_DRIVER mailer ("log" by default).
func FromConfig() Mailer {
	if config.Get("MAIL_DRIVER", "log") == "smtp" {
		return NewSMTP(DefaultSMTP())
	}
	return Log{}
}

// ------------------- SMTP -------------------

// SMTPConfig holds connection credentials (populated from env/config).
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func DefaultSMTP() SMTPConfig {
	return SMTPConfig{
		Host:     config.Get("MAIL_HOST", "localhost"),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
		From:     config.Get("MAIL_FROM", "webmaster@localhost"),
		FromName: config.Get("MAIL_FROM_NAME", "Back Office"),
	}
}

// SMTP sends through an SMTP relay.
type SMTP struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) *SMTP { return &SMTP{cfg: cfg} }

func (s *SMTP) Send(ctx context.Context, m Message) error {
	if len(m.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	cfg := s.cfg
	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	dialer := &net.Dialer{}
	var conn net.Conn
	var err error
	if cfg.Port == "465" {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: cfg.Host}}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: handshake: %w", err)
	}
	defer client.Close()

	if cfg.Port != "465" {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
				return fmt.Errorf("mail: starttls: %w", err)
			}
		}
	}
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}
	if err := client.Mail(cfg.From); err != nil {
		return err
	}
	for _, rcpt := range m.To {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildRaw(fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From), m)); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildRaw(from string, m Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(m.To, ", ") + "\r\n")
	b.WriteString("Subject: " + m.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.Text, "\n", "\r\n"))
	return []byte(b.String())
}

// ------------------- Log / Memory -------------------

// Log writes messages to the application log instead of sending them.
type Log struct{}

func (Log) Send(ctx context.Context, m Message) error {
	logger.WithCtx(ctx).Info("mail", "to", strings.Join(m.To, ","), "subject", m.Subject, "body", m.Text)
	return nil
}

// Memory records messages; used by tests.
type Memory struct {
	mu   sync.Mutex
	sent []Message
}

func (mm *Memory) Send(_ context.Context, m Message) error {
	mm.mu.Lock()
	mm.sent = append(mm.sent, m)
	mm.mu.Unlock()
	return nil
}

// Sent returns a copy of every recorded message.
func (mm *Memory) Sent() []Message {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return append([]Message(nil), mm.sent...)
}
