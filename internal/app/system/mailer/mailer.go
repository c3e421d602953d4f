// internal/app/system/mailer/mailer.go
package mailer

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Mailer sends emails via SMTP.
type Mailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
	log      *zap.Logger
}

// Config holds the configuration for creating a Mailer.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// New creates a new Mailer with the given configuration.
func New(cfg Config, log *zap.Logger) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		pass:     cfg.Pass,
		from:     cfg.From,
		fromName: cfg.FromName,
		log:      log,
	}
}

// FromName returns the configured sender display name.
func (m *Mailer) FromName() string {
	return m.fromName
}

// Email represents an email to be sent.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Send delivers email, giving up when ctx is done. If HTMLBody is set the
// message is multipart/alternative with both versions.
func (m *Mailer) Send(ctx context.Context, email Email) error {
	msg := m.message(email)
	if err := m.deliver(ctx, email.To, msg); err != nil {
		m.log.Error("failed to send email",
			zap.String("to", email.To),
			zap.String("subject", headerValue(email.Subject)),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}
	m.log.Info("email sent",
		zap.String("to", email.To),
		zap.String("subject", headerValue(email.Subject)))
	return nil
}

// message renders the RFC 5322 message. Header values never contain CR or LF.
func (m *Mailer) message(email Email) []byte {
	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.from)
	}

	var msg bytes.Buffer
	header := func(k, v string) {
		msg.WriteString(k + ": " + headerValue(v) + "\r\n")
	}
	header("From", from)
	header("To", email.To)
	header("Subject", email.Subject)
	header("MIME-Version", "1.0")

	if email.HTMLBody == "" {
		header("Content-Type", "text/plain; charset=UTF-8")
		msg.WriteString("\r\n")
		msg.WriteString(email.TextBody)
		return msg.Bytes()
	}

	boundary := randomBoundary()
	header("Content-Type", `multipart/alternative; boundary="`+boundary+`"`)
	msg.WriteString("\r\n")
	for _, part := range []struct{ ctype, body string }{
		{"text/plain", email.TextBody},
		{"text/html", email.HTMLBody},
	} {
		msg.WriteString("--" + boundary + "\r\n")
		msg.WriteString("Content-Type: " + part.ctype + "; charset=UTF-8\r\n\r\n")
		msg.WriteString(part.body)
		msg.WriteString("\r\n")
	}
	msg.WriteString("--" + boundary + "--\r\n")
	return msg.Bytes()
}

// deliver runs one SMTP transaction. The connection deadline follows ctx, so
// a stalled server cannot hold the caller past its timeout.
func (m *Mailer) deliver(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}
	if m.user != "" && m.pass != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp: server doesn't support AUTH")
		}
		if err := c.Auth(smtp.PlainAuth("", m.user, m.pass, m.host)); err != nil {
			return err
		}
	}
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// headerValue folds line breaks to spaces so a value cannot start a new header.
func headerValue(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(strings.NewReplacer("\r", " ", "\n", " ").Replace(s)), " ")
}

// randomBoundary generates a random boundary string for multipart emails.
func randomBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return "----=_Part_" + hex.EncodeToString(b)
}
