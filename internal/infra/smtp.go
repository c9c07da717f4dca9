package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/venky2821/finalproject/internal/config"

	"github.com/jordan-wright/email"
)

// Attachment is an in-memory file sent along with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outbound email.
type Message struct {
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer sends plain-text email through an authenticated SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configured reports whether SMTP credentials were provided.
func (m *Mailer) Configured() bool { return m.user != "" && m.password != "" }

func (m *Mailer) Send(msg Message) error {
	if !m.Configured() {
		return fmt.Errorf("mailer: SMTP credentials not configured")
	}
	e := buildEmail(m.user, msg)
	for _, a := range msg.Attachments {
		if _, err := e.Attach(bytes.NewReader(a.Data), a.Filename, a.ContentType); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", a.Filename, err)
		}
	}
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}

func buildEmail(from string, msg Message) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = msg.To
	e.Subject = msg.Subject
	e.Text = []byte(msg.Body)
	return e
}
