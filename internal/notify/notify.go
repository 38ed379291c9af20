// Package notify delivers applicant e-mail through SMTP, the asynq queue or the log.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/kirankshetty/Hackathon-sub000/internal/metrics"
)

var ErrNoRecipient = errors.New("message has no recipient")

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	ReplyTo string `json:"reply_to,omitempty"`
	// FromName overrides the display name of the sender.
	FromName string `json:"from_name,omitempty"`
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPNotifier sends synchronously through an SMTP relay.
type SMTPNotifier struct {
	addr string
	auth smtp.Auth
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(host, port, user, password, from string) *SMTPNotifier {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPNotifier{
		addr: host + ":" + port,
		auth: auth,
		from: from,
		send: smtp.SendMail,
	}
}

func (n *SMTPNotifier) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if err := n.send(n.addr, n.auth, n.from, []string{msg.To}, n.render(msg)); err != nil {
		metrics.MailDispatched.WithLabelValues("smtp", "error").Inc()
		return fmt.Errorf("smtp send: %w", err)
	}
	metrics.MailDispatched.WithLabelValues("smtp", "ok").Inc()
	return nil
}

func (n *SMTPNotifier) render(msg Message) []byte {
	from := n.from
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, n.from)
	}
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	if msg.ReplyTo != "" {
		b.WriteString("Reply-To: " + msg.ReplyTo + "\r\n")
	}
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// LogNotifier writes messages to the structured log. Development only.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	slog.Info("mail", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	metrics.MailDispatched.WithLabelValues("log", "ok").Inc()
	return nil
}
