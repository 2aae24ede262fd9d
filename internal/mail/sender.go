package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// ErrDisabled indicates mail delivery is not configured.
var ErrDisabled = errors.New("mail: delivery disabled")

// Message is one transactional email with a rendered HTML body.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender is the notification collaborator. Failures are best-effort for
// callers: they surface as response flags, never as request errors.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	addr string
	from string
}

// NewSMTPSender constructs a sender for the given relay address.
func NewSMTPSender(addr, from string) *SMTPSender {
	return &SMTPSender{addr: addr, from: from}
}

// Send delivers one message through the relay.
func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	if strings.TrimSpace(s.addr) == "" {
		return ErrDisabled
	}
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("mail: recipient is required")
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", s.from)
	fmt.Fprintf(&body, "To: %s\r\n", msg.To)
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	return smtp.SendMail(s.addr, nil, s.from, []string{msg.To}, []byte(body.String()))
}

// Disabled is a Sender that always reports ErrDisabled. Used when no SMTP
// relay is configured so inquiry responses carry emailSent=false.
type Disabled struct{}

// Send always fails with ErrDisabled.
func (Disabled) Send(context.Context, Message) error {
	return ErrDisabled
}
