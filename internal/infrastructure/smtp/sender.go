package smtp

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"NewsletterDigest/internal/config"
	"NewsletterDigest/internal/digest"
	"NewsletterDigest/internal/domain"
	"NewsletterDigest/internal/ports"
)

// Sender delivers rendered digests over SMTP with STARTTLS.
type Sender struct {
	server    string
	port      int
	from      string
	password  string
	recipient string
	renderer  *digest.Renderer
	logger    *slog.Logger

	// send is swappable for tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

var _ ports.DigestSender = (*Sender)(nil)

// NewSender wires the mailbox account and renderer. An empty recipient
// falls back to the account address itself.
func NewSender(mailbox config.MailboxConfig, recipient string, renderer *digest.Renderer, logger *slog.Logger) *Sender {
	if recipient == "" {
		recipient = mailbox.Address
	}
	return &Sender{
		server:    mailbox.SMTPServer,
		port:      mailbox.SMTPPort,
		from:      mailbox.Address,
		password:  mailbox.Password,
		recipient: recipient,
		renderer:  renderer,
		logger:    logger,
		send:      smtp.SendMail,
	}
}

// SendDigest renders and mails the categorized article set.
func (s *Sender) SendDigest(ctx context.Context, categorized domain.Categorized, summary string) error {
	if s.from == "" || s.password == "" {
		return fmt.Errorf("smtp sender misconfigured")
	}

	now := time.Now()
	html, err := s.renderer.Render(categorized, summary, now)
	if err != nil {
		return err
	}

	msg := buildMessage(s.from, s.recipient, digest.Subject(now), html)
	addr := fmt.Sprintf("%s:%d", s.server, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.server)

	if err := s.send(addr, auth, s.from, []string{s.recipient}, msg); err != nil {
		return fmt.Errorf("send digest mail: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("digest sent", "recipient", s.recipient)
	}
	return nil
}

func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}
