package contact

import (
	"fmt"
	"strings"

	"github.com/sungwon/contact-relay/internal/mailer"
)

// ComposeConfig carries the fixed identities used for every outbound email.
type ComposeConfig struct {
	// FromName and FromAddress form the service identity in the From header.
	FromName    string
	FromAddress string
	// Recipient is the configured inbox that receives all submissions.
	Recipient string
}

// Compose renders the submission into an outbound message. The sender is the
// fixed service identity; reply-to points at the submitter so replies reach
// them directly. The body is rendered as both plain text and HTML, with
// message newlines becoming <br> tags in the HTML form.
func (s *Submission) Compose(cfg ComposeConfig) *mailer.Message {
	var text strings.Builder
	fmt.Fprintf(&text, "New contact form submission\n\n")
	fmt.Fprintf(&text, "Name: %s\n", s.Name)
	fmt.Fprintf(&text, "Email: %s\n", s.Email)
	if s.Phone != "" {
		fmt.Fprintf(&text, "Phone: %s\n", s.Phone)
	}
	fmt.Fprintf(&text, "\n%s\n", s.Message)

	var html strings.Builder
	html.WriteString("<h2>New Contact Form Submission</h2>\n")
	fmt.Fprintf(&html, "<p><strong>Name:</strong> %s</p>\n", s.Name)
	fmt.Fprintf(&html, "<p><strong>Email:</strong> %s</p>\n", s.Email)
	if s.Phone != "" {
		fmt.Fprintf(&html, "<p><strong>Phone:</strong> %s</p>\n", s.Phone)
	}
	fmt.Fprintf(&html, "<p><strong>Message:</strong></p>\n<p>%s</p>\n",
		strings.ReplaceAll(s.Message, "\n", "<br>\n"))

	return &mailer.Message{
		FromName:    cfg.FromName,
		FromAddress: cfg.FromAddress,
		ReplyTo:     s.Email,
		To:          cfg.Recipient,
		Subject:     s.subjectOrDefault(),
		Text:        text.String(),
		HTML:        html.String(),
	}
}
