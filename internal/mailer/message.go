package mailer

import (
	"bytes"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Message represents a composed email ready for dispatch. Both a plain-text
// and an HTML rendering of the body are carried so receiving clients can pick
// either.
type Message struct {
	FromName    string
	FromAddress string
	ReplyTo     string
	To          string
	Subject     string
	Text        string
	HTML        string
}

// Render produces the RFC 5322 wire form of the message as a
// multipart/alternative payload. The given id becomes the Message-ID.
func (m *Message) Render(id string) []byte {
	from := mail.Address{Name: m.FromName, Address: m.FromAddress}
	boundary := "part-" + id

	var buf bytes.Buffer
	writeHeader(&buf, "From", from.String())
	writeHeader(&buf, "To", m.To)
	if m.ReplyTo != "" {
		writeHeader(&buf, "Reply-To", m.ReplyTo)
	}
	writeHeader(&buf, "Subject", m.Subject)
	writeHeader(&buf, "Message-ID", fmt.Sprintf("<%s@%s>", id, addrDomain(m.FromAddress)))
	writeHeader(&buf, "Date", time.Now().Format(time.RFC1123Z))
	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", boundary))
	buf.WriteString("\r\n")

	writePart(&buf, boundary, "text/plain; charset=\"utf-8\"", m.Text)
	writePart(&buf, boundary, "text/html; charset=\"utf-8\"", m.HTML)
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	fmt.Fprintf(buf, "%s: %s\r\n", key, value)
}

func writePart(buf *bytes.Buffer, boundary, contentType, body string) {
	fmt.Fprintf(buf, "--%s\r\n", boundary)
	writeHeader(buf, "Content-Type", contentType)
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	buf.WriteString("\r\n")
}

func addrDomain(address string) string {
	if i := strings.LastIndexByte(address, '@'); i >= 0 {
		return address[i+1:]
	}
	return "localhost"
}
