package mailer

import (
	"strings"
	"testing"
)

func testMessage() *Message {
	return &Message{
		FromName:    "Contact Relay",
		FromAddress: "no-reply@example.com",
		ReplyTo:     "visitor@example.org",
		To:          "owner@example.com",
		Subject:     "General Inquiry",
		Text:        "Name: A\n\nhi",
		HTML:        "<p>Name: A</p>\n<p>hi</p>",
	}
}

func TestRender_Headers(t *testing.T) {
	raw := string(testMessage().Render("msg-1"))

	for _, want := range []string{
		"From: \"Contact Relay\" <no-reply@example.com>\r\n",
		"To: owner@example.com\r\n",
		"Reply-To: visitor@example.org\r\n",
		"Subject: General Inquiry\r\n",
		"Message-ID: <msg-1@example.com>\r\n",
		"MIME-Version: 1.0\r\n",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("rendered message missing header %q", want)
		}
	}
}

func TestRender_MultipartAlternative(t *testing.T) {
	raw := string(testMessage().Render("msg-2"))

	if !strings.Contains(raw, `Content-Type: multipart/alternative; boundary="part-msg-2"`) {
		t.Error("missing multipart/alternative content type")
	}
	if !strings.Contains(raw, "Content-Type: text/plain; charset=\"utf-8\"") {
		t.Error("missing text/plain part")
	}
	if !strings.Contains(raw, "Content-Type: text/html; charset=\"utf-8\"") {
		t.Error("missing text/html part")
	}
	if !strings.Contains(raw, "--part-msg-2--\r\n") {
		t.Error("missing closing boundary")
	}

	textIdx := strings.Index(raw, "text/plain")
	htmlIdx := strings.Index(raw, "text/html")
	if textIdx < 0 || htmlIdx < 0 || textIdx > htmlIdx {
		t.Error("expected text part before html part")
	}
}

func TestRender_CRLFBody(t *testing.T) {
	raw := string(testMessage().Render("msg-3"))
	if !strings.Contains(raw, "Name: A\r\n\r\nhi") {
		t.Error("expected body newlines converted to CRLF")
	}
}

func TestRender_NoReplyTo(t *testing.T) {
	msg := testMessage()
	msg.ReplyTo = ""
	raw := string(msg.Render("msg-4"))
	if strings.Contains(raw, "Reply-To:") {
		t.Error("unexpected Reply-To header for empty reply address")
	}
}

func TestAddrDomain(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"no-reply@example.com", "example.com"},
		{"a@b@c.io", "c.io"},
		{"invalid", "localhost"},
	}
	for _, tt := range tests {
		if got := addrDomain(tt.address); got != tt.want {
			t.Errorf("addrDomain(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}
