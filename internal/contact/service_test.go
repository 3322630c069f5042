package contact

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/emersion/go-smtp"
	"github.com/rs/zerolog"

	"github.com/sungwon/contact-relay/internal/mailer"
)

// stubSender records send attempts and returns a canned result or error.
type stubSender struct {
	sendCalls int
	lastMsg   *mailer.Message
	result    *mailer.Result
	err       error
}

func (s *stubSender) Send(_ context.Context, msg *mailer.Message) (*mailer.Result, error) {
	s.sendCalls++
	s.lastMsg = msg
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubSender) Verify(context.Context) error { return nil }

func newTestService(sender *stubSender) *Service {
	return NewService(sender, composeConfig(), zerolog.Nop())
}

func TestSubmit_Success(t *testing.T) {
	sender := &stubSender{result: &mailer.Result{MessageID: "id-123"}}
	svc := newTestService(sender)

	ack, err := svc.Submit(context.Background(), &Submission{
		Name:    "A",
		Email:   "a@b.com",
		Message: "hi",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if ack.MessageID != "id-123" {
		t.Errorf("expected message ID id-123, got %s", ack.MessageID)
	}
	if sender.sendCalls != 1 {
		t.Errorf("expected exactly one dispatch attempt, got %d", sender.sendCalls)
	}
}

func TestSubmit_InvalidSkipsDispatch(t *testing.T) {
	sender := &stubSender{result: &mailer.Result{MessageID: "id"}}
	svc := newTestService(sender)

	_, err := svc.Submit(context.Background(), &Submission{Email: "a@b.com", Message: "hi"})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if sender.sendCalls != 0 {
		t.Errorf("expected no dispatch attempt for invalid submission, got %d", sender.sendCalls)
	}
}

func TestSubmit_SanitizesBeforeCompose(t *testing.T) {
	sender := &stubSender{result: &mailer.Result{MessageID: "id"}}
	svc := newTestService(sender)

	_, err := svc.Submit(context.Background(), &Submission{
		Name:    "<script>",
		Email:   "a@b.com",
		Message: "hi",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if sender.lastMsg == nil {
		t.Fatal("expected a composed message")
	}
	if want := "&lt;script&gt;"; !strings.Contains(sender.lastMsg.HTML, want) {
		t.Errorf("expected composed html to contain %q", want)
	}
}

func TestSubmit_SubjectCannotInjectHeaders(t *testing.T) {
	sender := &stubSender{result: &mailer.Result{MessageID: "id"}}
	svc := newTestService(sender)

	_, err := svc.Submit(context.Background(), &Submission{
		Name:    "A",
		Email:   "a@b.com",
		Subject: "Hello\r\nBcc: attacker@evil.example",
		Message: "hi",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if sender.lastMsg == nil {
		t.Fatal("expected a composed message")
	}
	if strings.ContainsAny(sender.lastMsg.Subject, "\r\n") {
		t.Fatalf("subject reached the transport with a line break: %q", sender.lastMsg.Subject)
	}

	for _, line := range strings.Split(string(sender.lastMsg.Render("id")), "\r\n") {
		if strings.HasPrefix(line, "Bcc:") {
			t.Fatalf("rendered message carries an injected header: %q", line)
		}
	}
}

func TestSubmit_DispatchFailureClassified(t *testing.T) {
	sender := &stubSender{err: &smtp.SMTPError{Code: 535, Message: "bad credentials"}}
	svc := newTestService(sender)

	_, err := svc.Submit(context.Background(), &Submission{
		Name:    "A",
		Email:   "a@b.com",
		Message: "hi",
	})

	var sendErr *mailer.SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("expected SendError, got %v", err)
	}
	if sendErr.Category != mailer.CategoryAuth {
		t.Errorf("expected auth category, got %s", sendErr.Category)
	}
	if sender.sendCalls != 1 {
		t.Errorf("expected exactly one dispatch attempt, got %d", sender.sendCalls)
	}
}
