package contact

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxSubjectLen = 100
	maxPhoneLen   = 20
	maxMessageLen = 1000

	defaultSubject = "General Inquiry"
)

// emailPattern accepts local@domain.tld: no whitespace, a single group before
// the @, and at least one dot after it.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission is one inbound contact-form request. It is decoded from the
// request body, sanitized, validated, consumed by exactly one dispatch
// attempt, and then discarded.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Sanitize escapes angle brackets in every field so submitted text cannot
// inject markup into the rendered email, and strips control characters so
// header-bound fields cannot smuggle CR/LF into the message header block.
// The message keeps its newlines; everything else becomes a single line.
// It runs before Validate.
func (s *Submission) Sanitize() {
	s.Name = stripControl(angleEscaper.Replace(s.Name))
	s.Email = stripControl(angleEscaper.Replace(s.Email))
	s.Subject = stripControl(angleEscaper.Replace(s.Subject))
	s.Phone = stripControl(angleEscaper.Replace(s.Phone))
	s.Message = stripBodyControl(angleEscaper.Replace(s.Message))
}

// stripControl removes every control character, including CR and LF.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// stripBodyControl normalizes line endings to LF and removes the remaining
// control characters except LF and TAB.
func stripBodyControl(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Validate checks presence, format, and length rules in a fixed order.
// The first failing rule wins; later rules are not evaluated.
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return missingField("name")
	}
	if strings.TrimSpace(s.Email) == "" {
		return missingField("email")
	}
	if !emailPattern.MatchString(s.Email) {
		return &ValidationError{
			Field:   "email",
			Code:    CodeInvalidEmail,
			Message: "a valid email address is required",
		}
	}
	if strings.TrimSpace(s.Message) == "" {
		return missingField("message")
	}
	if utf8.RuneCountInString(s.Message) > maxMessageLen {
		return &ValidationError{
			Field:   "message",
			Code:    CodeMessageTooLong,
			Message: "message must be 1000 characters or fewer",
		}
	}
	if utf8.RuneCountInString(s.Phone) > maxPhoneLen {
		return &ValidationError{
			Field:   "phone",
			Code:    CodePhoneTooLong,
			Message: "phone must be 20 characters or fewer",
		}
	}
	return nil
}

// subjectOrDefault returns the submission subject, falling back to a fixed
// default and truncating to the provider-safe length.
func (s *Submission) subjectOrDefault() string {
	subject := strings.TrimSpace(s.Subject)
	if subject == "" {
		subject = defaultSubject
	}
	if utf8.RuneCountInString(subject) > maxSubjectLen {
		subject = string([]rune(subject)[:maxSubjectLen])
	}
	return subject
}
