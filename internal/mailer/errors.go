package mailer

import (
	"errors"

	"github.com/emersion/go-smtp"
)

// Category is a user-facing classification of a transport failure.
type Category string

const (
	// CategoryAuth covers rejected credentials and missing authentication.
	CategoryAuth Category = "auth"
	// CategoryEnvelope covers rejected sender or recipient addresses.
	CategoryEnvelope Category = "envelope"
	// CategoryGeneric covers everything else, including network faults.
	CategoryGeneric Category = "generic"
)

// SendError wraps a transport failure with its user-facing category.
// Detail carries the raw transport text and must never be shown to callers
// in production mode.
type SendError struct {
	Category Category
	Detail   string
	err      error
}

func (e *SendError) Error() string {
	return "send failed (" + string(e.Category) + "): " + e.Detail
}

func (e *SendError) Unwrap() error {
	return e.err
}

// UserMessage returns the fixed caller-safe message for the error category.
func (e *SendError) UserMessage() string {
	switch e.Category {
	case CategoryAuth:
		return "Email service authentication failed. Please contact the site administrator."
	case CategoryEnvelope:
		return "The message could not be addressed. Please check your email address."
	default:
		return "Failed to send your message. Please try again later."
	}
}

// Classify maps a transport error onto a SendError. SMTP reply codes decide
// the category; anything that is not an SMTP protocol error is generic.
func Classify(err error) *SendError {
	if err == nil {
		return nil
	}

	category := CategoryGeneric
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		switch smtpErr.Code {
		case 530, 534, 535, 538:
			category = CategoryAuth
		case 501, 503, 510, 512, 513, 550, 551, 552, 553:
			category = CategoryEnvelope
		}
	}

	return &SendError{
		Category: category,
		Detail:   err.Error(),
		err:      err,
	}
}
