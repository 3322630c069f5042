package contact

// ValidationCode identifies which rule a submission failed.
type ValidationCode string

const (
	CodeMissingField   ValidationCode = "missing_field"
	CodeInvalidEmail   ValidationCode = "invalid_email"
	CodeMessageTooLong ValidationCode = "message_too_long"
	CodePhoneTooLong   ValidationCode = "phone_too_long"
)

// ValidationError reports the first rule a submission failed. It is terminal
// for the request; validation failures are never retried.
type ValidationError struct {
	Field   string
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingField(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Code:    CodeMissingField,
		Message: field + " is required",
	}
}
