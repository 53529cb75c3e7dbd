package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status. Messages are shown to end users verbatim.
var (
	ErrUserExists         = errors.New("Username already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUnauthenticated    = errors.New("Unauthorized")
	ErrUserNotFound       = errors.New("User not found")
	ErrProjectNotFound    = errors.New("Project not found")
	ErrAccountLocked      = errors.New("Too many failed attempts. Try again later.")
	ErrInvalidInput       = errors.New("invalid input")
)

// ValidationError is a rejected form field. Message is surfaced to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation unwraps err into a ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
