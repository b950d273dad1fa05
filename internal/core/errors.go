package core

// Error codes for domain errors.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeNotLoggedIn   = "not_logged_in"
	ErrCodeIdentityInUse = "identity_in_use"
	ErrCodeUnauthorized  = "unauthorized"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
