package errors

import "fmt"

var (
	ErrNotFound   = fmt.Errorf("record not found")
	ErrConflict   = fmt.Errorf("record already exists")
	ErrBadRequest = fmt.Errorf("invalid request")

	// ErrStalePrecondition signals a guarded write that lost a race. Expected
	// under concurrent manual and automatic assignment, never logged as an error.
	ErrStalePrecondition = fmt.Errorf("record changed concurrently")
)

// HttpError carries a user-facing message and status code across the
// service/controller boundary. Err keeps the technical cause for logs only.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
