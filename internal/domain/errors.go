package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a required context field is missing.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransport wraps network and response-decoding failures of the model call.
	ErrTransport = errors.New("transport failure")

	// ErrSideEffect wraps mailing-list and webhook failures. Logged only.
	ErrSideEffect = errors.New("side effect failure")
)

// ModelUnavailableError is returned when the model endpoint answers with a
// non-2xx status. The message format is relied upon by clients.
type ModelUnavailableError struct {
	StatusCode int
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("OpenAI API error: %d", e.StatusCode)
}

// IsModelUnavailable reports whether err is (or wraps) a ModelUnavailableError.
func IsModelUnavailable(err error) bool {
	var mu *ModelUnavailableError
	return errors.As(err, &mu)
}
