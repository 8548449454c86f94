package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("Order not found")

	// ErrLiteratureNotFound is returned by the repository when at least
	// one requested literature id does not exist; the whole create is
	// rolled back.
	ErrLiteratureNotFound = errors.New("literature not found")
)

// ValidationError is a malformed or out-of-range request. It maps to a
// 400 with its message as the error body.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
