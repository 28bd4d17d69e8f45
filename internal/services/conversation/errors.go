package conversation

import "errors"

var (
	// ErrRequestInFlight is returned by Submit while an answer is pending.
	ErrRequestInFlight = errors.New("a request is already in flight")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("invalid input")
)

// ValidationError carries the message shown beside the input field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
