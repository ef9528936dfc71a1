package livestock

import (
	"errors"
	"fmt"
)

var (
	ErrNoAnimals        = errors.New("at least one animal is required")
	ErrInvalidAnimal    = errors.New("invalid animal data")
	ErrClientNotFound   = errors.New("client not found")
	ErrDuplicateTag     = errors.New("animal tag already exists")
	ErrAnimalNotFound   = errors.New("animal not found")
	ErrAnimalNotInStock = errors.New("animal is not in stock")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrExitNotFound     = errors.New("exit not found")
)

// workflowError gives a sentinel a message naming the offending record.
type workflowError struct {
	kind error
	msg  string
}

func (e *workflowError) Error() string { return e.msg }
func (e *workflowError) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...any) error {
	return &workflowError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
