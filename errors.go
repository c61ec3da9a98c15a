package bufferstream

import (
	"errors"
	"fmt"
)

// ErrBadCallback is returned by the constructors when the transform is nil
// or does not have one of the accepted shapes.
var ErrBadCallback = errors.New("bufferstream: bad callback")

// PanicError is the terminal error of a stream whose transform panicked.
type PanicError struct {
	// Value is the value passed to panic.
	Value any
	// Stack is the stack trace captured when the panic was recovered.
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("bufferstream: transform panicked: %v", e.Value)
}

func badCallback(fn any) error {
	if fn == nil {
		return fmt.Errorf("%w: nil transform", ErrBadCallback)
	}
	return fmt.Errorf("%w: unsupported transform type %T", ErrBadCallback, fn)
}
