package inputs

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownInput   = errors.New("input is not supported")
	ErrResolverClosed = errors.New("input resolver is shut down")
)

// GeneratorError is what every caller of a failed generated input sees.
// It is cached, so all callers receive the same value.
type GeneratorError struct {
	Input string
	Err   error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("failed to generate input %q: %v", e.Input, e.Err)
}

func (e *GeneratorError) Unwrap() error {
	return e.Err
}
