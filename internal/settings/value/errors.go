package value

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is matched by errors returned when stored text can not be
	// coerced to its declared type.
	ErrTypeMismatch = errors.New("setting value does not match its type")

	// ErrValidation is matched by errors returned when a value is rejected
	// before it is written.
	ErrValidation = errors.New("setting value is invalid")
)

// TypeMismatchError reports a stored value that can not be coerced.
type TypeMismatchError struct {
	Type ValueType
	Raw  string
	Err  error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("can not read %q as %s: %v", e.Raw, e.Type, e.Err)
}

// Unwrap returns the parse error.
func (e *TypeMismatchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTypeMismatch) match.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// ValidationError reports a value rejected by its type or its validation rule.
type ValidationError struct {
	Type   ValueType
	Rule   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("invalid value: does not match rule %q", e.Rule)
	}

	return fmt.Sprintf("invalid value for type %s: %s", e.Type, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
