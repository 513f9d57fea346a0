package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInconsistent matches every *InternalConsistencyError.
	ErrInconsistent = errors.New("internal consistency violated")
)

// ValidationError reports caller input that cannot be split.
// The request is rejected and no state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InternalConsistencyError signals corrupted upstream data, such as an
// expense whose payer is not on the roster or balances that do not net to
// zero. It is never corrected automatically.
type InternalConsistencyError struct {
	Detail string
	Err    error
}

func (e *InternalConsistencyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("internal consistency: %s: %v", e.Detail, e.Err)
	}
	return "internal consistency: " + e.Detail
}

func (e *InternalConsistencyError) Unwrap() error {
	return e.Err
}

func (e *InternalConsistencyError) Is(target error) bool {
	return target == ErrInconsistent
}
