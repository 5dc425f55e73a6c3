package util

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoOwnGroup         = errors.New("you do not have a group yet")
)

// OwnershipConflictError reports a violation of the one-group-per-teacher
// rule. It carries the names needed for a user-facing message and is
// recoverable: callers decide between rejecting outright and skipping the
// conflicting change.
type OwnershipConflictError struct {
	Teacher string
	Group   string
}

func (e *OwnershipConflictError) Error() string {
	return fmt.Sprintf("teacher %s already owns group %s", e.Teacher, e.Group)
}

// ValidationError marks malformed input to a mutation. The affected change
// is skipped; unrelated changes still proceed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsOwnershipConflict(err error) bool {
	var conflict *OwnershipConflictError
	return errors.As(err, &conflict)
}

func IsValidation(err error) bool {
	var invalid *ValidationError
	return errors.As(err, &invalid)
}
