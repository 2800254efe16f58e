// Package errs defines the error taxonomy shared by the access, ledger and storage layers.
//
// Every public operation either succeeds or fails with an error that matches
// exactly one of the sentinels below via errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("permission denied")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("invalid input")
	ErrNotImplemented  = errors.New("not implemented")
	ErrConflict        = errors.New("already exists")
	ErrStore           = errors.New("store failure")
)

// Validation returns an ErrValidation with a formatted reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns an ErrNotFound naming the missing entity.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

// Forbidden returns an ErrForbidden with a formatted reason.
func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// Store wraps a persistence failure so that it matches both ErrStore and the cause.
// Errors that already carry a taxonomy sentinel are returned unchanged.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if Classified(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

// Classified reports whether err already matches one of the sentinels.
func Classified(err error) bool {
	for _, target := range []error{ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrValidation, ErrNotImplemented, ErrConflict, ErrStore} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
