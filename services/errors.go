// Package services implements the book-club operations. Every operation takes the database
// handle and the acting user explicitly; nothing is read from request or global state.
package services

import (
	"errors"

	"github.com/vnkhanh/bookclub-server/models"
)

var (
	ErrAuthentication = errors.New("authentication required")
	ErrPermission     = errors.New("permission denied")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrStaleState     = errors.New("stale state")
	ErrValidation     = errors.New("validation failed")
)

// Error is a user-facing failure. Kind is one of the sentinel errors above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Message returns the user-facing text of err, or "" if err is not a *Error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

func requireActor(actor *models.User) error {
	if actor == nil {
		return newError(ErrAuthentication, "Authentication required.")
	}
	return nil
}
