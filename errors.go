package auth

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Store-level sentinels. Implementations of UserStore must return these
// (possibly wrapped) so callers can classify failures with errors.Is.

// ErrUserRecordNotFound is returned by UserStore lookups with zero matches.
var ErrUserRecordNotFound = errors.New("user record not found")

// ErrDuplicateEmail is returned by UserStore.Add when the email is taken.
var ErrDuplicateEmail = errors.New("email already present in store")

// ErrInvalidQuery is returned when a lookup names an unsupported field.
var ErrInvalidQuery = errors.New("unsupported query field")

// ErrInvalidField is returned when an update carries no applicable fields.
var ErrInvalidField = errors.New("no valid fields in update")

// ErrStoreUnavailable signals a backend failure, as opposed to a lookup
// miss. Never conflate the two: a flaky database must not read as
// "user does not exist".
var ErrStoreUnavailable = errors.New("user store unavailable")

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = errors.New("password must not be empty")

// Text codes attached to domain errors surfaced to the HTTP facade.
const (
	TextCodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	TextCodeUserNotFound       = "USER_NOT_FOUND"
	TextCodeInvalidResetToken  = "INVALID_RESET_TOKEN"
)

// ErrEmailAlreadyExists is returned by Register when the email is taken.
var ErrEmailAlreadyExists = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailAlreadyExists)

// ErrUserNotFound is returned by RequestPasswordReset for unknown emails.
// This is the one flow that deliberately reveals account existence.
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound)

// ErrInvalidResetToken is returned by CompletePasswordReset when the token
// does not resolve to a user.
var ErrInvalidResetToken = goerrors.New("invalid or expired password reset token", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidResetToken)

// IsEmailAlreadyExists reports whether err is the duplicate-registration error.
func IsEmailAlreadyExists(err error) bool {
	return hasTextCode(err, TextCodeEmailAlreadyExists)
}

// IsUserNotFound reports whether err is the reset-request miss error.
func IsUserNotFound(err error) bool {
	return hasTextCode(err, TextCodeUserNotFound)
}

// IsInvalidResetToken reports whether err is the stale-reset-token error.
func IsInvalidResetToken(err error) bool {
	return hasTextCode(err, TextCodeInvalidResetToken)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}
