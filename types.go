package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// PasswordHasher hashes secrets and verifies them in constant time.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches digest. A malformed digest
	// verifies false, it never raises.
	Verify(password, digest string) bool
}

// TokenGenerator mints opaque credential strings. Session and reset tokens
// share the same identifier space; only the User field they land in differs.
type TokenGenerator interface {
	NewToken() string
}

// UserStore is the persistence contract consumed by the authenticator.
// Implementations must return the store sentinels from errors.go and keep
// email, session token, and reset token unique.
type UserStore interface {
	Add(ctx context.Context, email, passwordHash string) (*User, error)
	FindBy(ctx context.Context, field QueryField, value string) (*User, error)
	Update(ctx context.Context, id uuid.UUID, patch UserPatch) error
}

// Config holds the facade options
type Config interface {
	GetSessionCookieName() string
	GetSessionDuration() int
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

type defConfig struct{}

func (defConfig) GetSessionCookieName() string { return DefaultSessionCookieName }
func (defConfig) GetSessionDuration() int      { return DefaultSessionDurationHours }

const (
	// DefaultSessionCookieName is the cookie carrying the session token.
	DefaultSessionCookieName = "session_id"
	// DefaultSessionDurationHours bounds the session cookie lifetime.
	DefaultSessionDurationHours = 24
)
