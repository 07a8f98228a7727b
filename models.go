package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the identity record. PasswordHash holds the bcrypt digest only;
// SessionToken and ResetToken are nil unless a session is active or a reset
// flow is pending. Both token columns carry unique indexes so a token can
// never resolve to more than one user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	SessionToken  *string    `bun:"session_token,unique,nullzero" json:"-"`
	ResetToken    *string    `bun:"reset_token,unique,nullzero" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasActiveSession reports whether the user currently holds a session token.
func (u *User) HasActiveSession() bool {
	return u != nil && u.SessionToken != nil && *u.SessionToken != ""
}

// HasPendingReset reports whether a password reset flow is in flight.
func (u *User) HasPendingReset() bool {
	return u != nil && u.ResetToken != nil && *u.ResetToken != ""
}

// QueryField enumerates the columns a UserStore lookup may match on.
// Anything else is an ErrInvalidQuery.
type QueryField string

const (
	QueryByID           QueryField = "id"
	QueryByEmail        QueryField = "email"
	QueryBySessionToken QueryField = "session_token"
	QueryByResetToken   QueryField = "reset_token"
)

func (f QueryField) valid() bool {
	switch f {
	case QueryByID, QueryByEmail, QueryBySessionToken, QueryByResetToken:
		return true
	}
	return false
}

// TokenPatch is a tri-state token mutation: leave untouched, set to a fresh
// value, or clear back to null.
type TokenPatch struct {
	set   bool
	value *string
}

// SetToken returns a patch that stores tok.
func SetToken(tok string) TokenPatch {
	return TokenPatch{set: true, value: &tok}
}

// ClearToken returns a patch that nulls the column.
func ClearToken() TokenPatch {
	return TokenPatch{set: true}
}

// Set reports whether the patch mutates the column, and with what value.
func (p TokenPatch) Set() (*string, bool) {
	return p.value, p.set
}

// UserPatch is the closed set of updatable fields. Nil pointer and unset
// token patches leave the column untouched; fields outside this struct are
// unrepresentable by construction.
type UserPatch struct {
	Email        *string
	PasswordHash *string
	SessionToken TokenPatch
	ResetToken   TokenPatch
}

func (p UserPatch) empty() bool {
	if p.Email != nil || p.PasswordHash != nil {
		return false
	}
	if _, set := p.SessionToken.Set(); set {
		return false
	}
	if _, set := p.ResetToken.Set(); set {
		return false
	}
	return true
}
