package auth

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Auther drives a user's credential lifecycle: registration, login, session
// issuance/revocation, and the password reset flow. It owns every User
// mutation; the store only persists what Auther decides.
//
// Error behavior is deliberately asymmetric. Authentication-check paths
// (Login, CreateSession, ResolveSession, DestroySession) fail closed and
// stay silent so they never reveal whether an account exists. Account
// management paths (Register, RequestPasswordReset, CompletePasswordReset)
// fail loud with named domain errors.
type Auther struct {
	store  UserStore
	hasher PasswordHasher
	tokens TokenGenerator
	logger Logger
}

// NewAuthenticator returns an Auther over the given store with the default
// bcrypt hasher and random token generator.
func NewAuthenticator(store UserStore) *Auther {
	return &Auther{
		store:  store,
		hasher: NewBcryptHasher(),
		tokens: NewRandomTokenGenerator(),
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithPasswordHasher overrides the hashing scheme.
func (s *Auther) WithPasswordHasher(hasher PasswordHasher) *Auther {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// WithTokenGenerator overrides the credential minting scheme.
func (s *Auther) WithTokenGenerator(tokens TokenGenerator) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// Register creates a user with a hashed secret. Returns
// ErrEmailAlreadyExists when the email is taken.
func (s *Auther) Register(ctx context.Context, email, password string) (*User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
	}

	user, err := s.store.Add(ctx, email, hash)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	return user, nil
}

// Login reports whether the credentials are valid. A missing account, a
// wrong password, and a store failure are indistinguishable to the caller.
func (s *Auther) Login(ctx context.Context, email, password string) bool {
	user, err := s.store.FindBy(ctx, QueryByEmail, email)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			s.logger.Error("Login store lookup failed", "error", err)
		}
		return false
	}

	return s.hasher.Verify(password, user.PasswordHash)
}

// CreateSession issues a fresh session token for the user, replacing and
// thereby invalidating any prior one. Returns "" when the user does not
// exist or the store fails.
func (s *Auther) CreateSession(ctx context.Context, email string) string {
	user, err := s.store.FindBy(ctx, QueryByEmail, email)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			s.logger.Error("CreateSession store lookup failed", "error", err)
		}
		return ""
	}

	token := s.tokens.NewToken()
	patch := UserPatch{SessionToken: SetToken(token)}
	if err := s.store.Update(ctx, user.ID, patch); err != nil {
		s.logger.Error("CreateSession token persist failed", "error", err)
		return ""
	}

	return token
}

// ResolveSession returns the user holding the session token, or nil. Empty
// input short-circuits without touching the store.
func (s *Auther) ResolveSession(ctx context.Context, sessionToken string) *User {
	if sessionToken == "" {
		return nil
	}

	user, err := s.store.FindBy(ctx, QueryBySessionToken, sessionToken)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			s.logger.Error("ResolveSession store lookup failed", "error", err)
		}
		return nil
	}

	return user
}

// DestroySession clears the user's session token. Idempotent: destroying an
// absent session, or the session of an unknown user, is a no-op.
func (s *Auther) DestroySession(ctx context.Context, userID uuid.UUID) {
	patch := UserPatch{SessionToken: ClearToken()}
	if err := s.store.Update(ctx, userID, patch); err != nil {
		if !errors.Is(err, ErrUserRecordNotFound) {
			s.logger.Error("DestroySession update failed", "error", err)
		}
	}
}

// RequestPasswordReset issues a reset token for the account, replacing any
// pending one. Unlike Login this path reveals non-existence: it returns
// ErrUserNotFound for unknown emails so the caller can say so.
func (s *Auther) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.store.FindBy(ctx, QueryByEmail, email)
	if err != nil {
		if errors.Is(err, ErrUserRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	token := s.tokens.NewToken()
	patch := UserPatch{ResetToken: SetToken(token)}
	if err := s.store.Update(ctx, user.ID, patch); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist reset token")
	}

	return token, nil
}

// CompletePasswordReset consumes the reset token: the new password is hashed
// and persisted, and the token cleared, in a single update. Returns
// ErrInvalidResetToken when the token does not resolve to a user.
func (s *Auther) CompletePasswordReset(ctx context.Context, resetToken, newPassword string) error {
	user, err := s.store.FindBy(ctx, QueryByResetToken, resetToken)
	if err != nil {
		if errors.Is(err, ErrUserRecordNotFound) {
			return ErrInvalidResetToken
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not retrieve password reset request")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	patch := UserPatch{
		PasswordHash: &hash,
		ResetToken:   ClearToken(),
	}
	if err := s.store.Update(ctx, user.ID, patch); err != nil {
		if errors.Is(err, ErrUserRecordNotFound) {
			return ErrInvalidResetToken
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password")
	}

	return nil
}
