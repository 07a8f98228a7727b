package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryUserStore is a map-backed UserStore. It honors the same contract as
// the Bun repository, including email and token uniqueness, and is safe for
// concurrent use. Meant for tests and embedders without a database.
type MemoryUserStore struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*User
	byEmail   map[string]uuid.UUID
	bySession map[string]uuid.UUID
	byReset   map[string]uuid.UUID
}

var _ UserStore = (*MemoryUserStore)(nil)

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:      map[uuid.UUID]*User{},
		byEmail:   map[string]uuid.UUID{},
		bySession: map[string]uuid.UUID{},
		byReset:   map[string]uuid.UUID{},
	}
}

func (s *MemoryUserStore) Add(ctx context.Context, email, passwordHash string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return nil, fmt.Errorf("add %q: %w", email, ErrDuplicateEmail)
	}

	now := time.Now()
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}

	s.byID[user.ID] = user
	s.byEmail[email] = user.ID

	return cloneUser(user), nil
}

func (s *MemoryUserStore) FindBy(ctx context.Context, field QueryField, value string) (*User, error) {
	if !field.valid() {
		return nil, fmt.Errorf("find by %q: %w", field, ErrInvalidQuery)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		id uuid.UUID
		ok bool
	)

	switch field {
	case QueryByID:
		parsed, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("find by id %q: %w", value, ErrUserRecordNotFound)
		}
		id = parsed
		_, ok = s.byID[parsed]
	case QueryByEmail:
		id, ok = s.byEmail[value]
	case QueryBySessionToken:
		id, ok = s.bySession[value]
	case QueryByResetToken:
		id, ok = s.byReset[value]
	}

	if !ok {
		return nil, fmt.Errorf("find by %s: %w", field, ErrUserRecordNotFound)
	}

	return cloneUser(s.byID[id]), nil
}

func (s *MemoryUserStore) Update(ctx context.Context, id uuid.UUID, patch UserPatch) error {
	if patch.empty() {
		return fmt.Errorf("update %s: %w", id, ErrInvalidField)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("update %s: %w", id, ErrUserRecordNotFound)
	}

	if patch.Email != nil && *patch.Email != user.Email {
		if _, taken := s.byEmail[*patch.Email]; taken {
			return fmt.Errorf("update %s: %w", id, ErrDuplicateEmail)
		}
	}

	if tok, set := patch.SessionToken.Set(); set && tok != nil {
		if owner, taken := s.bySession[*tok]; taken && owner != id {
			return fmt.Errorf("update %s: session token conflict: %w", id, ErrStoreUnavailable)
		}
	}
	if tok, set := patch.ResetToken.Set(); set && tok != nil {
		if owner, taken := s.byReset[*tok]; taken && owner != id {
			return fmt.Errorf("update %s: reset token conflict: %w", id, ErrStoreUnavailable)
		}
	}

	if patch.Email != nil {
		delete(s.byEmail, user.Email)
		user.Email = *patch.Email
		s.byEmail[user.Email] = id
	}

	if patch.PasswordHash != nil {
		user.PasswordHash = *patch.PasswordHash
	}

	if tok, set := patch.SessionToken.Set(); set {
		if user.SessionToken != nil {
			delete(s.bySession, *user.SessionToken)
		}
		user.SessionToken = cloneToken(tok)
		if user.SessionToken != nil {
			s.bySession[*user.SessionToken] = id
		}
	}

	if tok, set := patch.ResetToken.Set(); set {
		if user.ResetToken != nil {
			delete(s.byReset, *user.ResetToken)
		}
		user.ResetToken = cloneToken(tok)
		if user.ResetToken != nil {
			s.byReset[*user.ResetToken] = id
		}
	}

	now := time.Now()
	user.UpdatedAt = &now

	return nil
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	out := *u
	out.SessionToken = cloneToken(u.SessionToken)
	out.ResetToken = cloneToken(u.ResetToken)
	return &out
}

func cloneToken(tok *string) *string {
	if tok == nil {
		return nil
	}
	v := *tok
	return &v
}
