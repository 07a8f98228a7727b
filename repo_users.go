package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the Bun-backed UserStore.
type Users interface {
	UserStore
}

type users struct {
	repo             repository.Repository[*User]
	db               *bun.DB
	deterministicIDs bool
}

var _ Users = (*users)(nil)

type UsersOption func(*users)

// WithDeterministicIDs derives user IDs from the email instead of minting
// random UUIDs, which keeps IDs stable across environment rebuilds.
func WithDeterministicIDs() UsersOption {
	return func(u *users) {
		u.deterministicIDs = true
	}
}

func NewUsersRepository(db *bun.DB, opts ...UsersOption) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	repoUsers := &users{
		repo: repo,
		db:   db,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repoUsers)
		}
	}

	return repoUsers
}

func (a *users) Add(ctx context.Context, email, passwordHash string) (*User, error) {
	record := &User{
		Email:        email,
		PasswordHash: passwordHash,
	}
	if a.deterministicIDs {
		if id, err := hashid.NewUUID(email); err == nil {
			record.ID = id
		}
	}
	prepareUserDefaults(record)

	created, err := a.repo.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("add %q: %w", email, ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("add %q: %v: %w", email, err, ErrStoreUnavailable)
	}

	return created, nil
}

func (a *users) FindBy(ctx context.Context, field QueryField, value string) (*User, error) {
	if !field.valid() {
		return nil, fmt.Errorf("find by %q: %w", field, ErrInvalidQuery)
	}

	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", string(field)), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("find by %s: %w", field, ErrUserRecordNotFound)
		}
		return nil, fmt.Errorf("find by %s: %v: %w", field, err, ErrStoreUnavailable)
	}

	return record, nil
}

func (a *users) Update(ctx context.Context, id uuid.UUID, patch UserPatch) error {
	if patch.empty() {
		return fmt.Errorf("update %s: %w", id, ErrInvalidField)
	}

	q := a.db.NewUpdate().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id)

	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
	}
	if patch.PasswordHash != nil {
		q = q.Set("password_hash = ?", *patch.PasswordHash)
	}
	if tok, set := patch.SessionToken.Set(); set {
		q = q.Set("session_token = ?", tok)
	}
	if tok, set := patch.ResetToken.Set(); set {
		q = q.Set("reset_token = ?", tok)
	}
	q = q.Set("updated_at = ?", time.Now())

	res, err := q.Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update %s: %w", id, ErrDuplicateEmail)
		}
		return fmt.Errorf("update %s: %v: %w", id, err, ErrStoreUnavailable)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %v: %w", id, err, ErrStoreUnavailable)
	}

	if affected == 0 {
		return fmt.Errorf("update %s: %w", id, ErrUserRecordNotFound)
	}

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

func isRecordNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation matches the constraint error strings of the SQLite and
// Postgres drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
