package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a salted password hash. bcrypt embeds a random
// salt in the digest, so hashing the same input twice yields two different
// digests that both verify.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return err
	}
	return nil
}

// VerifyPassword reports whether password matches digest. Any failure,
// including a malformed digest, verifies false.
func VerifyPassword(password, digest string) bool {
	return ComparePasswordAndHash(password, digest) == nil
}

type bcryptHasher struct{}

var _ PasswordHasher = bcryptHasher{}

// NewBcryptHasher returns the default PasswordHasher.
func NewBcryptHasher() PasswordHasher {
	return bcryptHasher{}
}

func (bcryptHasher) Hash(password string) (string, error) {
	return HashPassword(password)
}

func (bcryptHasher) Verify(password, digest string) bool {
	return VerifyPassword(password, digest)
}
