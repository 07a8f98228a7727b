package auth

import (
	"crypto/rand"
	"encoding/hex"
)

const tokenByteLength = 32

type randomTokens struct{}

var _ TokenGenerator = randomTokens{}

// NewRandomTokenGenerator returns the default TokenGenerator: 32 bytes from
// crypto/rand, hex encoded. Tokens are opaque, equality is their only
// semantic.
func NewRandomTokenGenerator() TokenGenerator {
	return randomTokens{}
}

func (randomTokens) NewToken() string {
	b := make([]byte, tokenByteLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process has no usable entropy
		// source; issuing a predictable credential is not an option.
		panic("auth: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
