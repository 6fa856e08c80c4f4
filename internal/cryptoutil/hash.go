// Package cryptoutil wraps golang.org/x/crypto's hashing and password
// primitives behind a small stateless API so the Scheme-facing (base
// crypto) library doesn't deal with the underlying algorithms directly.
package cryptoutil

import (
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/blake2b"
)

// HashHex returns the lowercase hex digest of data under blake2b-256.
func HashHex(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// PasswordHash bcrypt-hashes a plaintext password at the default cost.
func PasswordHash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// PasswordVerify reports whether password matches a bcrypt hash produced
// by PasswordHash.
func PasswordVerify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
