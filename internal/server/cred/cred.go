// Package cred implements the credential store: one-way password digests and
// verification. The legacy format is an unsalted SHA-256 hex digest of the
// password bytes, kept for compatibility with stores migrated from the old
// system. New deployments should enable bcrypt digests instead; the two
// formats coexist because Verify picks the scheme from the stored digest.
package cred

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Store hashes and verifies passwords. It holds no state besides the scheme
// used for newly created digests; both functions are otherwise pure.
type Store struct {
	useBcrypt bool
}

// NewStore returns a credential store. When useBcrypt is true, Hash produces
// salted bcrypt digests; stored SHA-256 digests keep verifying either way.
func NewStore(useBcrypt bool) *Store {
	return &Store{useBcrypt: useBcrypt}
}

// Hash returns a one-way digest of the password.
func (s *Store) Hash(password string) (string, error) {
	if s.useBcrypt {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return sha256Hex(password), nil
}

// Verify reports whether candidate matches the stored digest. It never
// returns an error to the caller: any malformed digest simply fails to match.
func (s *Store) Verify(candidate, digest string) bool {
	if strings.HasPrefix(digest, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(sha256Hex(candidate)), []byte(digest)) == 1
}

func sha256Hex(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
