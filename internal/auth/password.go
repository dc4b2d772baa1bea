package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters matching the stored hash format: 16-byte salt, 64-byte
// derived key, encoded as hex(salt):hex(key). Changing these invalidates
// every stored hash.
const (
	saltLength = 16
	keyLength  = 64
	scryptN    = 16384
	scryptR    = 8
	scryptP    = 1
)

// HashPassword derives a key from the password with a fresh random salt and
// returns the encoded salt:key pair. Two calls with the same password yield
// different encodings.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword re-derives the key from the candidate password and the
// stored salt and compares it against the stored key in constant time.
// A malformed stored hash fails verification instead of erroring.
func VerifyPassword(password, encodedHash string) (bool, error) {
	saltHex, keyHex, found := strings.Cut(encodedHash, ":")
	if !found {
		return false, nil
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, nil
	}
	storedKey, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, nil
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return false, fmt.Errorf("derive key: %w", err)
	}

	return subtle.ConstantTimeCompare(storedKey, key) == 1, nil
}

// HashResetToken returns the hex-encoded SHA-256 digest of a raw password
// reset token. Only this digest is ever persisted.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
