package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLen = 16
	keyLen  = 64

	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// HashPassword derives a scrypt digest from the password under a fresh
// random salt and returns it as "<hex-digest>.<hex-salt>".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// ComparePasswords re-derives the digest from the supplied password and
// the stored salt and compares in constant time. Malformed stored values
// fail the comparison rather than erroring.
func ComparePasswords(password, stored string) bool {
	digestHex, saltHex, ok := strings.Cut(stored, ".")
	if !ok {
		return false
	}
	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, len(digest))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(digest, key) == 1
}

// GenerateToken returns 32 random bytes hex-encoded, used as the opaque
// session token handed to clients.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
