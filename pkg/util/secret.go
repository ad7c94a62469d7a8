package util

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashSecret hashes an API key for storage in configuration.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifySecret checks a plain API key against its bcrypt hash.
func VerifySecret(hashed, secret string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}
