package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// generatedPasswordLength is the length of auto-provisioned passwords.
const generatedPasswordLength = 12

// GeneratePassword creates a random password for auto-provisioned accounts.
func GeneratePassword() (string, error) {
	return GenerateRandomString(generatedPasswordLength)
}

// GenerateRandomString returns a hex-encoded random string of the given length.
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", fmt.Errorf("generate random string: %w", err)
	}
	return hex.EncodeToString(bytes)[:length], nil
}
