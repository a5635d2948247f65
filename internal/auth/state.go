package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// NewState returns a random OAuth state value.
func NewState() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
