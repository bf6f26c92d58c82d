package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const apiKeyChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// APIKeyLength is fixed: keys are opaque 12-character alphanumeric strings
// issued once at signup.
const APIKeyLength = 12

// GenerateAPIKey draws a new tenant API key from crypto/rand.
func GenerateAPIKey() (string, error) {
	key := make([]byte, APIKeyLength)
	max := big.NewInt(int64(len(apiKeyChars)))
	for i := range key {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate api key: %w", err)
		}
		key[i] = apiKeyChars[n.Int64()]
	}
	return string(key), nil
}
