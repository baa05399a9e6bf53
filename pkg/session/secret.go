package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

const (
	secretBytes   = 32
	fragmentCount = 3
)

// generateSecret returns a fresh session secret, its three contiguous
// fragments and the SHA-256 hex of the whole secret. Fragments are for
// distribution to separate custodians; the secret only verifies when all
// of them are joined in order.
func generateSecret() (secret string, fragments [fragmentCount]string, hash string, err error) {
	buf := make([]byte, secretBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", fragments, "", err
	}

	secret = base64.RawURLEncoding.EncodeToString(buf)
	fragments = splitSecret(secret)
	return secret, fragments, hashSecret(secret), nil
}

// splitSecret cuts the secret into fragmentCount contiguous pieces of
// near-equal length. Joining them in order reproduces the secret exactly.
func splitSecret(secret string) [fragmentCount]string {
	var fragments [fragmentCount]string
	size := len(secret) / fragmentCount
	for i := 0; i < fragmentCount; i++ {
		start := i * size
		end := start + size
		if i == fragmentCount-1 {
			end = len(secret)
		}
		fragments[i] = secret[start:end]
	}
	return fragments
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
