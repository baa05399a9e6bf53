package session

import (
	"strings"
	"testing"
)

func TestGenerateSecret(t *testing.T) {
	secret, fragments, hash, err := generateSecret()
	if err != nil {
		t.Fatalf("generateSecret() error: %v", err)
	}

	if len(secret) != 43 { // 32 bytes, base64url without padding
		t.Errorf("secret length = %d, want 43", len(secret))
	}
	if joined := strings.Join(fragments[:], ""); joined != secret {
		t.Errorf("joined fragments %q != secret %q", joined, secret)
	}
	for i, f := range fragments {
		if f == "" {
			t.Errorf("fragment %d is empty", i)
		}
	}
	if hash != hashSecret(secret) {
		t.Error("returned hash does not match hashSecret(secret)")
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(hash))
	}
}

func TestGenerateSecretUnique(t *testing.T) {
	a, _, _, _ := generateSecret()
	b, _, _, _ := generateSecret()
	if a == b {
		t.Error("two generated secrets are identical")
	}
}

func TestSplitSecretContiguous(t *testing.T) {
	s := "abcdefghij" // 10 chars: 3+3+4
	fragments := splitSecret(s)
	if fragments[0] != "abc" || fragments[1] != "def" || fragments[2] != "ghij" {
		t.Errorf("splitSecret() = %v", fragments)
	}
}
