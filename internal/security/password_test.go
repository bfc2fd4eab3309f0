package security

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "testPassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "" {
		t.Error("HashPassword() returned empty string")
	}

	if hash == password {
		t.Error("HashPassword() returned unhashed password")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "correct horse battery staple"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !CheckPassword(password, hash) {
		t.Error("CheckPassword() rejected the correct password")
	}

	if CheckPassword("wrong password", hash) {
		t.Error("CheckPassword() accepted a wrong password")
	}

	if CheckPassword(password, "not-a-hash") {
		t.Error("CheckPassword() accepted a malformed hash")
	}
}

func TestCSRFTokenRoundTrip(t *testing.T) {
	gen := NewCSRFGenerator("secret-key")

	token, err := gen.GenerateToken("session-123")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if !gen.ValidateToken("session-123", token) {
		t.Error("ValidateToken() rejected its own token")
	}

	if gen.ValidateToken("session-456", token) {
		t.Error("ValidateToken() accepted a token for another session")
	}

	if gen.ValidateToken("session-123", "") {
		t.Error("ValidateToken() accepted an empty token")
	}
}
