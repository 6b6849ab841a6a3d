package crypto

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Secret123!" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt digest, got %q", hash)
	}
	if !VerifyPassword(hash, "Secret123!") {
		t.Fatal("VerifyPassword should accept the original password")
	}
	if VerifyPassword(hash, "secret123!") {
		t.Fatal("VerifyPassword should reject a different password")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Fatal("two hashes of the same password should differ")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))
	if !errors.Is(err, bcrypt.ErrPasswordTooLong) {
		t.Fatalf("expected bcrypt.ErrPasswordTooLong, got %v", err)
	}
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	if VerifyPassword("not-a-hash", "anything") {
		t.Fatal("VerifyPassword should reject a malformed hash")
	}
}
