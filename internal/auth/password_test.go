package auth

import "testing"

func TestHashPasswordFreshSalt(t *testing.T) {
	h1, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (fresh salt)")
	}
	if !CheckPassword("s3cret", h1) || !CheckPassword("s3cret", h2) {
		t.Error("verify should hold for both hashes")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword("correct horse", hash) {
		t.Error("expected match")
	}
	if CheckPassword("battery staple", hash) {
		t.Error("expected mismatch")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	// Malformed hashes must read as a mismatch, never panic or error.
	if CheckPassword("anything", "not-a-bcrypt-hash") {
		t.Error("malformed hash should never verify")
	}
	if CheckPassword("anything", "") {
		t.Error("empty hash should never verify")
	}
}
