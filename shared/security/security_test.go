package security

import (
	"testing"
	"time"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash equals plaintext")
	}

	ok, err := VerifyPassword("s3cret-password", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashPassword("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical, salt missing")
	}
}

func TestGenerateNumericCode(t *testing.T) {
	for _, length := range []int{4, 6} {
		code, err := GenerateNumericCode(length)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != length {
			t.Errorf("len(%q) = %d, want %d", code, len(code), length)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Errorf("code %q contains non-digit %q", code, r)
			}
		}
	}
}

func TestCodeExpired(t *testing.T) {
	if CodeExpired(time.Now().Add(time.Minute)) {
		t.Error("future expiry reported as expired")
	}
	if !CodeExpired(time.Now().Add(-time.Minute)) {
		t.Error("past expiry reported as valid")
	}
}
