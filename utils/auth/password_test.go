package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := VerifyPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("expected matching password to verify: %v", err)
	}
	if err := VerifyPassword(hash, "wrong password"); err == nil {
		t.Error("expected mismatched password to fail")
	}
}

func TestHashPasswordRejectsShortPasswords(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("expected short password to be rejected")
	}
}

func TestHashingIsSalted(t *testing.T) {
	first, err := HashPassword("same password here")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("same password here")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ")
	}
}

func TestIsPasswordValid(t *testing.T) {
	if IsPasswordValid("1234567") {
		t.Error("7 characters should be invalid")
	}
	if !IsPasswordValid("12345678") {
		t.Error("8 characters should be valid")
	}
}

func TestGenerateVerificationToken(t *testing.T) {
	first, err := GenerateVerificationToken()
	if err != nil {
		t.Fatalf("GenerateVerificationToken failed: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(first))
	}

	second, err := GenerateVerificationToken()
	if err != nil {
		t.Fatalf("GenerateVerificationToken failed: %v", err)
	}
	if first == second {
		t.Error("tokens must be unique")
	}
}
