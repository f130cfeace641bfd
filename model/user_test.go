package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserJSONNeverExposesSecrets(t *testing.T) {
	token := "a1b2c3d4"
	expires := time.Now().Add(24 * time.Hour)
	user := User{
		Email:               "alice@example.com",
		Password:            "$2a$12$somebcrypthashvalue",
		FirstName:           "Alice",
		LastName:            "Smith",
		VerificationToken:   &token,
		VerificationExpires: &expires,
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	body := string(data)
	if strings.Contains(body, "bcrypthash") {
		t.Error("password hash leaked into JSON")
	}
	if strings.Contains(body, "a1b2c3d4") {
		t.Error("verification token leaked into JSON")
	}
	if !strings.Contains(body, "alice@example.com") {
		t.Error("expected email in JSON")
	}
}

func TestUserBeforeCreateNormalizes(t *testing.T) {
	user := User{Email: "MixedCase@Example.COM"}
	if err := user.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate failed: %v", err)
	}
	if user.Email != "mixedcase@example.com" {
		t.Errorf("expected lowercased email, got %s", user.Email)
	}
	if user.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected a generated UUID")
	}
}

func TestFullName(t *testing.T) {
	user := User{FirstName: "Alice", LastName: "Smith"}
	if user.FullName() != "Alice Smith" {
		t.Errorf("unexpected full name: %q", user.FullName())
	}
	only := User{FirstName: "Cher"}
	if only.FullName() != "Cher" {
		t.Errorf("unexpected full name: %q", only.FullName())
	}
}

func TestIsVerificationExpired(t *testing.T) {
	token := "tok"

	past := time.Now().Add(-time.Minute)
	expired := User{VerificationToken: &token, VerificationExpires: &past}
	if !expired.IsVerificationExpired() {
		t.Error("past expiry should count as expired")
	}

	future := time.Now().Add(time.Hour)
	fresh := User{VerificationToken: &token, VerificationExpires: &future}
	if fresh.IsVerificationExpired() {
		t.Error("future expiry should not count as expired")
	}

	if !(&User{}).IsVerificationExpired() {
		t.Error("missing token should count as expired")
	}
}
