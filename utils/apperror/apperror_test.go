package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("BAD_INPUT", "bad input"), fiber.StatusBadRequest},
		{Authentication("TOKEN_EXPIRED", "expired"), fiber.StatusUnauthorized},
		{Authorization("FORBIDDEN", "no"), fiber.StatusForbidden},
		{Conflict("DUPLICATE_EMAIL", "taken"), fiber.StatusConflict},
		{NotFound("USER_NOT_FOUND", "gone"), fiber.StatusNotFound},
		{Transient("STORE_UNAVAILABLE", "down"), fiber.StatusBadGateway},
		{Internal("boom"), fiber.StatusInternalServerError},
		{errors.New("untagged"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := StatusOf(tc.err); got != tc.status {
			t.Errorf("StatusOf(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(Conflict("DUPLICATE_EMAIL", "taken")); got != "DUPLICATE_EMAIL" {
		t.Errorf("expected DUPLICATE_EMAIL, got %s", got)
	}
	if got := CodeOf(errors.New("plain")); got != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR for untagged, got %s", got)
	}
}

func TestMessageOfHidesUntaggedDetails(t *testing.T) {
	if got := MessageOf(errors.New("pq: connection refused")); got != "Internal server error" {
		t.Errorf("untagged error leaked its message: %q", got)
	}
	if got := MessageOf(Validation("BAD_INPUT", "Title is required")); got != "Title is required" {
		t.Errorf("expected tagged message, got %q", got)
	}
}

func TestWrapPreservesTagAndCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Transient("STORE_UNAVAILABLE", "Failed to load user").Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
	if KindOf(err) != KindTransient {
		t.Errorf("expected KindTransient, got %v", KindOf(err))
	}

	// Tagged errors survive another layer of fmt wrapping
	outer := fmt.Errorf("refresh: %w", err)
	if CodeOf(outer) != "STORE_UNAVAILABLE" {
		t.Errorf("expected code to survive wrapping, got %s", CodeOf(outer))
	}
}
