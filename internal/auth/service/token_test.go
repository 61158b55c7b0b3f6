package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/messagely/messagely/internal/auth/service"
	"github.com/messagely/messagely/internal/common/clock"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
)

func newTokenService(secret string) (*service.TokenService, *clock.MockClock) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return service.NewTokenService(secret, mockClock), mockClock
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens, _ := newTokenService(testSecret)

	token, err := tokens.Issue("alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("expected user alice, got %s", claims.Username)
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	tokens1, _ := newTokenService(testSecret)
	tokens2, _ := newTokenService("different-secret-key-at-least-32-bytes-long")

	token, err := tokens1.Issue("alice")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	_, err = tokens2.Verify(token)
	if !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Verify_Garbage(t *testing.T) {
	tokens, _ := newTokenService(testSecret)

	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tokens.Verify(tokenString); !errors.Is(err, commonerrors.ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", tokenString, err)
		}
	}
}

func TestTokenService_TokenDoesNotExpire(t *testing.T) {
	tokens, mockClock := newTokenService(testSecret)

	token, err := tokens.Issue("alice")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	mockClock.Advance(365 * 24 * time.Hour)

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("token must stay valid until the secret changes, got %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("expected user alice, got %s", claims.Username)
	}
}
