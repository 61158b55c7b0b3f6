package commonerrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	commonerrors "github.com/messagely/messagely/internal/common/errors"
)

func TestDomainError_IsMatchesAfterWithCause(t *testing.T) {
	cause := fmt.Errorf("row not found")
	wrapped := commonerrors.ErrUnauthorized.WithCause(cause)

	if !errors.Is(wrapped, commonerrors.ErrUnauthorized) {
		t.Error("expected wrapped error to match its sentinel")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected wrapped error to expose its cause")
	}
	if errors.Is(wrapped, commonerrors.ErrForbidden) {
		t.Error("expected no match against a different code")
	}
}

func TestDomainError_WithCausePreservesEnvelope(t *testing.T) {
	wrapped := commonerrors.ErrUserNotFound.WithCause(fmt.Errorf("no rows"))

	if wrapped.Code() != commonerrors.ErrUserNotFound.Code() {
		t.Errorf("expected code %s, got %s", commonerrors.ErrUserNotFound.Code(), wrapped.Code())
	}
	if wrapped.HTTPStatus() != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", wrapped.HTTPStatus())
	}
	if wrapped.Message() != commonerrors.ErrUserNotFound.Message() {
		t.Errorf("expected message %q, got %q", commonerrors.ErrUserNotFound.Message(), wrapped.Message())
	}
}

func TestNewMissingFieldError(t *testing.T) {
	err := commonerrors.NewMissingFieldError("phone")

	de, ok := commonerrors.AsDomainError(err)
	if !ok {
		t.Fatal("expected a domain error")
	}
	if de.Code() != "MISSING_FIELD" {
		t.Errorf("expected code MISSING_FIELD, got %s", de.Code())
	}
	if de.HTTPStatus() != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", de.HTTPStatus())
	}
	if field, _ := de.Details()["field"].(string); field != "phone" {
		t.Errorf("expected field phone in details, got %q", field)
	}

	field, ok := commonerrors.IsMissingFieldError(err)
	if !ok || field != "phone" {
		t.Errorf("IsMissingFieldError = (%q, %v), want (phone, true)", field, ok)
	}
}

func TestIsMissingFieldError_OtherErrors(t *testing.T) {
	if _, ok := commonerrors.IsMissingFieldError(commonerrors.ErrUserNotFound); ok {
		t.Error("expected false for a different domain error")
	}
	if _, ok := commonerrors.IsMissingFieldError(fmt.Errorf("plain")); ok {
		t.Error("expected false for a plain error")
	}
}

func TestAsDomainError_WrappedInChain(t *testing.T) {
	err := fmt.Errorf("handler: %w", commonerrors.ErrUsernameTaken)

	de, ok := commonerrors.AsDomainError(err)
	if !ok {
		t.Fatal("expected a domain error inside the chain")
	}
	if de.Code() != "USERNAME_TAKEN" {
		t.Errorf("expected code USERNAME_TAKEN, got %s", de.Code())
	}
}
