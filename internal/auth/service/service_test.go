package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/messagely/messagely/internal/auth/service"
	"github.com/messagely/messagely/internal/common/clock"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
	"github.com/messagely/messagely/internal/common/logger"
	userdomain "github.com/messagely/messagely/internal/user/domain"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

func setupAuthService(t *testing.T) (*service.AuthService, *service.TokenService, *mockUserRepo, *mockHasher, *clock.MockClock) {
	t.Helper()
	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "test", "error")

	tokens := service.NewTokenService(testSecret, mockClock)
	svc := service.NewAuthService(repo, hasher, tokens, mockClock, log)

	return svc, tokens, repo, hasher, mockClock
}

func validRegisterInput() service.RegisterInput {
	return service.RegisterInput{
		Username:  "u1",
		Password:  "p1",
		FirstName: "F",
		LastName:  "L",
		Phone:     "555",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, tokens, repo, _, mockClock := setupAuthService(t)

	var created userdomain.User
	repo.createFunc = func(_ context.Context, user userdomain.User) error {
		created = user
		return nil
	}

	profile, token, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if profile.Username != "u1" {
		t.Errorf("expected username u1, got %s", profile.Username)
	}
	if created.PasswordHash != "hashed_p1" {
		t.Errorf("expected stored hash hashed_p1, got %s", created.PasswordHash)
	}
	if !created.JoinAt.Equal(mockClock.Now()) || !created.LastLoginAt.Equal(mockClock.Now()) {
		t.Errorf("expected join_at and last_login_at set to now, got %v / %v", created.JoinAt, created.LastLoginAt)
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("expected issued token to verify, got %v", err)
	}
	if claims.Username != "u1" {
		t.Errorf("expected token user u1, got %s", claims.Username)
	}
}

func TestAuthService_Register_MissingField(t *testing.T) {
	svc, _, repo, hasher, _ := setupAuthService(t)

	input := validRegisterInput()
	input.Phone = ""

	_, _, err := svc.Register(context.Background(), input)
	if err == nil {
		t.Fatal("expected error")
	}

	field, ok := commonerrors.IsMissingFieldError(err)
	if !ok {
		t.Fatalf("expected missing field error, got %v", err)
	}
	if field != "phone" {
		t.Errorf("expected field phone, got %s", field)
	}

	if hasher.hashCalls != 0 {
		t.Error("expected no hash call for invalid input")
	}
	if repo.createCalls != 0 {
		t.Error("expected no store call for invalid input")
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, _, repo, _, _ := setupAuthService(t)

	repo.createFunc = func(_ context.Context, _ userdomain.User) error {
		return commonerrors.ErrUsernameTaken
	}

	_, _, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, commonerrors.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	svc, _, repo, hasher, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(_ context.Context, username string) (userdomain.User, error) {
		return userdomain.User{Username: username, PasswordHash: "hashed_p1"}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		if hash == "hashed_"+password {
			return nil
		}
		return errors.New("mismatch")
	}

	ok, err := svc.Authenticate(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok {
		t.Error("expected authenticate to return true")
	}
}

func TestAuthService_Authenticate_WrongPassword(t *testing.T) {
	svc, _, repo, hasher, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(_ context.Context, username string) (userdomain.User, error) {
		return userdomain.User{Username: username, PasswordHash: "hashed_p1"}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		return errors.New("mismatch")
	}

	ok, err := svc.Authenticate(context.Background(), "u1", "wrong")
	if err != nil {
		t.Fatalf("wrong password must not be an error, got %v", err)
	}
	if ok {
		t.Error("expected authenticate to return false")
	}
}

func TestAuthService_Authenticate_UserNotFound(t *testing.T) {
	svc, _, _, _, _ := setupAuthService(t)

	_, err := svc.Authenticate(context.Background(), "ghost", "p1")
	if !errors.Is(err, commonerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Authenticate_MissingArgs(t *testing.T) {
	svc, _, _, _, _ := setupAuthService(t)

	_, err := svc.Authenticate(context.Background(), "u1", "")
	if _, ok := commonerrors.IsMissingFieldError(err); !ok {
		t.Fatalf("expected missing field error, got %v", err)
	}
}

func TestAuthService_TouchLogin_UserNotFound(t *testing.T) {
	svc, _, repo, _, _ := setupAuthService(t)

	repo.touchLastLoginFunc = func(_ context.Context, _ string, _ time.Time) error {
		return commonerrors.ErrUserNotFound
	}

	err := svc.TouchLogin(context.Background(), "ghost")
	if !errors.Is(err, commonerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, tokens, repo, hasher, mockClock := setupAuthService(t)

	var touched time.Time
	repo.findByUsernameFunc = func(_ context.Context, username string) (userdomain.User, error) {
		return userdomain.User{Username: username, PasswordHash: "hashed_p1"}, nil
	}
	repo.touchLastLoginFunc = func(_ context.Context, _ string, ts time.Time) error {
		touched = ts
		return nil
	}
	hasher.compareFunc = func(hash, password string) error {
		return nil
	}

	token, err := svc.Login(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !touched.Equal(mockClock.Now()) {
		t.Errorf("expected last login stamped with now, got %v", touched)
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}
	if claims.Username != "u1" {
		t.Errorf("expected token user u1, got %s", claims.Username)
	}
}

func TestAuthService_Login_HidesFailureCause(t *testing.T) {
	// Unknown user and wrong password must be indistinguishable to a
	// login caller.
	svc, _, repo, hasher, _ := setupAuthService(t)

	_, errUnknown := svc.Login(context.Background(), "ghost", "p1")
	if !errors.Is(errUnknown, commonerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown user, got %v", errUnknown)
	}

	repo.findByUsernameFunc = func(_ context.Context, username string) (userdomain.User, error) {
		return userdomain.User{Username: username, PasswordHash: "hashed_p1"}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		return errors.New("mismatch")
	}

	_, errWrong := svc.Login(context.Background(), "u1", "wrong")
	if !errors.Is(errWrong, commonerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", errWrong)
	}

	de1, _ := commonerrors.AsDomainError(errUnknown)
	de2, _ := commonerrors.AsDomainError(errWrong)
	if de1.Code() != de2.Code() {
		t.Errorf("expected identical error codes, got %s vs %s", de1.Code(), de2.Code())
	}
}

func TestAuthService_Login_TouchFailureSurfaces(t *testing.T) {
	svc, _, repo, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(_ context.Context, username string) (userdomain.User, error) {
		return userdomain.User{Username: username, PasswordHash: "hashed_p1"}, nil
	}
	touchErr := errors.New("db down")
	repo.touchLastLoginFunc = func(_ context.Context, _ string, _ time.Time) error {
		return touchErr
	}

	_, err := svc.Login(context.Background(), "u1", "p1")
	if !errors.Is(err, touchErr) {
		t.Fatalf("expected touch error to surface, got %v", err)
	}
}
