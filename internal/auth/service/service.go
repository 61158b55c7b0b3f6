package service

import (
	"context"
	"errors"

	"github.com/messagely/messagely/internal/common/clock"
	commoncrypto "github.com/messagely/messagely/internal/common/crypto"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
	"github.com/messagely/messagely/internal/common/logger"
	userdomain "github.com/messagely/messagely/internal/user/domain"
	userrepo "github.com/messagely/messagely/internal/user/repository"
)

// AuthService orchestrates credential registration and password login:
// it validates input, hashes and verifies passwords, drives the credential
// store and requests tokens from the TokenService.
type AuthService struct {
	repo   userrepo.Repository
	hasher commoncrypto.PasswordHasher
	tokens *TokenService
	clock  clock.Clock
	log    *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	tokens *TokenService,
	clk clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		clock:  clk,
		log:    log,
	}
}

type RegisterInput struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

type credentialsInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type usernameInput struct {
	Username string `json:"username" validate:"required"`
}

// Register creates a new credential and logs the user in: the stored
// profile is returned alongside a freshly issued token. Duplicate usernames
// surface as USERNAME_TAKEN, never as a generic failure.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (userdomain.Profile, string, error) {
	if err := requireFields(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return userdomain.Profile{}, "", err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return userdomain.Profile{}, "", err
	}

	now := s.clock.Now()
	user := userdomain.User{
		Username:     input.Username,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		JoinAt:       now,
		LastLoginAt:  now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, commonerrors.ErrUsernameTaken) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_taken",
			}).Warn("register failed: username already exists")
			incrementRegistrations("duplicate")
			return userdomain.Profile{}, "", commonerrors.ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		incrementRegistrations("error")
		return userdomain.Profile{}, "", err
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		incrementRegistrations("error")
		return userdomain.Profile{}, "", err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"action":   "register_success",
	}).Info("register success")
	incrementRegistrations("success")

	return user.Profile(), token, nil
}

// Authenticate reports whether username/password is a valid pair. A missing
// user is an error; a wrong password is a plain false.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	if err := requireFields(credentialsInput{Username: username, Password: password}); err != nil {
		return false, err
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			return false, commonerrors.ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "authenticate_fetch_failed",
		}).Errorf("authenticate failed: %v", err)
		return false, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return false, nil
	}

	return true, nil
}

// TouchLogin stamps last_login_at with the current time.
func (s *AuthService) TouchLogin(ctx context.Context, username string) error {
	if err := requireFields(usernameInput{Username: username}); err != nil {
		return err
	}

	return s.repo.TouchLastLogin(ctx, username, s.clock.Now())
}

// Login is the composite flow: authenticate, stamp the login time, issue a
// token. Every authentication failure collapses into UNAUTHORIZED so the
// caller cannot tell an unknown user from a wrong password.
//
// The login-timestamp update is sequenced and awaited here; its failure
// fails the whole login rather than racing the response.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "login_user_not_found",
			}).Warn("login failed: user not found")
			incrementLogins("failure")
			return "", commonerrors.ErrUnauthorized.WithCause(err)
		}
		incrementLogins("error")
		return "", err
	}
	if !ok {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		incrementLogins("failure")
		return "", commonerrors.ErrUnauthorized
	}

	if err := s.TouchLogin(ctx, username); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "login_touch_failed",
		}).Errorf("login failed: touch login error: %v", err)
		incrementLogins("error")
		return "", err
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		incrementLogins("error")
		return "", err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   "login_success",
	}).Info("login success")
	incrementLogins("success")

	return token, nil
}
