package service_test

import (
	"context"
	"time"

	commonerrors "github.com/messagely/messagely/internal/common/errors"
	userdomain "github.com/messagely/messagely/internal/user/domain"
)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user userdomain.User) error
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
	touchLastLoginFunc func(ctx context.Context, username string, ts time.Time) error
	listAllFunc        func(ctx context.Context) ([]userdomain.Summary, error)

	createCalls int
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, commonerrors.ErrUserNotFound
}

func (m *mockUserRepo) TouchLastLogin(ctx context.Context, username string, ts time.Time) error {
	if m.touchLastLoginFunc != nil {
		return m.touchLastLoginFunc(ctx, username, ts)
	}
	return nil
}

func (m *mockUserRepo) ListAll(ctx context.Context) ([]userdomain.Summary, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error

	hashCalls int
}

func (m *mockHasher) Hash(password string) (string, error) {
	m.hashCalls++
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}
