package service_test

import (
	"context"
	"time"

	commonerrors "github.com/messagely/messagely/internal/common/errors"
	messagedomain "github.com/messagely/messagely/internal/message/domain"
	userdomain "github.com/messagely/messagely/internal/user/domain"
)

type mockMessageRepo struct {
	createFunc   func(ctx context.Context, msg messagedomain.Message) error
	findByIDFunc func(ctx context.Context, id string) (messagedomain.Message, error)
	markReadFunc func(ctx context.Context, id string, ts time.Time) error

	createCalls   int
	markReadCalls int
}

func (m *mockMessageRepo) Create(ctx context.Context, msg messagedomain.Message) error {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepo) FindByID(ctx context.Context, id string) (messagedomain.Message, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return messagedomain.Message{}, commonerrors.ErrMessageNotFound
}

func (m *mockMessageRepo) ListTo(ctx context.Context, username string) ([]messagedomain.Envelope, error) {
	return nil, nil
}

func (m *mockMessageRepo) ListFrom(ctx context.Context, username string) ([]messagedomain.Envelope, error) {
	return nil, nil
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, id string, ts time.Time) error {
	m.markReadCalls++
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id, ts)
	}
	return nil
}

type mockUserRepo struct {
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, commonerrors.ErrUserNotFound
}

func (m *mockUserRepo) TouchLastLogin(ctx context.Context, username string, ts time.Time) error {
	return nil
}

func (m *mockUserRepo) ListAll(ctx context.Context) ([]userdomain.Summary, error) {
	return nil, nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "test-message-id", nil
}
