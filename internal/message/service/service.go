package service

import (
	"context"
	"errors"

	"github.com/messagely/messagely/internal/common/clock"
	commoncrypto "github.com/messagely/messagely/internal/common/crypto"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
	"github.com/messagely/messagely/internal/common/logger"
	"github.com/messagely/messagely/internal/message/domain"
	messagerepo "github.com/messagely/messagely/internal/message/repository"
	userrepo "github.com/messagely/messagely/internal/user/repository"
)

// MessageService handles sending and reading individual messages. List
// queries stay on the repository; this layer owns the per-message access
// rules: only a party may read a message, only the recipient may mark it
// read.
type MessageService struct {
	messages    messagerepo.Repository
	users       userrepo.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewMessageService(
	messages messagerepo.Repository,
	users userrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *MessageService {
	return &MessageService{
		messages:    messages,
		users:       users,
		idGenerator: idGenerator,
		clock:       clk,
		log:         log,
	}
}

// Send stores a new message from the authenticated sender. The recipient
// must exist.
func (s *MessageService) Send(ctx context.Context, from, to, body string) (domain.Message, error) {
	if to == "" {
		return domain.Message{}, commonerrors.NewMissingFieldError("to_username")
	}
	if body == "" {
		return domain.Message{}, commonerrors.NewMissingFieldError("body")
	}

	if _, err := s.users.FindByUsername(ctx, to); err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"from":   from,
				"to":     to,
				"action": "send_recipient_not_found",
			}).Warn("send failed: recipient not found")
		}
		return domain.Message{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Message{}, err
	}

	msg := domain.Message{
		ID:           id,
		FromUsername: from,
		ToUsername:   to,
		Body:         body,
		SentAt:       s.clock.Now(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"from":   from,
			"to":     to,
			"action": "send_create_failed",
		}).Errorf("send failed: %v", err)
		return domain.Message{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"message_id": msg.ID,
		"from":       from,
		"to":         to,
		"action":     "send_success",
	}).Info("message sent")

	return msg, nil
}

// Get returns a single message to one of its parties.
func (s *MessageService) Get(ctx context.Context, id, requester string) (domain.Message, error) {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return domain.Message{}, err
	}

	if !msg.IsParty(requester) {
		return domain.Message{}, commonerrors.ErrForbidden
	}

	return msg, nil
}

// MarkRead stamps read_at on a message; only the recipient may do so.
func (s *MessageService) MarkRead(ctx context.Context, id, requester string) (domain.Message, error) {
	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return domain.Message{}, err
	}

	if msg.ToUsername != requester {
		return domain.Message{}, commonerrors.ErrForbidden
	}

	now := s.clock.Now()
	if err := s.messages.MarkRead(ctx, id, now); err != nil {
		return domain.Message{}, err
	}

	msg.ReadAt = &now
	return msg, nil
}
