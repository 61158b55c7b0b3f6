package domain

import (
	"time"

	userdomain "github.com/messagely/messagely/internal/user/domain"
)

type Message struct {
	ID           string
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	ReadAt       *time.Time
}

// IsParty reports whether username is the sender or the recipient.
func (m Message) IsParty(username string) bool {
	return m.FromUsername == username || m.ToUsername == username
}

// Envelope pairs a message with the directory entry of the counterpart:
// the sender for an inbox listing, the recipient for an outbox listing.
type Envelope struct {
	Message
	Party userdomain.Summary
}
