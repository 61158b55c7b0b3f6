package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/messagely/messagely/internal/common/db"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
	"github.com/messagely/messagely/internal/message/domain"
)

type Repository interface {
	Create(ctx context.Context, msg domain.Message) error
	FindByID(ctx context.Context, id string) (domain.Message, error)
	ListTo(ctx context.Context, username string) ([]domain.Envelope, error)
	ListFrom(ctx context.Context, username string) ([]domain.Envelope, error)
	MarkRead(ctx context.Context, id string, ts time.Time) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, msg domain.Message) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO messages (id, from_username, to_username, body, sent_at, read_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID,
		msg.FromUsername,
		msg.ToUsername,
		msg.Body,
		msg.SentAt,
		msg.ReadAt,
	)
	db.ObserveQuery("create_message", "messages", start, err)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.Message, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, from_username, to_username, body, sent_at, read_at
		 FROM messages WHERE id = $1`,
		id,
	)

	var msg domain.Message
	err := row.Scan(&msg.ID, &msg.FromUsername, &msg.ToUsername, &msg.Body, &msg.SentAt, &msg.ReadAt)
	db.ObserveQuery("find_message_by_id", "messages", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Message{}, commonerrors.ErrMessageNotFound
		}
		return domain.Message{}, fmt.Errorf("failed to find message by id: %w", err)
	}

	return msg, nil
}

// ListTo returns messages addressed to username; each envelope carries the
// sender's directory entry.
func (r *PgRepository) ListTo(ctx context.Context, username string) ([]domain.Envelope, error) {
	return r.list(ctx, username, "list_messages_to",
		`SELECT m.id, m.from_username, m.to_username, m.body, m.sent_at, m.read_at,
		        u.username, u.first_name, u.last_name, u.phone
		 FROM messages m
		 JOIN users u ON m.from_username = u.username
		 WHERE m.to_username = $1
		 ORDER BY m.sent_at ASC`)
}

// ListFrom returns messages sent by username; each envelope carries the
// recipient's directory entry.
func (r *PgRepository) ListFrom(ctx context.Context, username string) ([]domain.Envelope, error) {
	return r.list(ctx, username, "list_messages_from",
		`SELECT m.id, m.from_username, m.to_username, m.body, m.sent_at, m.read_at,
		        u.username, u.first_name, u.last_name, u.phone
		 FROM messages m
		 JOIN users u ON m.to_username = u.username
		 WHERE m.from_username = $1
		 ORDER BY m.sent_at ASC`)
}

func (r *PgRepository) list(ctx context.Context, username, operation, query string) ([]domain.Envelope, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, query, username)
	db.ObserveQuery(operation, "messages", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", operation, err)
	}
	defer rows.Close()

	var envelopes []domain.Envelope
	for rows.Next() {
		var e domain.Envelope
		err := rows.Scan(
			&e.ID,
			&e.FromUsername,
			&e.ToUsername,
			&e.Body,
			&e.SentAt,
			&e.ReadAt,
			&e.Party.Username,
			&e.Party.FirstName,
			&e.Party.LastName,
			&e.Party.Phone,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		envelopes = append(envelopes, e)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return envelopes, nil
}

func (r *PgRepository) MarkRead(ctx context.Context, id string, ts time.Time) error {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE messages SET read_at = $1 WHERE id = $2`,
		ts,
		id,
	)
	db.ObserveQuery("mark_message_read", "messages", start, err)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return commonerrors.ErrMessageNotFound
	}
	return nil
}
