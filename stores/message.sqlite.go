package stores

import (
	"SOCIAL_server/schemas"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLiteMessageStore keeps messages in the messages table
type SQLiteMessageStore struct {
	db *sql.DB
}

// Insert stores a new message, assigning its id and creation time when missing
func (s *SQLiteMessageStore) Insert(ctx context.Context, message schemas.MessageSchema) (schemas.MessageSchema, error) {
	if message.MessageID == "" {
		message.MessageID = uuid.NewString()
	}
	if message.Created.IsZero() {
		message.Created = time.Now().UTC()
	}
	message.Created = fromMillis(toMillis(message.Created))
	message.Emitter = nil
	message.Receiver = nil

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (message_id, emitter_id, receiver_id, text, created_at, viewed)
		VALUES (?, ?, ?, ?, ?, ?);`,
		message.MessageID,
		message.EmitterID,
		message.ReceiverID,
		message.Text,
		toMillis(message.Created),
		message.Viewed,
	)
	if err != nil {
		return schemas.MessageSchema{}, fmt.Errorf("messages: %w", err)
	}

	return message, nil
}

// FindByReceiver returns a window of the messages received by userID
func (s *SQLiteMessageStore) FindByReceiver(ctx context.Context, userID string, offset int, limit int) (MessageSlice, error) {
	return s.find(ctx, "receiver_id", userID, offset, limit)
}

// FindByEmitter returns a window of the messages sent by userID
func (s *SQLiteMessageStore) FindByEmitter(ctx context.Context, userID string, offset int, limit int) (MessageSlice, error) {
	return s.find(ctx, "emitter_id", userID, offset, limit)
}

// find reads the total and the window inside one read transaction so both see the same snapshot
func (s *SQLiteMessageStore) find(ctx context.Context, column string, userID string, offset int, limit int) (MessageSlice, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MessageSlice{}, fmt.Errorf("messages: %w", err)
	}
	defer tx.Rollback()

	slice := MessageSlice{Items: []schemas.MessageSchema{}}

	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE `+column+` = ?;`,
		userID,
	).Scan(&slice.Total); err != nil {
		return MessageSlice{}, fmt.Errorf("messages: %w", err)
	}

	if slice.Total == 0 || offset >= slice.Total {
		return slice, nil
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT message_id, emitter_id, receiver_id, text, created_at, viewed FROM messages
		WHERE `+column+` = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?;`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return MessageSlice{}, fmt.Errorf("messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			message schemas.MessageSchema
			created int64
		)
		if err := rows.Scan(&message.MessageID, &message.EmitterID, &message.ReceiverID, &message.Text, &created, &message.Viewed); err != nil {
			return MessageSlice{}, fmt.Errorf("messages: %w", err)
		}
		message.Created = fromMillis(created)
		slice.Items = append(slice.Items, message)
	}
	if err := rows.Err(); err != nil {
		return MessageSlice{}, fmt.Errorf("messages: %w", err)
	}

	return slice, nil
}

// CountUnviewed counts the messages of receiverID that were not viewed yet
func (s *SQLiteMessageStore) CountUnviewed(ctx context.Context, receiverID string) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages WHERE receiver_id = ? AND viewed = 0;`,
		receiverID,
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("messages: %w", err)
	}
	return total, nil
}

// MarkAllViewed flips the viewed flag of every matching message in one statement
func (s *SQLiteMessageStore) MarkAllViewed(ctx context.Context, receiverID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE messages SET viewed = 1 WHERE receiver_id = ? AND viewed = 0;`,
		receiverID,
	)
	if err != nil {
		return 0, fmt.Errorf("messages: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("messages: %w", err)
	}
	return int(affected), nil
}
