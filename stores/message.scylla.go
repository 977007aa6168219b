package stores

import (
	"SOCIAL_server/schemas"
	"context"
	"fmt"

	"github.com/gocql/gocql"
)

// markViewedBatchSize caps the rows updated by one logged batch
const markViewedBatchSize = 50

// ScyllaMessageStore keeps each message in a receiver partition and an emitter partition,
// both clustered by message_id (timeuuid) descending
type ScyllaMessageStore struct {
	session *gocql.Session
}

// Insert writes both copies of the message in one logged batch
func (s *ScyllaMessageStore) Insert(ctx context.Context, message schemas.MessageSchema) (schemas.MessageSchema, error) {

	var messageID gocql.UUID
	if message.Created.IsZero() {
		messageID = gocql.TimeUUID()
	} else {
		messageID = gocql.UUIDFromTime(message.Created)
	}
	message.MessageID = messageID.String()
	message.Created = messageID.Time().UTC()
	message.Emitter = nil
	message.Receiver = nil

	b := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	b.Entries = append(b.Entries, gocql.BatchEntry{
		Stmt:       "INSERT INTO messages_by_receiver (receiver_id, message_id, emitter_id, text, viewed) VALUES (?, ?, ?, ?, ?)",
		Args:       []interface{}{message.ReceiverID, messageID, message.EmitterID, message.Text, message.Viewed},
		Idempotent: true,
	}, gocql.BatchEntry{
		Stmt:       "INSERT INTO messages_by_emitter (emitter_id, message_id, receiver_id, text, viewed) VALUES (?, ?, ?, ?, ?)",
		Args:       []interface{}{message.EmitterID, messageID, message.ReceiverID, message.Text, message.Viewed},
		Idempotent: true,
	})

	if err := s.session.ExecuteBatch(b); err != nil {
		return schemas.MessageSchema{}, fmt.Errorf("ScyllaDB: %w", err)
	}

	return message, nil
}

// FindByReceiver returns a window of the messages received by userID
func (s *ScyllaMessageStore) FindByReceiver(ctx context.Context, userID string, offset int, limit int) (MessageSlice, error) {
	return s.find(ctx, `
		SELECT message_id, emitter_id, receiver_id, text, viewed FROM messages_by_receiver WHERE receiver_id = ? LIMIT ?;`, `
		SELECT count(*) FROM messages_by_receiver WHERE receiver_id = ?;`,
		userID, offset, limit)
}

// FindByEmitter returns a window of the messages sent by userID
func (s *ScyllaMessageStore) FindByEmitter(ctx context.Context, userID string, offset int, limit int) (MessageSlice, error) {
	return s.find(ctx, `
		SELECT message_id, emitter_id, receiver_id, text, viewed FROM messages_by_emitter WHERE emitter_id = ? LIMIT ?;`, `
		SELECT count(*) FROM messages_by_emitter WHERE emitter_id = ?;`,
		userID, offset, limit)
}

// find skips the first offset rows of the partition, CQL has no OFFSET
func (s *ScyllaMessageStore) find(ctx context.Context, query string, countQuery string, userID string, offset int, limit int) (MessageSlice, error) {

	slice := MessageSlice{Items: []schemas.MessageSchema{}}
	if !validUUID(userID) {
		return slice, nil
	}

	if err := s.session.Query(countQuery, userID).WithContext(ctx).Scan(&slice.Total); err != nil {
		return MessageSlice{}, fmt.Errorf("ScyllaDB: %w", err)
	}
	if slice.Total == 0 || offset >= slice.Total {
		return slice, nil
	}

	iter := s.session.Query(query, userID, windowLimit(offset, limit)).WithContext(ctx).Iter()

	window := rowWindow{offset: offset}
	var (
		messageID  gocql.UUID
		emitterID  gocql.UUID
		receiverID gocql.UUID
		text       string
		viewed     bool
	)
	for iter.Scan(&messageID, &emitterID, &receiverID, &text, &viewed) {
		if !window.keep() {
			continue
		}
		slice.Items = append(slice.Items, schemas.MessageSchema{
			MessageID:  messageID.String(),
			EmitterID:  emitterID.String(),
			ReceiverID: receiverID.String(),
			Text:       text,
			Created:    messageID.Time().UTC(),
			Viewed:     viewed,
		})
	}
	if err := iter.Close(); err != nil {
		return MessageSlice{}, fmt.Errorf("ScyllaDB: %w", err)
	}

	return slice, nil
}

// CountUnviewed counts the unviewed rows of the receiver partition
func (s *ScyllaMessageStore) CountUnviewed(ctx context.Context, receiverID string) (int, error) {
	if !validUUID(receiverID) {
		return 0, nil
	}
	var total int
	err := s.session.Query(`
		SELECT count(*) FROM messages_by_receiver WHERE receiver_id = ? AND viewed = false ALLOW FILTERING;`,
		receiverID,
	).WithContext(ctx).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("ScyllaDB: %w", err)
	}
	return total, nil
}

// MarkAllViewed reads the unviewed messages of the receiver partition and flags both
// copies of each one. Messages inserted after the read are left for the next call.
func (s *ScyllaMessageStore) MarkAllViewed(ctx context.Context, receiverID string) (int, error) {

	if !validUUID(receiverID) {
		return 0, nil
	}

	iter := s.session.Query(`
		SELECT message_id, emitter_id FROM messages_by_receiver WHERE receiver_id = ? AND viewed = false ALLOW FILTERING;`,
		receiverID,
	).WithContext(ctx).Iter()

	type unviewed struct {
		messageID gocql.UUID
		emitterID gocql.UUID
	}
	pending := []unviewed{}

	var cur unviewed
	for iter.Scan(&cur.messageID, &cur.emitterID) {
		pending = append(pending, cur)
	}
	if err := iter.Close(); err != nil {
		return 0, fmt.Errorf("ScyllaDB: %w", err)
	}

	updated := 0
	for _, chunk := range chunks(pending, markViewedBatchSize) {

		b := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
		for _, m := range chunk {
			b.Entries = append(b.Entries, gocql.BatchEntry{
				Stmt:       "UPDATE messages_by_receiver SET viewed = ? WHERE receiver_id = ? AND message_id = ?",
				Args:       []interface{}{true, receiverID, m.messageID},
				Idempotent: true,
			}, gocql.BatchEntry{
				Stmt:       "UPDATE messages_by_emitter SET viewed = ? WHERE emitter_id = ? AND message_id = ?",
				Args:       []interface{}{true, m.emitterID, m.messageID},
				Idempotent: true,
			})
		}

		if err := s.session.ExecuteBatch(b); err != nil {
			return updated, fmt.Errorf("ScyllaDB: %w", err)
		}
		updated += len(chunk)
	}

	return updated, nil
}
