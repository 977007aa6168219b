package services

import (
	"SOCIAL_server/errors"
	"SOCIAL_server/global"
	"SOCIAL_server/helpers"
	"SOCIAL_server/schemas"
	"SOCIAL_server/stores"
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MessageService manages a user's inbox and outbox
type MessageService struct {
	messages stores.MessageStore
	users    stores.UserDirectory
	now      func() time.Time
}

// NewMessageService builds the service on top of its stores
func NewMessageService(messages stores.MessageStore, users stores.UserDirectory) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SendMessage validates and stores a message from emitter, validation happens before any write
func (s *MessageService) SendMessage(ctx context.Context, emitterID string, req schemas.SendMessageSchema) (schemas.MessageSchema, error) {

	req.Receiver = strings.TrimSpace(req.Receiver)
	if strings.TrimSpace(req.Text) == "" {
		req.Text = ""
	}

	if emitterID == "" {
		return schemas.MessageSchema{}, errors.Validation("Emitter", "required")
	}
	if err := global.Validator.Struct(req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
			return schemas.MessageSchema{}, errors.Validation(validationErrs[0].StructField(), validationErrs[0].Tag())
		}
		return schemas.MessageSchema{}, errors.Validation("Message", err.Error())
	}

	exists, err := s.users.Exists(ctx, req.Receiver)
	if err != nil {
		return schemas.MessageSchema{}, errors.StorageUnavailable("users", err)
	}
	if !exists {
		return schemas.MessageSchema{}, errors.InvalidReference("Receiver", req.Receiver)
	}

	stored, err := s.messages.Insert(ctx, schemas.MessageSchema{
		EmitterID:  emitterID,
		ReceiverID: req.Receiver,
		Text:       req.Text,
		Created:    s.now(),
		Viewed:     false,
	})
	if err != nil {
		return schemas.MessageSchema{}, errors.StorageUnavailable("messages", err)
	}

	return stored, nil
}

// GetInbox returns a page of the messages received by subject, each with its emitter summary
func (s *MessageService) GetInbox(ctx context.Context, subjectID string, page int) (schemas.PageSchema[schemas.MessageSchema], error) {

	page = helpers.NormalizePage(page)

	slice, err := s.messages.FindByReceiver(ctx, subjectID, helpers.PageOffset(page, global.MessagePageSize), global.MessagePageSize)
	if err != nil {
		return schemas.PageSchema[schemas.MessageSchema]{}, errors.StorageUnavailable("messages", err)
	}

	items, err := s.join(ctx, slice.Items, false)
	if err != nil {
		return schemas.PageSchema[schemas.MessageSchema]{}, err
	}

	return helpers.NewPage(items, slice.Total, page, global.MessagePageSize), nil
}

// GetOutbox returns a page of the messages sent by subject, each with emitter and receiver summaries
func (s *MessageService) GetOutbox(ctx context.Context, subjectID string, page int) (schemas.PageSchema[schemas.MessageSchema], error) {

	page = helpers.NormalizePage(page)

	slice, err := s.messages.FindByEmitter(ctx, subjectID, helpers.PageOffset(page, global.MessagePageSize), global.MessagePageSize)
	if err != nil {
		return schemas.PageSchema[schemas.MessageSchema]{}, errors.StorageUnavailable("messages", err)
	}

	items, err := s.join(ctx, slice.Items, true)
	if err != nil {
		return schemas.PageSchema[schemas.MessageSchema]{}, err
	}

	return helpers.NewPage(items, slice.Total, page, global.MessagePageSize), nil
}

// GetUnreadCount counts the unviewed messages of subject
func (s *MessageService) GetUnreadCount(ctx context.Context, subjectID string) (int, error) {
	count, err := s.messages.CountUnviewed(ctx, subjectID)
	if err != nil {
		return 0, errors.StorageUnavailable("messages", err)
	}
	return count, nil
}

// MarkInboxRead flags the unviewed messages of subject as viewed and returns how many changed
func (s *MessageService) MarkInboxRead(ctx context.Context, subjectID string) (int, error) {
	updated, err := s.messages.MarkAllViewed(ctx, subjectID)
	if err != nil {
		return 0, errors.StorageUnavailable("messages", err)
	}
	return updated, nil
}

// join attaches user summaries to a page of messages with one batched lookup
func (s *MessageService) join(ctx context.Context, messages []schemas.MessageSchema, withReceiver bool) ([]schemas.MessageSchema, error) {

	if len(messages) == 0 {
		return []schemas.MessageSchema{}, nil
	}

	ids := make([]string, 0, len(messages)*2)
	for _, message := range messages {
		ids = append(ids, message.EmitterID)
		if withReceiver {
			ids = append(ids, message.ReceiverID)
		}
	}

	users, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, errors.StorageUnavailable("users", err)
	}

	joined := make([]schemas.MessageSchema, len(messages))
	for i, message := range messages {
		message.Emitter = summaryOf(users, message.EmitterID)
		if withReceiver {
			message.Receiver = summaryOf(users, message.ReceiverID)
		}
		joined[i] = message
	}
	return joined, nil
}

// summaryOf falls back to an id-only summary for users the directory no longer knows
func summaryOf(users map[string]schemas.UserSummarySchema, id string) *schemas.UserSummarySchema {
	user, ok := users[id]
	if !ok {
		user = schemas.UserSummarySchema{UserID: id}
	}
	return &user
}
