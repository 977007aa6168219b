package services

import (
	"SOCIAL_server/errors"
	"SOCIAL_server/schemas"
	"context"
	"fmt"
	"testing"
	"time"
)

// steppingClock hands out strictly increasing millisecond timestamps
func steppingClock(svc *MessageService) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
}

func TestSendMessageValidation(t *testing.T) {
	backend, _ := openBackend(t, "a", "b")
	svc := NewMessageService(backend.Messages, backend.Users)
	ctx := context.Background()

	tests := []struct {
		name    string
		emitter string
		req     schemas.SendMessageSchema
		want    error
	}{
		{"empty text", "a", schemas.SendMessageSchema{Receiver: "b", Text: ""}, errors.ErrValidation},
		{"blank text", "a", schemas.SendMessageSchema{Receiver: "b", Text: "  \n\t"}, errors.ErrValidation},
		{"missing receiver", "a", schemas.SendMessageSchema{Text: "hi"}, errors.ErrValidation},
		{"missing emitter", "", schemas.SendMessageSchema{Receiver: "b", Text: "hi"}, errors.ErrValidation},
		{"unknown receiver", "a", schemas.SendMessageSchema{Receiver: "ghost", Text: "hi"}, errors.ErrInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SendMessage(ctx, tt.emitter, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	slice, err := backend.Messages.FindByReceiver(ctx, "b", 0, 10)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if slice.Total != 0 {
		t.Fatalf("rejected sends stored %d messages", slice.Total)
	}
}

func TestSendThenInbox(t *testing.T) {
	backend, _ := openBackend(t, "a", "b")
	svc := NewMessageService(backend.Messages, backend.Users)
	ctx := context.Background()

	sent, err := svc.SendMessage(ctx, "a", schemas.SendMessageSchema{Receiver: "b", Text: "hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.MessageID == "" || sent.Viewed {
		t.Fatalf("unexpected stored message %+v", sent)
	}

	inbox, err := svc.GetInbox(ctx, "b", 1)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if inbox.Total != 1 || inbox.PageCount != 1 || len(inbox.Items) != 1 {
		t.Fatalf("inbox meta = %d items / %d total / %d pages", len(inbox.Items), inbox.Total, inbox.PageCount)
	}
	got := inbox.Items[0]
	if got.MessageID != sent.MessageID || got.Text != "hello" || got.Viewed {
		t.Fatalf("inbox item = %+v", got)
	}
	if got.Emitter == nil || got.Emitter.UserID != "a" || got.Emitter.Nick != "nick_a" {
		t.Fatalf("emitter summary = %+v, want a", got.Emitter)
	}
	if got.Receiver != nil {
		t.Fatalf("inbox items carry no receiver summary, got %+v", got.Receiver)
	}

	outbox, err := svc.GetOutbox(ctx, "b", 1)
	if err != nil {
		t.Fatalf("outbox: %v", err)
	}
	if outbox.Total != 0 {
		t.Fatalf("receiver outbox total = %d, want 0", outbox.Total)
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	backend, _ := openBackend(t, "a", "b", "c")
	svc := NewMessageService(backend.Messages, backend.Users)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.SendMessage(ctx, "a", schemas.SendMessageSchema{Receiver: "b", Text: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	if _, err := svc.SendMessage(ctx, "b", schemas.SendMessageSchema{Receiver: "c", Text: "other"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	unread, err := svc.GetUnreadCount(ctx, "b")
	if err != nil || unread != 3 {
		t.Fatalf("unread = %d, %v; want 3", unread, err)
	}

	updated, err := svc.MarkInboxRead(ctx, "b")
	if err != nil || updated != 3 {
		t.Fatalf("mark read = %d, %v; want 3", updated, err)
	}
	unread, err = svc.GetUnreadCount(ctx, "b")
	if err != nil || unread != 0 {
		t.Fatalf("unread after mark = %d, %v; want 0", unread, err)
	}

	updated, err = svc.MarkInboxRead(ctx, "b")
	if err != nil || updated != 0 {
		t.Fatalf("second mark read = %d, %v; want 0", updated, err)
	}

	unread, err = svc.GetUnreadCount(ctx, "c")
	if err != nil || unread != 1 {
		t.Fatalf("unread for c = %d, %v; want 1", unread, err)
	}

	inbox, err := svc.GetInbox(ctx, "b", 1)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	for _, message := range inbox.Items {
		if !message.Viewed {
			t.Fatalf("message %s still unviewed", message.MessageID)
		}
	}
}

func TestInboxPagination(t *testing.T) {
	backend, _ := openBackend(t, "a", "b")
	svc := NewMessageService(backend.Messages, backend.Users)
	steppingClock(svc)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		if _, err := svc.SendMessage(ctx, "a", schemas.SendMessageSchema{Receiver: "b", Text: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	page, err := svc.GetInbox(ctx, "b", 2)
	if err != nil {
		t.Fatalf("inbox page 2: %v", err)
	}
	if page.Total != 10 || page.PageCount != 3 || page.Page != 2 {
		t.Fatalf("page meta = total %d / pages %d / page %d, want 10 / 3 / 2", page.Total, page.PageCount, page.Page)
	}
	want := []string{"m6", "m5", "m4", "m3"}
	if len(page.Items) != len(want) {
		t.Fatalf("page 2 len = %d, want %d", len(page.Items), len(want))
	}
	for i, text := range want {
		if page.Items[i].Text != text {
			t.Fatalf("page 2 item %d = %s, want %s", i, page.Items[i].Text, text)
		}
	}

	last, err := svc.GetInbox(ctx, "b", 3)
	if err != nil {
		t.Fatalf("inbox page 3: %v", err)
	}
	if len(last.Items) != 2 || last.Items[1].Text != "m1" {
		t.Fatalf("last page = %+v, want m2 and m1", last.Items)
	}

	beyond, err := svc.GetInbox(ctx, "b", 9)
	if err != nil {
		t.Fatalf("inbox page 9: %v", err)
	}
	if len(beyond.Items) != 0 || beyond.Total != 10 {
		t.Fatalf("page past the end = %d items / %d total", len(beyond.Items), beyond.Total)
	}

	first, err := svc.GetInbox(ctx, "b", 0)
	if err != nil {
		t.Fatalf("inbox page 0: %v", err)
	}
	if first.Page != 1 || first.Items[0].Text != "m10" {
		t.Fatalf("page 0 normalizes to first page, got page %d starting with %s", first.Page, first.Items[0].Text)
	}
}

func TestOutboxOnlyHoldsSentMessages(t *testing.T) {
	backend, _ := openBackend(t, "a", "b", "c")
	svc := NewMessageService(backend.Messages, backend.Users)
	steppingClock(svc)
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, "a", schemas.SendMessageSchema{Receiver: "b", Text: "to b"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.SendMessage(ctx, "a", schemas.SendMessageSchema{Receiver: "c", Text: "to c"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.SendMessage(ctx, "c", schemas.SendMessageSchema{Receiver: "a", Text: "to a"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	outbox, err := svc.GetOutbox(ctx, "a", 1)
	if err != nil {
		t.Fatalf("outbox: %v", err)
	}
	if outbox.Total != 2 || len(outbox.Items) != 2 {
		t.Fatalf("outbox = %d items / %d total, want 2 / 2", len(outbox.Items), outbox.Total)
	}
	if outbox.Items[0].Text != "to c" || outbox.Items[1].Text != "to b" {
		t.Fatalf("outbox order = %s, %s", outbox.Items[0].Text, outbox.Items[1].Text)
	}
	for _, message := range outbox.Items {
		if message.EmitterID != "a" {
			t.Fatalf("outbox holds message from %s", message.EmitterID)
		}
		if message.Receiver == nil || message.Receiver.UserID != message.ReceiverID {
			t.Fatalf("receiver summary = %+v, want %s", message.Receiver, message.ReceiverID)
		}
		if message.Emitter == nil || message.Emitter.UserID != "a" {
			t.Fatalf("emitter summary = %+v, want a", message.Emitter)
		}
	}
}

func TestEmptyInbox(t *testing.T) {
	backend, _ := openBackend(t, "a")
	svc := NewMessageService(backend.Messages, backend.Users)

	inbox, err := svc.GetInbox(context.Background(), "a", 1)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if inbox.Items == nil || len(inbox.Items) != 0 || inbox.Total != 0 || inbox.PageCount != 0 {
		t.Fatalf("empty inbox = %+v", inbox)
	}
}

func TestMessageStoreFailures(t *testing.T) {
	users := &fakeUsers{known: map[string]schemas.UserSummarySchema{"b": {UserID: "b"}}}
	svc := NewMessageService(&fakeMessages{err: errBoom}, users)
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, "a", schemas.SendMessageSchema{Receiver: "b", Text: "hi"}); !errors.Is(err, errors.ErrStorageUnavailable) {
		t.Fatalf("send err = %v, want storage unavailable", err)
	}
	if _, err := svc.GetInbox(ctx, "a", 1); !errors.Is(err, errors.ErrStorageUnavailable) {
		t.Fatalf("inbox err = %v, want storage unavailable", err)
	}
	if _, err := svc.GetOutbox(ctx, "a", 1); !errors.Is(err, errors.ErrStorageUnavailable) {
		t.Fatalf("outbox err = %v, want storage unavailable", err)
	}
	if _, err := svc.GetUnreadCount(ctx, "a"); !errors.Is(err, errors.ErrStorageUnavailable) {
		t.Fatalf("unread err = %v, want storage unavailable", err)
	}
	if _, err := svc.MarkInboxRead(ctx, "a"); !errors.Is(err, errors.ErrStorageUnavailable) {
		t.Fatalf("mark read err = %v, want storage unavailable", err)
	}
}

func TestInboxKeepsMessagesOfDeletedUsers(t *testing.T) {
	backend, db := openBackend(t, "a", "b")
	svc := NewMessageService(backend.Messages, backend.Users)
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, "a", schemas.SendMessageSchema{Receiver: "b", Text: "hello"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := db.Exec(`DELETE FROM users WHERE user_id = ?`, "a"); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	inbox, err := svc.GetInbox(ctx, "b", 1)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(inbox.Items) != 1 || inbox.Items[0].Emitter == nil || inbox.Items[0].Emitter.UserID != "a" {
		t.Fatalf("inbox = %+v, want id-only emitter a", inbox.Items)
	}
}

func TestHugePageIsEmpty(t *testing.T) {
	backend, _ := openBackend(t, "a", "b")
	messages := NewMessageService(backend.Messages, backend.Users)
	relations := NewRelationService(backend.Relations, backend.Users, backend.Publications)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := messages.SendMessage(ctx, "a", schemas.SendMessageSchema{Receiver: "b", Text: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	if _, err := relations.Follow(ctx, "a", "b"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	const huge = 1 << 62

	inbox, err := messages.GetInbox(ctx, "b", huge)
	if err != nil || len(inbox.Items) != 0 || inbox.Total != 3 {
		t.Fatalf("inbox = %d items / %d total, %v; want 0 / 3", len(inbox.Items), inbox.Total, err)
	}
	outbox, err := messages.GetOutbox(ctx, "a", huge)
	if err != nil || len(outbox.Items) != 0 || outbox.Total != 3 {
		t.Fatalf("outbox = %d items / %d total, %v; want 0 / 3", len(outbox.Items), outbox.Total, err)
	}
	users, err := relations.ListUsers(ctx, "a", huge)
	if err != nil || len(users.Items) != 0 || users.Total != 2 {
		t.Fatalf("users = %d items / %d total, %v; want 0 / 2", len(users.Items), users.Total, err)
	}
	following, err := relations.ListFollowing(ctx, "a", huge)
	if err != nil || len(following.Items) != 0 || following.Total != 1 {
		t.Fatalf("following = %d items / %d total, %v; want 0 / 1", len(following.Items), following.Total, err)
	}
}
