package services

import (
	"SOCIAL_server/schemas"
	"SOCIAL_server/stores"
	"context"
	"database/sql"
	Errors "errors"
	"path/filepath"
	"testing"
)

var errBoom = Errors.New("boom")

func openBackend(t *testing.T, users ...string) (*stores.Backend, *sql.DB) {
	t.Helper()
	backend, db, err := stores.OpenSQLite(filepath.Join(t.TempDir(), "social.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })

	for _, id := range users {
		if _, err := db.Exec(
			`INSERT INTO users (user_id, name, surname, nick, image) VALUES (?, ?, ?, ?, ?)`,
			id, "Name "+id, "Surname "+id, "nick_"+id, id+".png",
		); err != nil {
			t.Fatalf("seed user %s: %v", id, err)
		}
	}
	return backend, db
}

// fakeRelations fails the calls whose error field is set
type fakeRelations struct {
	stores.RelationStore
	existsErr   map[[2]string]error
	exists      map[[2]string]bool
	listErr     error
	countErr    error
	createErr   error
	deleteErr   error
	followerCnt int
	followedCnt int
}

func (f *fakeRelations) Exists(_ context.Context, followerID string, followedID string) (bool, error) {
	key := [2]string{followerID, followedID}
	if err := f.existsErr[key]; err != nil {
		return false, err
	}
	return f.exists[key], nil
}

func (f *fakeRelations) CreateEdge(_ context.Context, followerID string, followedID string) (schemas.FollowEdgeSchema, error) {
	if f.createErr != nil {
		return schemas.FollowEdgeSchema{}, f.createErr
	}
	return schemas.FollowEdgeSchema{FollowerID: followerID, FollowedID: followedID}, nil
}

func (f *fakeRelations) DeleteEdge(context.Context, string, string) (bool, error) {
	return false, f.deleteErr
}

func (f *fakeRelations) ListByFollower(context.Context, string) ([]schemas.FollowEdgeSchema, error) {
	return nil, f.listErr
}

func (f *fakeRelations) ListByFollowed(context.Context, string) ([]schemas.FollowEdgeSchema, error) {
	return []schemas.FollowEdgeSchema{}, nil
}

func (f *fakeRelations) CountByFollower(context.Context, string) (int, error) {
	return f.followerCnt, f.countErr
}

func (f *fakeRelations) CountByFollowed(context.Context, string) (int, error) {
	return f.followedCnt, nil
}

type fakeUsers struct {
	known map[string]schemas.UserSummarySchema
	err   error
}

func (f *fakeUsers) Exists(_ context.Context, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.known[userID]
	return ok, nil
}

func (f *fakeUsers) Summaries(_ context.Context, ids []string) (map[string]schemas.UserSummarySchema, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]schemas.UserSummarySchema{}
	for _, id := range ids {
		if user, ok := f.known[id]; ok {
			out[id] = user
		}
	}
	return out, nil
}

func (f *fakeUsers) List(context.Context, int, int) ([]schemas.UserSummarySchema, int, error) {
	return nil, 0, f.err
}

type fakePublications struct {
	count int
	err   error
}

func (f *fakePublications) CountByUser(context.Context, string) (int, error) {
	return f.count, f.err
}

type fakeMessages struct {
	stores.MessageStore
	err error
}

func (f *fakeMessages) Insert(context.Context, schemas.MessageSchema) (schemas.MessageSchema, error) {
	return schemas.MessageSchema{}, f.err
}

func (f *fakeMessages) FindByReceiver(context.Context, string, int, int) (stores.MessageSlice, error) {
	return stores.MessageSlice{}, f.err
}

func (f *fakeMessages) FindByEmitter(context.Context, string, int, int) (stores.MessageSlice, error) {
	return stores.MessageSlice{}, f.err
}

func (f *fakeMessages) CountUnviewed(context.Context, string) (int, error) {
	return 0, f.err
}

func (f *fakeMessages) MarkAllViewed(context.Context, string) (int, error) {
	return 0, f.err
}
