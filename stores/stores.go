// Package stores owns the persistence schema of follow edges, messages and the
// read-only user and publication collaborators.
package stores

import (
	"SOCIAL_server/schemas"
	"context"
)

// RelationStore persists directed follow edges
type RelationStore interface {
	// CreateEdge fails with errors.ErrDuplicateEdge when the pair already exists
	CreateEdge(ctx context.Context, followerID string, followedID string) (schemas.FollowEdgeSchema, error)
	DeleteEdge(ctx context.Context, followerID string, followedID string) (bool, error)
	Exists(ctx context.Context, followerID string, followedID string) (bool, error)
	// ListByFollower and ListByFollowed return edges newest first
	ListByFollower(ctx context.Context, userID string) ([]schemas.FollowEdgeSchema, error)
	ListByFollowed(ctx context.Context, userID string) ([]schemas.FollowEdgeSchema, error)
	CountByFollower(ctx context.Context, userID string) (int, error)
	CountByFollowed(ctx context.Context, userID string) (int, error)
}

// MessageSlice is a window of messages plus the total matching the query
type MessageSlice struct {
	Items []schemas.MessageSchema
	Total int
}

// MessageStore persists direct messages, sorted by creation time descending
type MessageStore interface {
	Insert(ctx context.Context, message schemas.MessageSchema) (schemas.MessageSchema, error)
	FindByReceiver(ctx context.Context, userID string, offset int, limit int) (MessageSlice, error)
	FindByEmitter(ctx context.Context, userID string, offset int, limit int) (MessageSlice, error)
	CountUnviewed(ctx context.Context, receiverID string) (int, error)
	MarkAllViewed(ctx context.Context, receiverID string) (int, error)
}

// UserDirectory resolves user summaries, it never writes user records
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
	// Summaries returns the summaries found for ids, unknown ids are left out
	Summaries(ctx context.Context, ids []string) (map[string]schemas.UserSummarySchema, error)
	// List returns users ordered by id plus the total amount of users
	List(ctx context.Context, offset int, limit int) ([]schemas.UserSummarySchema, int, error)
}

// PublicationCounter counts a user's publications
type PublicationCounter interface {
	CountByUser(ctx context.Context, userID string) (int, error)
}

// Backend bundles the stores of one storage driver
type Backend struct {
	Relations    RelationStore
	Messages     MessageStore
	Users        UserDirectory
	Publications PublicationCounter
	Close        func() error
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
