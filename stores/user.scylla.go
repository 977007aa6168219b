package stores

import (
	"SOCIAL_server/schemas"
	"context"
	"fmt"

	"github.com/gocql/gocql"
)

// ScyllaUserDirectory reads user summaries from the users table
type ScyllaUserDirectory struct {
	session *gocql.Session
}

// Exists checks whether userID denotes a known user, malformed ids are unknown users
func (s *ScyllaUserDirectory) Exists(ctx context.Context, userID string) (bool, error) {

	if !validUUID(userID) {
		return false, nil
	}

	var found gocql.UUID
	err := s.session.Query(`
		SELECT user_id FROM users WHERE user_id = ? LIMIT 1;`,
		userID,
	).WithContext(ctx).Scan(&found)
	if err != nil {
		if err == gocql.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("ScyllaDB: %w", err)
	}
	return true, nil
}

// Summaries resolves all ids with a single IN query
func (s *ScyllaUserDirectory) Summaries(ctx context.Context, ids []string) (map[string]schemas.UserSummarySchema, error) {

	valid := []string{}
	for _, id := range dedupe(ids) {
		if validUUID(id) {
			valid = append(valid, id)
		}
	}

	users := make(map[string]schemas.UserSummarySchema, len(valid))
	if len(valid) == 0 {
		return users, nil
	}

	iter := s.session.Query(`
		SELECT user_id, name, surname, nick, image FROM users WHERE user_id IN ?;`,
		valid,
	).WithContext(ctx).Iter()

	var (
		userID gocql.UUID
		user   schemas.UserSummarySchema
	)
	for iter.Scan(&userID, &user.Name, &user.Surname, &user.Nick, &user.Image) {
		user.UserID = userID.String()
		users[user.UserID] = user
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("ScyllaDB: %w", err)
	}
	return users, nil
}

// List pages through users in token order, the partitioner gives no global id order
func (s *ScyllaUserDirectory) List(ctx context.Context, offset int, limit int) ([]schemas.UserSummarySchema, int, error) {

	var total int
	if err := s.session.Query(`SELECT count(*) FROM users;`).WithContext(ctx).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ScyllaDB: %w", err)
	}

	users := []schemas.UserSummarySchema{}
	if offset >= total {
		return users, total, nil
	}

	iter := s.session.Query(`
		SELECT user_id, name, surname, nick, image FROM users LIMIT ?;`,
		windowLimit(offset, limit),
	).WithContext(ctx).Iter()

	window := rowWindow{offset: offset}
	var (
		userID gocql.UUID
		user   schemas.UserSummarySchema
	)
	for iter.Scan(&userID, &user.Name, &user.Surname, &user.Nick, &user.Image) {
		if !window.keep() {
			continue
		}
		user.UserID = userID.String()
		users = append(users, user)
	}
	if err := iter.Close(); err != nil {
		return nil, 0, fmt.Errorf("ScyllaDB: %w", err)
	}
	return users, total, nil
}

// ScyllaPublicationCounter counts rows of the publications_by_user partition
type ScyllaPublicationCounter struct {
	session *gocql.Session
}

// CountByUser counts the publications of userID
func (s *ScyllaPublicationCounter) CountByUser(ctx context.Context, userID string) (int, error) {
	if !validUUID(userID) {
		return 0, nil
	}
	var total int
	if err := s.session.Query(`
		SELECT count(*) FROM publications_by_user WHERE user_id = ?;`,
		userID,
	).WithContext(ctx).Scan(&total); err != nil {
		return 0, fmt.Errorf("ScyllaDB: %w", err)
	}
	return total, nil
}
