package stores

import (
	"SOCIAL_server/schemas"
	"context"
	"database/sql"
	"fmt"
)

// SQLiteUserDirectory reads user summaries from the users table
type SQLiteUserDirectory struct {
	db *sql.DB
}

// Exists checks whether userID denotes a known user
func (s *SQLiteUserDirectory) Exists(ctx context.Context, userID string) (bool, error) {
	var found int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE user_id = ? LIMIT 1;`, userID).Scan(&found)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("users: %w", err)
	}
	return true, nil
}

// Summaries resolves all ids in one query
func (s *SQLiteUserDirectory) Summaries(ctx context.Context, ids []string) (map[string]schemas.UserSummarySchema, error) {
	ids = dedupe(ids)
	users := make(map[string]schemas.UserSummarySchema, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, name, surname, nick, image FROM users
		WHERE user_id IN (`+placeholders(len(ids))+`);`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user schemas.UserSummarySchema
		if err := rows.Scan(&user.UserID, &user.Name, &user.Surname, &user.Nick, &user.Image); err != nil {
			return nil, fmt.Errorf("users: %w", err)
		}
		users[user.UserID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	return users, nil
}

// List pages through users ordered by id
func (s *SQLiteUserDirectory) List(ctx context.Context, offset int, limit int) ([]schemas.UserSummarySchema, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users;`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("users: %w", err)
	}

	users := []schemas.UserSummarySchema{}
	if offset >= total {
		return users, total, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, name, surname, nick, image FROM users
		ORDER BY user_id ASC LIMIT ? OFFSET ?;`,
		limit,
		offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var user schemas.UserSummarySchema
		if err := rows.Scan(&user.UserID, &user.Name, &user.Surname, &user.Nick, &user.Image); err != nil {
			return nil, 0, fmt.Errorf("users: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("users: %w", err)
	}
	return users, total, nil
}

// SQLitePublicationCounter counts rows of the publications table
type SQLitePublicationCounter struct {
	db *sql.DB
}

// CountByUser counts the publications of userID
func (s *SQLitePublicationCounter) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM publications WHERE user_id = ?;`, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("publications: %w", err)
	}
	return total, nil
}
