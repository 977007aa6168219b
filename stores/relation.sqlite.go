package stores

import (
	"SOCIAL_server/errors"
	"SOCIAL_server/schemas"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLiteRelationStore keeps follow edges in the follows table
type SQLiteRelationStore struct {
	db *sql.DB
}

// CreateEdge inserts an edge, the UNIQUE(follower_id, followed_id) constraint arbitrates races
func (s *SQLiteRelationStore) CreateEdge(ctx context.Context, followerID string, followedID string) (schemas.FollowEdgeSchema, error) {
	edge := schemas.FollowEdgeSchema{
		EdgeID:     uuid.NewString(),
		FollowerID: followerID,
		FollowedID: followedID,
		Created:    time.Now().UTC(),
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO follows (edge_id, follower_id, followed_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (follower_id, followed_id) DO NOTHING;`,
		edge.EdgeID,
		edge.FollowerID,
		edge.FollowedID,
		toMillis(edge.Created),
	)
	if err != nil {
		return schemas.FollowEdgeSchema{}, fmt.Errorf("follows: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return schemas.FollowEdgeSchema{}, fmt.Errorf("follows: %w", err)
	}
	if affected == 0 {
		return schemas.FollowEdgeSchema{}, errors.DuplicateEdge(followerID, followedID)
	}

	edge.Created = fromMillis(toMillis(edge.Created))
	return edge, nil
}

// DeleteEdge removes an edge and reports whether one existed
func (s *SQLiteRelationStore) DeleteEdge(ctx context.Context, followerID string, followedID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM follows WHERE follower_id = ? AND followed_id = ?;`,
		followerID,
		followedID,
	)
	if err != nil {
		return false, fmt.Errorf("follows: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("follows: %w", err)
	}
	return affected > 0, nil
}

// Exists checks a single ordered pair
func (s *SQLiteRelationStore) Exists(ctx context.Context, followerID string, followedID string) (bool, error) {
	var found int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ? LIMIT 1;`,
		followerID,
		followedID,
	).Scan(&found)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("follows: %w", err)
	}
	return true, nil
}

// ListByFollower lists the edges going out of userID
func (s *SQLiteRelationStore) ListByFollower(ctx context.Context, userID string) ([]schemas.FollowEdgeSchema, error) {
	return s.list(ctx, `
		SELECT edge_id, follower_id, followed_id, created_at FROM follows
		WHERE follower_id = ? ORDER BY created_at DESC, rowid DESC;`, userID)
}

// ListByFollowed lists the edges pointing at userID
func (s *SQLiteRelationStore) ListByFollowed(ctx context.Context, userID string) ([]schemas.FollowEdgeSchema, error) {
	return s.list(ctx, `
		SELECT edge_id, follower_id, followed_id, created_at FROM follows
		WHERE followed_id = ? ORDER BY created_at DESC, rowid DESC;`, userID)
}

// CountByFollower counts the users userID follows
func (s *SQLiteRelationStore) CountByFollower(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM follows WHERE follower_id = ?;`, userID)
}

// CountByFollowed counts the users following userID
func (s *SQLiteRelationStore) CountByFollowed(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM follows WHERE followed_id = ?;`, userID)
}

func (s *SQLiteRelationStore) list(ctx context.Context, query string, userID string) ([]schemas.FollowEdgeSchema, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("follows: %w", err)
	}
	defer rows.Close()

	edges := []schemas.FollowEdgeSchema{}
	for rows.Next() {
		var (
			edge    schemas.FollowEdgeSchema
			created int64
		)
		if err := rows.Scan(&edge.EdgeID, &edge.FollowerID, &edge.FollowedID, &created); err != nil {
			return nil, fmt.Errorf("follows: %w", err)
		}
		edge.Created = fromMillis(created)
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("follows: %w", err)
	}
	return edges, nil
}

func (s *SQLiteRelationStore) count(ctx context.Context, query string, userID string) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("follows: %w", err)
	}
	return total, nil
}
