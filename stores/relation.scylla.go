package stores

import (
	"SOCIAL_server/errors"
	"SOCIAL_server/schemas"
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

// ScyllaRelationStore keeps each edge twice, partitioned by follower and by followed.
// follows_by_follower is the source of truth, the lightweight transaction on it
// decides which of two concurrent follows wins.
type ScyllaRelationStore struct {
	session *gocql.Session
}

// CreateEdge inserts the edge with IF NOT EXISTS and mirrors it into follows_by_followed
func (s *ScyllaRelationStore) CreateEdge(ctx context.Context, followerID string, followedID string) (schemas.FollowEdgeSchema, error) {

	edgeID := gocql.TimeUUID()
	created := edgeID.Time().UTC().Truncate(time.Millisecond)

	existing := make(map[string]interface{})
	applied, err := s.session.Query(`
		INSERT INTO follows_by_follower (
			follower_id,
			followed_id,
			edge_id,
			created)
		VALUES(?,?,?,?)
		IF NOT EXISTS;`,
		followerID,
		followedID,
		edgeID,
		created,
	).WithContext(ctx).MapScanCAS(existing)
	if err != nil {
		return schemas.FollowEdgeSchema{}, fmt.Errorf("ScyllaDB: %w", err)
	}
	if !applied {
		return schemas.FollowEdgeSchema{}, errors.DuplicateEdge(followerID, followedID)
	}

	err = s.session.Query(`
		INSERT INTO follows_by_followed (
			followed_id,
			follower_id,
			edge_id,
			created)
		VALUES(?,?,?,?);`,
		followedID,
		followerID,
		edgeID,
		created,
	).WithContext(ctx).Exec()
	if err != nil {
		cctx, cancel := compensationContext()
		defer cancel()
		rollbackErr := s.session.Query(`
			DELETE FROM follows_by_follower WHERE follower_id = ? AND followed_id = ?;`,
			followerID,
			followedID,
		).WithContext(cctx).Exec()
		if rollbackErr != nil {
			errors.HandleComplexError("follows_by_follower", "ScyllaDB rollback: "+rollbackErr.Error())
		}
		return schemas.FollowEdgeSchema{}, fmt.Errorf("ScyllaDB: %w", err)
	}

	return schemas.FollowEdgeSchema{
		EdgeID:     edgeID.String(),
		FollowerID: followerID,
		FollowedID: followedID,
		Created:    created,
	}, nil
}

// DeleteEdge removes the edge with IF EXISTS and then its mirror row. When the mirror
// delete keeps failing the follower row is restored, so both tables still agree.
func (s *ScyllaRelationStore) DeleteEdge(ctx context.Context, followerID string, followedID string) (bool, error) {

	if !validUUID(followerID) || !validUUID(followedID) {
		return false, nil
	}

	var (
		edgeID  gocql.UUID
		created time.Time
	)
	err := s.session.Query(`
		SELECT edge_id, created FROM follows_by_follower WHERE follower_id = ? AND followed_id = ? LIMIT 1;`,
		followerID,
		followedID,
	).WithContext(ctx).Scan(&edgeID, &created)
	if err != nil {
		if err == gocql.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("ScyllaDB: %w", err)
	}

	existing := make(map[string]interface{})
	applied, err := s.session.Query(`
		DELETE FROM follows_by_follower WHERE follower_id = ? AND followed_id = ? IF EXISTS;`,
		followerID,
		followedID,
	).WithContext(ctx).MapScanCAS(existing)
	if err != nil {
		return false, fmt.Errorf("ScyllaDB: %w", err)
	}
	if !applied {
		return false, nil
	}

	mirror := `DELETE FROM follows_by_followed WHERE followed_id = ? AND follower_id = ?;`
	err = s.session.Query(mirror, followedID, followerID).WithContext(ctx).Exec()
	if err == nil {
		return true, nil
	}

	cctx, cancel := compensationContext()
	defer cancel()

	if retryErr := s.session.Query(mirror, followedID, followerID).WithContext(cctx).Exec(); retryErr == nil {
		return true, nil
	}

	_, restoreErr := s.session.Query(`
		INSERT INTO follows_by_follower (
			follower_id,
			followed_id,
			edge_id,
			created)
		VALUES(?,?,?,?)
		IF NOT EXISTS;`,
		followerID,
		followedID,
		edgeID,
		created,
	).WithContext(cctx).MapScanCAS(make(map[string]interface{}))
	if restoreErr != nil {
		errors.HandleComplexError("follows_by_follower", "ScyllaDB restore: "+restoreErr.Error())
		return true, fmt.Errorf("ScyllaDB: %w", err)
	}

	return false, fmt.Errorf("ScyllaDB: %w", err)
}

// Exists checks a single ordered pair
func (s *ScyllaRelationStore) Exists(ctx context.Context, followerID string, followedID string) (bool, error) {

	if !validUUID(followerID) || !validUUID(followedID) {
		return false, nil
	}

	var edgeID gocql.UUID
	err := s.session.Query(`
		SELECT edge_id FROM follows_by_follower WHERE follower_id = ? AND followed_id = ? LIMIT 1;`,
		followerID,
		followedID,
	).WithContext(ctx).Scan(&edgeID)
	if err != nil {
		if err == gocql.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("ScyllaDB: %w", err)
	}
	return true, nil
}

// ListByFollower lists the edges going out of userID
func (s *ScyllaRelationStore) ListByFollower(ctx context.Context, userID string) ([]schemas.FollowEdgeSchema, error) {
	return s.list(ctx, `
		SELECT follower_id, followed_id, edge_id, created FROM follows_by_follower WHERE follower_id = ?;`,
		userID,
	)
}

// ListByFollowed lists the edges pointing at userID
func (s *ScyllaRelationStore) ListByFollowed(ctx context.Context, userID string) ([]schemas.FollowEdgeSchema, error) {
	return s.list(ctx, `
		SELECT follower_id, followed_id, edge_id, created FROM follows_by_followed WHERE followed_id = ?;`,
		userID,
	)
}

// CountByFollower counts the users userID follows
func (s *ScyllaRelationStore) CountByFollower(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM follows_by_follower WHERE follower_id = ?;`, userID)
}

// CountByFollowed counts the users following userID
func (s *ScyllaRelationStore) CountByFollowed(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, `SELECT count(*) FROM follows_by_followed WHERE followed_id = ?;`, userID)
}

func (s *ScyllaRelationStore) list(ctx context.Context, query string, userID string) ([]schemas.FollowEdgeSchema, error) {

	if !validUUID(userID) {
		return []schemas.FollowEdgeSchema{}, nil
	}

	iter := s.session.Query(query, userID).WithContext(ctx).Iter()

	edges := []schemas.FollowEdgeSchema{}

	var (
		followerID gocql.UUID
		followedID gocql.UUID
		edgeID     gocql.UUID
		created    time.Time
	)
	for iter.Scan(&followerID, &followedID, &edgeID, &created) {
		edges = append(edges, schemas.FollowEdgeSchema{
			EdgeID:     edgeID.String(),
			FollowerID: followerID.String(),
			FollowedID: followedID.String(),
			Created:    created.UTC(),
		})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("ScyllaDB: %w", err)
	}

	sortNewestFirst(edges)

	return edges, nil
}

func (s *ScyllaRelationStore) count(ctx context.Context, query string, userID string) (int, error) {
	if !validUUID(userID) {
		return 0, nil
	}
	var total int
	if err := s.session.Query(query, userID).WithContext(ctx).Scan(&total); err != nil {
		return 0, fmt.Errorf("ScyllaDB: %w", err)
	}
	return total, nil
}
