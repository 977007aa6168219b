package services

import (
	"SOCIAL_server/errors"
	"SOCIAL_server/global"
	"SOCIAL_server/helpers"
	"SOCIAL_server/schemas"
	"SOCIAL_server/stores"
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// RelationService maintains the follow graph and derives relation states and counters
type RelationService struct {
	relations    stores.RelationStore
	users        stores.UserDirectory
	publications stores.PublicationCounter
}

// NewRelationService builds the service on top of its stores
func NewRelationService(relations stores.RelationStore, users stores.UserDirectory, publications stores.PublicationCounter) *RelationService {
	return &RelationService{
		relations:    relations,
		users:        users,
		publications: publications,
	}
}

// Follow creates the edge subject -> target
func (s *RelationService) Follow(ctx context.Context, subjectID string, targetID string) (schemas.FollowEdgeSchema, error) {

	targetID = strings.TrimSpace(targetID)
	if subjectID == "" {
		return schemas.FollowEdgeSchema{}, errors.Validation("Subject", "required")
	}
	if targetID == "" {
		return schemas.FollowEdgeSchema{}, errors.Validation("Followed", "required")
	}
	if subjectID == targetID {
		return schemas.FollowEdgeSchema{}, errors.Validation("Followed", "self")
	}

	exists, err := s.users.Exists(ctx, targetID)
	if err != nil {
		return schemas.FollowEdgeSchema{}, errors.StorageUnavailable("users", err)
	}
	if !exists {
		return schemas.FollowEdgeSchema{}, errors.InvalidReference("Followed", targetID)
	}

	edge, err := s.relations.CreateEdge(ctx, subjectID, targetID)
	if err != nil {
		if errors.Is(err, errors.ErrDuplicateEdge) {
			return schemas.FollowEdgeSchema{}, err
		}
		return schemas.FollowEdgeSchema{}, errors.StorageUnavailable("follows", err)
	}

	return edge, nil
}

// Unfollow removes the edge subject -> target, a missing edge is not an error
func (s *RelationService) Unfollow(ctx context.Context, subjectID string, targetID string) (bool, error) {

	if subjectID == "" {
		return false, errors.Validation("Subject", "required")
	}
	if targetID == "" {
		return false, errors.Validation("Followed", "required")
	}

	removed, err := s.relations.DeleteEdge(ctx, subjectID, targetID)
	if err != nil {
		return false, errors.StorageUnavailable("follows", err)
	}
	return removed, nil
}

// RelationshipBetween checks both directions between subject and other in parallel
func (s *RelationService) RelationshipBetween(ctx context.Context, subjectID string, otherID string) (schemas.RelationshipSchema, error) {

	var following, followed bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		following, err = s.relations.Exists(gctx, subjectID, otherID)
		return err
	})
	g.Go(func() error {
		var err error
		followed, err = s.relations.Exists(gctx, otherID, subjectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return schemas.RelationshipSchema{}, errors.QueryFailed("relationship", err)
	}

	return schemas.RelationshipSchema{
		Following: following,
		Followed:  followed,
	}, nil
}

// RelationshipSets lists the ids subject follows and the ids following subject.
// Each set is its own snapshot, they are not consistent with each other under concurrent writes.
func (s *RelationService) RelationshipSets(ctx context.Context, subjectID string) (schemas.RelationSetsSchema, error) {

	var following, followed []schemas.FollowEdgeSchema

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		following, err = s.relations.ListByFollower(gctx, subjectID)
		return err
	})
	g.Go(func() error {
		var err error
		followed, err = s.relations.ListByFollowed(gctx, subjectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return schemas.RelationSetsSchema{}, errors.QueryFailed("relationship_sets", err)
	}

	sets := schemas.RelationSetsSchema{
		Following: make([]string, 0, len(following)),
		Followed:  make([]string, 0, len(followed)),
	}
	for _, edge := range following {
		sets.Following = append(sets.Following, edge.FollowedID)
	}
	for _, edge := range followed {
		sets.Followed = append(sets.Followed, edge.FollowerID)
	}
	return sets, nil
}

// Counters aggregates the following, followed and publication counts of userID
func (s *RelationService) Counters(ctx context.Context, userID string) (schemas.CountersSchema, error) {

	var counters schemas.CountersSchema

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counters.Following, err = s.relations.CountByFollower(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		counters.Followed, err = s.relations.CountByFollowed(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		counters.Publications, err = s.publications.CountByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return schemas.CountersSchema{}, errors.QueryFailed("counters", err)
	}

	return counters, nil
}

// Profile returns a user's summary alongside the subject's relation to them
func (s *RelationService) Profile(ctx context.Context, subjectID string, userID string) (schemas.ProfileSchema, error) {

	users, err := s.users.Summaries(ctx, []string{userID})
	if err != nil {
		return schemas.ProfileSchema{}, errors.StorageUnavailable("users", err)
	}
	user, ok := users[userID]
	if !ok {
		return schemas.ProfileSchema{}, errors.InvalidReference("UserID", userID)
	}

	relationship, err := s.RelationshipBetween(ctx, subjectID, userID)
	if err != nil {
		return schemas.ProfileSchema{}, err
	}

	return schemas.ProfileSchema{
		User:      user,
		Following: relationship.Following,
		Followed:  relationship.Followed,
	}, nil
}

// ListUsers returns a page of users annotated with the subject's relation sets,
// the sets are computed once for the whole page
func (s *RelationService) ListUsers(ctx context.Context, subjectID string, page int) (schemas.UserListSchema, error) {

	page = helpers.NormalizePage(page)

	users, total, err := s.users.List(ctx, helpers.PageOffset(page, global.UserPageSize), global.UserPageSize)
	if err != nil {
		return schemas.UserListSchema{}, errors.StorageUnavailable("users", err)
	}

	sets, err := s.RelationshipSets(ctx, subjectID)
	if err != nil {
		return schemas.UserListSchema{}, err
	}

	return schemas.UserListSchema{
		PageSchema:     helpers.NewPage(users, total, page, global.UserPageSize),
		UsersFollowing: sets.Following,
		UsersFollowMe:  sets.Followed,
	}, nil
}

// ListFollowing returns a page of the users userID follows, newest edge first
func (s *RelationService) ListFollowing(ctx context.Context, userID string, page int) (schemas.PageSchema[schemas.FollowListItemSchema], error) {
	edges, err := s.relations.ListByFollower(ctx, userID)
	if err != nil {
		return schemas.PageSchema[schemas.FollowListItemSchema]{}, errors.StorageUnavailable("follows", err)
	}
	return s.followPage(ctx, edges, page, func(edge schemas.FollowEdgeSchema) string { return edge.FollowedID })
}

// ListFollowers returns a page of the users following userID, newest edge first
func (s *RelationService) ListFollowers(ctx context.Context, userID string, page int) (schemas.PageSchema[schemas.FollowListItemSchema], error) {
	edges, err := s.relations.ListByFollowed(ctx, userID)
	if err != nil {
		return schemas.PageSchema[schemas.FollowListItemSchema]{}, errors.StorageUnavailable("follows", err)
	}
	return s.followPage(ctx, edges, page, func(edge schemas.FollowEdgeSchema) string { return edge.FollowerID })
}

// followPage slices the edges and joins the user summaries of that slice only
func (s *RelationService) followPage(ctx context.Context, edges []schemas.FollowEdgeSchema, page int, other func(schemas.FollowEdgeSchema) string) (schemas.PageSchema[schemas.FollowListItemSchema], error) {

	page = helpers.NormalizePage(page)
	window := helpers.SlicePage(edges, page, global.FollowPageSize)

	ids := make([]string, 0, len(window))
	for _, edge := range window {
		ids = append(ids, other(edge))
	}

	users, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return schemas.PageSchema[schemas.FollowListItemSchema]{}, errors.StorageUnavailable("users", err)
	}

	items := make([]schemas.FollowListItemSchema, 0, len(window))
	for _, edge := range window {
		user, ok := users[other(edge)]
		if !ok {
			user = schemas.UserSummarySchema{UserID: other(edge)}
		}
		items = append(items, schemas.FollowListItemSchema{
			User:    user,
			Created: edge.Created,
		})
	}

	return helpers.NewPage(items, len(edges), page, global.FollowPageSize), nil
}
