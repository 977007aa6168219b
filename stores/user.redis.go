package stores

import (
	"SOCIAL_server/global"
	"SOCIAL_server/schemas"
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const userCachePrefix = "users:"

// CachedUserDirectory is a read-through Redis cache in front of another UserDirectory.
// Redis failures never fail a lookup, the wrapped directory answers instead.
type CachedUserDirectory struct {
	client *redis.Client
	next   UserDirectory
	ttl    time.Duration
}

// NewCachedUserDirectory wraps next with a cache whose entries expire after ttl
func NewCachedUserDirectory(client *redis.Client, next UserDirectory, ttl time.Duration) *CachedUserDirectory {
	return &CachedUserDirectory{
		client: client,
		next:   next,
		ttl:    ttl,
	}
}

// Exists answers from the cache when the user is cached, misses are not cached
func (d *CachedUserDirectory) Exists(ctx context.Context, userID string) (bool, error) {
	found, err := d.client.Exists(ctx, userCachePrefix+userID).Result()
	if err != nil {
		d.logDegraded("exists_user", err)
	} else if found == 1 {
		return true, nil
	}
	return d.next.Exists(ctx, userID)
}

// Summaries reads every id in one pipeline and loads the misses from the wrapped directory
func (d *CachedUserDirectory) Summaries(ctx context.Context, ids []string) (map[string]schemas.UserSummarySchema, error) {
	ids = dedupe(ids)
	users := make(map[string]schemas.UserSummarySchema, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cmds := make(map[string]*redis.StringStringMapCmd, len(ids))
	pipe := d.client.Pipeline()
	for _, id := range ids {
		cmds[id] = pipe.HGetAll(ctx, userCachePrefix+id)
	}

	missing := ids
	if _, err := pipe.Exec(ctx); err != nil {
		d.logDegraded("get_users", err)
	} else {
		missing = []string{}
		for _, id := range ids {
			res := cmds[id].Val()
			if _, ok := res["user_id"]; !ok {
				missing = append(missing, id)
				continue
			}
			users[id] = schemas.UserSummarySchema{
				UserID:  res["user_id"],
				Name:    res["name"],
				Surname: res["surname"],
				Nick:    res["nick"],
				Image:   res["image"],
			}
		}
	}

	if len(missing) == 0 {
		return users, nil
	}

	loaded, err := d.next.Summaries(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, user := range loaded {
		users[id] = user
	}

	d.store(ctx, loaded)
	return users, nil
}

// List is not cached, pages shift whenever users are added
func (d *CachedUserDirectory) List(ctx context.Context, offset int, limit int) ([]schemas.UserSummarySchema, int, error) {
	return d.next.List(ctx, offset, limit)
}

func (d *CachedUserDirectory) store(ctx context.Context, users map[string]schemas.UserSummarySchema) {
	if len(users) == 0 {
		return
	}
	_, err := d.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for id, user := range users {
			query := map[string]interface{}{
				"user_id": user.UserID,
				"name":    user.Name,
				"surname": user.Surname,
				"nick":    user.Nick,
				"image":   user.Image,
			}
			pipe.HSet(ctx, userCachePrefix+id, query)
			pipe.Expire(ctx, userCachePrefix+id, d.ttl)
		}
		return nil
	})
	if err != nil {
		d.logDegraded("set_users", err)
	}
}

func (d *CachedUserDirectory) logDegraded(problem string, err error) {
	global.MonitorLogger.WithFields(logrus.Fields{"problem": problem}).Warn("Redis: " + err.Error())
}
