package utils

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// CacheInvalidator purges cached event responses after a mutation so public
// listings reflect counter changes immediately (read-after-write on the
// availableTickets the client sees).
type CacheInvalidator struct{ rdb *redis.Client }

func NewCacheInvalidator(rdb *redis.Client) *CacheInvalidator { return &CacheInvalidator{rdb} }

func (ci *CacheInvalidator) purge(ctx context.Context, pattern string) {
	iter := ci.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		_ = ci.rdb.Del(ctx, iter.Val()).Err()
	}
}

func (ci *CacheInvalidator) PurgeEventsList(ctx context.Context) {
	ci.purge(ctx, "cache:events:list:*")
}

// Item keys embed a hash of the id, so the purge sweeps the whole item
// namespace rather than trying to reconstruct the hash per id.
func (ci *CacheInvalidator) PurgeEventItem(ctx context.Context, id string) {
	ci.purge(ctx, "cache:events:item:*")
}
