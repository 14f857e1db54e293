package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ratePrefix  = "rate:"
	streamPosts = "campuswatch.posts"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// AllowWindow implements a fixed-window counter: the first hit sets the TTL,
// later hits within the window only increment. Returns false once limit is
// exceeded.
func AllowWindow(ctx context.Context, rdb *redis.Client, key string, limit int64, window time.Duration) (bool, error) {
	n, err := rdb.Incr(ctx, ratePrefix+key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		_ = rdb.Expire(ctx, ratePrefix+key, window).Err()
	}
	return n <= limit, nil
}

// PublishPost emits a feed event for downstream consumers (digest bots,
// notification workers).
func PublishPost(ctx context.Context, rdb *redis.Client, payload map[string]interface{}) error {
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamPosts,
		Values: payload,
	}).Result()
	return err
}
