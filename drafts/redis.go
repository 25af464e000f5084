package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/raushankrgupta/merchant-dashboard/errx"
	"github.com/raushankrgupta/merchant-dashboard/logx"
)

// ConnectRedis parses the URL and pings the server
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.DialTimeout = 5 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errx.WrapRedis(err)
	}
	return client, nil
}

// RedisStore keeps each draft as a JSON string with an expiry
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (r *RedisStore) key(id string) string {
	return fmt.Sprintf("wizard:draft:%s", id)
}

func (r *RedisStore) Save(ctx context.Context, d *Draft) error {
	d.UpdatedAt = time.Now().UTC()
	b, err := encode(d)
	if err != nil {
		return err
	}
	key := r.key(d.ID)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save draft to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Draft, error) {
	key := r.key(id)
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load draft from redis")
		return nil, errx.WrapRedis(err)
	}
	return decode(b)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	key := r.key(id)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete draft from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
