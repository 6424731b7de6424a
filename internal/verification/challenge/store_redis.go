package challenge

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"orgdesk/pkg/platform/sentinel"
)

const challengeKeyPrefix = "otp:"

// RedisStore keeps each challenge in a hash that expires with the challenge,
// so replicas share attempt counts.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func challengeKey(key Key) string {
	return challengeKeyPrefix + key.TenantID.String() + ":" + string(key.Channel) + ":" + key.Target
}

// incrementAttempts bumps the counter only while the hash exists, so a
// challenge spent concurrently is not recreated without a TTL.
var incrementAttempts = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("HINCRBY", KEYS[1], "attempts", 1)
`)

// Save replaces any pending challenge for the target and resets attempts.
func (s *RedisStore) Save(ctx context.Context, c Challenge) error {
	key := challengeKey(c.Key())
	ttl := time.Until(c.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"code_hash", c.CodeHash,
			"attempts", c.Attempts,
			"issued_at", c.IssuedAt.UnixMilli(),
			"expires_at", c.ExpiresAt.UnixMilli(),
		)
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Get(ctx context.Context, key Key) (*Challenge, error) {
	fields, err := s.client.HGetAll(ctx, challengeKey(key)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, sentinel.ErrNotFound
	}
	attempts, err := strconv.Atoi(fields["attempts"])
	if err != nil {
		return nil, errors.New("corrupt challenge attempts")
	}
	issued, err := strconv.ParseInt(fields["issued_at"], 10, 64)
	if err != nil {
		return nil, errors.New("corrupt challenge issued_at")
	}
	expires, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, errors.New("corrupt challenge expires_at")
	}
	return &Challenge{
		TenantID:  key.TenantID,
		Channel:   key.Channel,
		Target:    key.Target,
		CodeHash:  fields["code_hash"],
		Attempts:  attempts,
		IssuedAt:  time.UnixMilli(issued),
		ExpiresAt: time.UnixMilli(expires),
	}, nil
}

// IncrementAttempts bumps the attempt counter atomically.
func (s *RedisStore) IncrementAttempts(ctx context.Context, key Key) (int, error) {
	n, err := incrementAttempts.Run(ctx, s.client, []string{challengeKey(key)}).Int()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, sentinel.ErrNotFound
	}
	return n, nil
}

func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	return s.client.Del(ctx, challengeKey(key)).Err()
}
