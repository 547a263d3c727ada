package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConfirmationRedisStore keeps code hashes in redis and lets key expiry enforce the TTL.
type ConfirmationRedisStore struct {
	client *redis.Client
}

// NewRedisClient dials addr and verifies the connection
func NewRedisClient(ctx context.Context, redisURL, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		// accept a bare host:port as well
		opts = &redis.Options{Addr: redisURL}
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func NewConfirmationRedisStore(client *redis.Client) *ConfirmationRedisStore {
	return &ConfirmationRedisStore{client: client}
}

func confirmationKey(userID string) string {
	return fmt.Sprintf("confirmation:user:%s", userID)
}

func (s *ConfirmationRedisStore) Save(ctx context.Context, userID, codeHash string, ttl time.Duration) error {
	if err := s.client.Set(ctx, confirmationKey(userID), codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("save confirmation code: %w", err)
	}
	return nil
}

func (s *ConfirmationRedisStore) Get(ctx context.Context, userID string) (string, error) {
	hash, err := s.client.Get(ctx, confirmationKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// consumeScript deletes KEYS[1] only while it still holds ARGV[1]
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (s *ConfirmationRedisStore) Consume(ctx context.Context, userID, codeHash string) error {
	n, err := consumeScript.Run(ctx, s.client, []string{confirmationKey(userID)}, codeHash).Int()
	if err != nil {
		return fmt.Errorf("consume confirmation code: %w", err)
	}
	if n == 0 {
		return ErrCodeNotFound
	}
	return nil
}

var _ ConfirmationStore = (*ConfirmationRedisStore)(nil)
