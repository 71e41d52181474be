package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisVault persists the session pair in Redis, for shared front-desk
// workstations where the session should follow the terminal, not the file
// system.
type RedisVault struct {
	client *redis.Client
	prefix string
}

// NewRedisVault creates a vault on client under prefix (e.g. a workstation
// id). Both keys live and die together.
func NewRedisVault(client *redis.Client, prefix string) (*RedisVault, error) {
	if client == nil {
		return nil, fmt.Errorf("session: redis client is required")
	}
	if prefix == "" {
		prefix = "practicekit"
	}
	return &RedisVault{client: client, prefix: prefix}, nil
}

func (v *RedisVault) tokenKey() string { return v.prefix + ":session:token" }
func (v *RedisVault) userKey() string  { return v.prefix + ":session:user" }

func (v *RedisVault) Load(ctx context.Context) (string, []byte, error) {
	token, err := v.client.Get(ctx, v.tokenKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("session: redis load token: %w", err)
	}

	userJSON, err := v.client.Get(ctx, v.userKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		// Half a session is no session.
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("session: redis load user: %w", err)
	}
	return token, userJSON, nil
}

func (v *RedisVault) Store(ctx context.Context, token string, userJSON []byte) error {
	pipe := v.client.TxPipeline()
	pipe.Set(ctx, v.tokenKey(), token, 0)
	pipe.Set(ctx, v.userKey(), userJSON, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: redis store: %w", err)
	}
	return nil
}

func (v *RedisVault) Clear(ctx context.Context) error {
	if err := v.client.Del(ctx, v.tokenKey(), v.userKey()).Err(); err != nil {
		return fmt.Errorf("session: redis clear: %w", err)
	}
	return nil
}
