// Package presence provides a redis-backed PresenceStore for deployments
// that want connection state to survive a process restart or be shared with
// sidecar tooling. Semantics match the in-process tracker: one hash field
// per connection, a user is online while any field maps to them.
package presence

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

const defaultKey = "presence:connections"

// RedisStore implements ports.PresenceStore on a single redis hash.
// Field: connection id. Value: "<userID>|<role>".
type RedisStore struct {
	Client *redis.Client
	Key    string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, Key: defaultKey}
}

func (s *RedisStore) key() string {
	if s.Key != "" {
		return s.Key
	}
	return defaultKey
}

func (s *RedisStore) MarkOnline(ctx context.Context, connID, userID, role string) ([]string, error) {
	value := userID + "|" + role
	if err := s.Client.HSet(ctx, s.key(), connID, value).Err(); err != nil {
		return nil, fmt.Errorf("presence mark online: hset: %w", err)
	}
	return s.Snapshot(ctx)
}

func (s *RedisStore) MarkOffline(ctx context.Context, connID string) (string, bool, error) {
	value, err := s.Client.HGet(ctx, s.key(), connID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("presence mark offline: hget: %w", err)
	}

	userID, _, _ := strings.Cut(value, "|")

	if err := s.Client.HDel(ctx, s.key(), connID).Err(); err != nil {
		return "", false, fmt.Errorf("presence mark offline: hdel: %w", err)
	}

	online, err := s.Snapshot(ctx)
	if err != nil {
		return "", false, err
	}
	return userID, !slices.Contains(online, userID), nil
}

func (s *RedisStore) Snapshot(ctx context.Context) ([]string, error) {
	values, err := s.Client.HVals(ctx, s.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("presence snapshot: hvals: %w", err)
	}

	ids := lo.Uniq(lo.Map(values, func(v string, _ int) string {
		userID, _, _ := strings.Cut(v, "|")
		return userID
	}))
	slices.Sort(ids)
	return ids, nil
}
