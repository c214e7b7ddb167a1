// Package session tracks the single live refresh token per user. Redis is
// the source of truth for refresh validity: a refresh token whose signature
// still verifies is nonetheless dead once its cache entry is deleted
// (logout) or overwritten (a later login). Entries expire naturally on the
// same 7 day schedule as the tokens themselves.
package session

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
)

// ErrNoSession is returned by Get when no refresh token is stored for the
// user, either because none was ever saved or because it expired or was
// deleted.
var ErrNoSession = errors.New("no session")

// Store is the session cache contract. It is an interface so handlers can
// be tested against miniredis or an in-memory fake without a live server.
type Store interface {
    // Save records token as the user's only live refresh token,
    // overwriting any previous value (last write wins).
    Save(ctx context.Context, userID uint64, token string, ttl time.Duration) error
    // Get returns the live refresh token for the user or ErrNoSession.
    Get(ctx context.Context, userID uint64) (string, error)
    // Delete revokes the user's refresh token. Deleting an absent entry
    // is not an error.
    Delete(ctx context.Context, userID uint64) error
}

// RedisStore implements Store on a Redis client. Each operation is a single
// command, so concurrent refresh/logout races resolve by whichever write
// lands last.
type RedisStore struct{ client *redis.Client }

func NewRedisStore(client *redis.Client) *RedisStore {
    return &RedisStore{client: client}
}

func key(userID uint64) string {
    return fmt.Sprintf("refreshToken:%d", userID)
}

func (s *RedisStore) Save(ctx context.Context, userID uint64, token string, ttl time.Duration) error {
    return s.client.Set(ctx, key(userID), token, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, userID uint64) (string, error) {
    v, err := s.client.Get(ctx, key(userID)).Result()
    if errors.Is(err, redis.Nil) {
        return "", ErrNoSession
    }
    if err != nil {
        return "", err
    }
    return v, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID uint64) error {
    return s.client.Del(ctx, key(userID)).Err()
}
