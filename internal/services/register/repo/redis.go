// Package repo provides session store implementations
package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	perr "rolelink/internal/platform/errors"
	"rolelink/internal/platform/store/rd"
	"rolelink/internal/services/register/domain"
)

const keyPrefix = "register:"

// Redis stores registration sessions in redis with a TTL matching the
// session expiry
type Redis struct {
	client *redis.Client
}

// NewRedis constructs the redis-backed session store
func NewRedis(r *rd.RD) *Redis { return &Redis{client: r.Client} }

func (r *Redis) key(id string) string { return keyPrefix + id }

// Save implements domain.SessionPort
func (r *Redis) Save(ctx context.Context, s *domain.Session) error {
	if s.ID == "" {
		return perr.InvalidArgf("session id must not be empty")
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return r.client.Del(ctx, r.key(s.ID)).Err()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "marshal session")
	}
	return r.client.Set(ctx, r.key(s.ID), data, ttl).Err()
}

// Get implements domain.SessionPort
func (r *Redis) Get(ctx context.Context, id string) (*domain.Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "unmarshal session")
	}
	return &s, nil
}

// Delete implements domain.SessionPort
func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}
