// Package rd provides a redis client seam
package rd

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Config configures redis connectivity
type Config struct {
	Addr     string
	Password string
	DB       int
}

// RD wraps a go-redis client
type RD struct {
	Client *redis.Client
}

// Open connects and verifies the connection with a ping
func Open(ctx context.Context, cfg Config) (*RD, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &RD{Client: c}, nil
}

// Close closes the client
func (r *RD) Close() error { return r.Client.Close() }
