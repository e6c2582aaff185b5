// Package store provides a unified interface to optional storage backends
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rolelink/internal/platform/logger"
	chx "rolelink/internal/platform/store/ch"
	"rolelink/internal/platform/store/pg"
	"rolelink/internal/platform/store/rd"
)

// Store is the facade for optional backends
// backends not enabled in cfg remain nil
type Store struct {
	Log logger.Logger

	// PG is the postgres sql seam, nil when disabled
	PG TxRunner

	// CH is the clickhouse seam, nil when disabled
	CH Clickhouse

	// RD is the redis seam, nil when disabled
	RD *rd.RD
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is a tiny seam for columnar writes and queries
type Clickhouse interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Config aggregates per backend configuration
type Config struct {
	PG PGConfig
	CH CHConfig
	RD RDConfig
}

// PGConfig configures postgres connectivity
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
}

// RDConfig configures redis connectivity
type RDConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// Option mutates a Store during Open
type Option func(*Store) error

// WithLogger sets the store logger
func WithLogger(l logger.Logger) Option {
	return func(s *Store) error { s.Log = l; return nil }
}

// Open constructs a Store with the requested backends
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	if cfg.PG.Enabled {
		a, err := openPG(ctx, cfg.PG)
		if err != nil {
			return nil, err
		}
		s.PG = a
	}

	if cfg.CH.Enabled {
		c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL})
		if err != nil {
			return nil, err
		}
		s.CH = newCHAdapter(c)
	}

	if cfg.RD.Enabled {
		r, err := rd.Open(ctx, rd.Config{Addr: cfg.RD.Addr, Password: cfg.RD.Password, DB: cfg.RD.DB})
		if err != nil {
			return nil, err
		}
		s.RD = r
	}

	return s, nil
}

// openPG opens the pool, waits for it to become healthy, and wraps it
func openPG(ctx context.Context, cfg PGConfig) (TxRunner, error) {
	p, err := pg.Open(ctx, pg.Config{URL: cfg.URL, MaxConns: cfg.MaxConns})
	if err != nil {
		return nil, err
	}

	const (
		maxAttempts  = 20
		pingTimeout  = 3 * time.Second
		backoffStart = 150 * time.Millisecond
		backoffCeil  = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()

		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		time.Sleep(backoff)
		if backoff < backoffCeil {
			backoff *= 2
			if backoff > backoffCeil {
				backoff = backoffCeil
			}
		}
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", maxAttempts, lastErr)
}

// Close closes all initialized backends gracefully; nil backends are ignored
func (s *Store) Close(ctx context.Context) error {
	var errs []error

	if s.CH != nil {
		if e := s.CH.Close(); e != nil {
			errs = append(errs, e)
		}
	}
	if s.RD != nil {
		if e := s.RD.Close(); e != nil {
			errs = append(errs, e)
		}
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		if e := c.Close(); e != nil {
			errs = append(errs, e)
		}
	}

	return errors.Join(errs...)
}
