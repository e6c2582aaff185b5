// Package service implements the identity-access audit trail
package service

import (
	"context"
	"time"

	"rolelink/internal/platform/logger"
	"rolelink/internal/services/audit/domain"
)

// Storage is what the service needs from its repo
type Storage interface {
	Append(ctx context.Context, ev domain.Event) error
	Recent(ctx context.Context, target string, limit int) ([]domain.Event, error)
}

// Svc implements domain.RecorderPort and domain.QueryPort
type Svc struct {
	storage Storage
	log     *logger.Logger
	now     func() time.Time
}

// New constructs the audit service
func New(storage Storage) *Svc {
	return &Svc{storage: storage, log: logger.Named("audit"), now: time.Now}
}

// Record implements domain.RecorderPort. Failures to append are logged and
// swallowed: the access already took place and the caller must not fail on a
// trail hiccup.
func (s *Svc) Record(ctx context.Context, ev domain.Event) {
	if ev.At.IsZero() {
		ev.At = s.now()
	}
	if err := s.storage.Append(ctx, ev); err != nil {
		s.log.Error().Err(err).
			Str("requester", ev.Requester).
			Str("target", ev.Target).
			Msg("identity access not recorded")
		return
	}
	s.log.Info().
		Str("requester", ev.Requester).
		Str("target", ev.Target).
		Str("reason", ev.Reason).
		Bool("automated", ev.Automated).
		Msg("identity access recorded")
}

// Recent implements domain.QueryPort
func (s *Svc) Recent(ctx context.Context, target string, limit int) ([]domain.Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.storage.Recent(ctx, target, limit)
}
