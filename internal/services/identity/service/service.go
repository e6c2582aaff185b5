// Package service implements the advisory checker and account creation gate
package service

import (
	"crypto/sha256"
	"time"

	"rolelink/internal/platform/logger"
	auditdom "rolelink/internal/services/audit/domain"
	"rolelink/internal/services/identity/domain"
)

// Config for the identity service
type Config struct {
	// Admins is the static list of chat-platform ids allowed to run
	// administrative commands; immutable after startup
	Admins []string
}

// Svc implements domain.CheckerPort, domain.CreatorPort, and domain.ReaderPort
type Svc struct {
	storage domain.StoragePort
	audit   auditdom.RecorderPort
	cfg     Config
	admins  map[string]struct{}
	log     *logger.Logger
	now     func() time.Time
}

// New constructs the identity service
func New(storage domain.StoragePort, audit auditdom.RecorderPort, cfg Config) *Svc {
	admins := make(map[string]struct{}, len(cfg.Admins))
	for _, a := range cfg.Admins {
		admins[a] = struct{}{}
	}
	return &Svc{
		storage: storage,
		audit:   audit,
		cfg:     cfg,
		admins:  admins,
		log:     logger.Named("identity"),
		now:     time.Now,
	}
}

// HashIdpID is the fixed one-way digest applied to identity-provider ids
// before anything touches storage
func HashIdpID(idpID string) []byte {
	sum := sha256.Sum256([]byte(idpID))
	return sum[:]
}

// IsAdmin reports whether the id is on the static admin list
func (s *Svc) IsAdmin(discordID string) bool {
	_, ok := s.admins[discordID]
	return ok
}
