// Package service implements command authorization, target resolution, and
// the bulk role-synchronization orchestrator
package service

import (
	"context"
	"sync"
	"time"

	"rolelink/internal/platform/logger"
	"rolelink/internal/services/bot/domain"
	iddom "rolelink/internal/services/identity/domain"
)

// Defaults for the sync rate discipline
const (
	DefaultPrefix    = "e!"
	DefaultChunkSize = 10
	DefaultStagger   = 20 * time.Millisecond
)

// IdentityPort is the slice of the identity service the bot needs
type IdentityPort interface {
	iddom.ReaderPort
	IsAdmin(discordID string) bool
	CanPerformAdminActions(ctx context.Context, u *iddom.User) (iddom.AdminStatus, error)
}

// Config for the bot service
type Config struct {
	// Prefix marks command messages, DefaultPrefix when empty
	Prefix string

	// MonitoredServers lists the server ids subject to commands
	MonitoredServers []string

	// ChunkSize bounds how many refreshes run concurrently per batch
	ChunkSize int

	// Stagger spaces out submissions inside one batch. Zero means
	// DefaultStagger; negative disables staggering.
	Stagger time.Duration
}

// Svc owns the immutable command table and runs accepted commands
type Svc struct {
	cfg       Config
	commands  map[string]*domain.Command
	monitored map[string]struct{}
	ids       IdentityPort
	dir       domain.DirectoryPort
	msg       domain.MessengerPort
	log       *logger.Logger
	syncs     sync.WaitGroup
}

// New constructs the bot service and registers the built-in commands
func New(ids IdentityPort, dir domain.DirectoryPort, msg domain.MessengerPort, cfg Config) *Svc {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Stagger == 0 {
		cfg.Stagger = DefaultStagger
	}

	monitored := make(map[string]struct{}, len(cfg.MonitoredServers))
	for _, id := range cfg.MonitoredServers {
		monitored[id] = struct{}{}
	}

	s := &Svc{
		cfg:       cfg,
		monitored: monitored,
		ids:       ids,
		dir:       dir,
		msg:       msg,
		log:       logger.Named("bot"),
	}
	s.commands = map[string]*domain.Command{
		"update": {Name: "update", Permission: domain.PermAdmin, RequireMonitoredServer: true, Run: s.runUpdate},
		"count":  {Name: "count", Permission: domain.PermAdmin, RequireMonitoredServer: true, Run: s.runCount},
		"lang":   {Name: "lang", Permission: domain.PermAnyone, Run: s.runLang},
		"help":   {Name: "help", Permission: domain.PermAnyone, Run: s.runHelp},
	}
	return s
}

// Monitored reports whether the server id is subject to commands
func (s *Svc) Monitored(serverID string) bool {
	_, ok := s.monitored[serverID]
	return ok
}

// Wait blocks until every detached synchronization has drained
func (s *Svc) Wait() { s.syncs.Wait() }
