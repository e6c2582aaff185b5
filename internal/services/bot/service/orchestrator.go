package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Reactions signalling sync completion on the invoking message
const (
	reactionDone     = "✅"
	reactionWarnings = "⚠"
)

// synchronize refreshes roles for every target id. Ids are processed in
// batches of cfg.ChunkSize; batches run strictly in sequence, and inside a
// batch submissions are spaced by cfg.Stagger to cap the instantaneous rate
// against the directory. A failing target is logged and flagged but never
// stops its siblings. Returns whether any target failed.
func (s *Svc) synchronize(ctx context.Context, targetIDs []string) bool {
	var hadErrors atomic.Bool

	for start := 0; start < len(targetIDs); start += s.cfg.ChunkSize {
		end := min(start+s.cfg.ChunkSize, len(targetIDs))

		var wg sync.WaitGroup
		for i, id := range targetIDs[start:end] {
			if i > 0 && s.cfg.Stagger > 0 {
				time.Sleep(s.cfg.Stagger)
			}
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						hadErrors.Store(true)
						s.log.Error().Str("target_id", id).Any("panic", r).Msg("role refresh panicked")
					}
				}()
				if err := s.dir.RefreshUserRoles(ctx, id); err != nil {
					hadErrors.Store(true)
					s.log.Warn().Err(err).Str("target_id", id).Msg("role refresh failed")
				}
			}(id)
		}
		wg.Wait()
	}

	return hadErrors.Load()
}

// launchSync runs synchronize detached from the invoking call path and
// acknowledges completion with reactions on the triggering message. The done
// reaction is always added; the warning reaction joins it when any target
// failed.
func (s *Svc) launchSync(ctx context.Context, channelID, messageID string, targetIDs []string) {
	detached := context.WithoutCancel(ctx)
	s.syncs.Add(1)
	go func() {
		defer s.syncs.Done()
		hadErrors := s.synchronize(detached, targetIDs)
		if err := s.dir.AddReaction(detached, channelID, messageID, reactionDone); err != nil {
			s.log.Warn().Err(err).Msg("could not acknowledge sync completion")
		}
		if hadErrors {
			if err := s.dir.AddReaction(detached, channelID, messageID, reactionWarnings); err != nil {
				s.log.Warn().Err(err).Msg("could not acknowledge sync warnings")
			}
		}
		s.log.Info().Int("targets", len(targetIDs)).Bool("had_errors", hadErrors).Msg("role sync finished")
	}()
}
