// Package service drives the two-step registration flow: attach the chat
// account, attach the identity-provider account, then complete. The advisory
// checker is consulted as each side arrives so a doomed registration fails
// early instead of at the end.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	perr "rolelink/internal/platform/errors"
	"rolelink/internal/platform/logger"
	iddom "rolelink/internal/services/identity/domain"
	"rolelink/internal/services/register/domain"
)

// DefaultTTL is how long an unfinished registration survives
const DefaultTTL = 30 * time.Minute

// Config for the register service
type Config struct {
	// SessionTTL overrides DefaultTTL when positive
	SessionTTL time.Duration
}

// Svc owns registration sessions
type Svc struct {
	sessions domain.SessionPort
	checker  iddom.CheckerPort
	creator  iddom.CreatorPort
	ttl      time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// New constructs the register service
func New(sessions domain.SessionPort, checker iddom.CheckerPort, creator iddom.CreatorPort, cfg Config) *Svc {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Svc{
		sessions: sessions,
		checker:  checker,
		creator:  creator,
		ttl:      ttl,
		log:      logger.Named("register"),
		now:      time.Now,
	}
}

// Begin opens a fresh registration session
func (s *Svc) Begin(ctx context.Context) (*domain.Session, error) {
	now := s.now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.log.Debug().Str("session_id", sess.ID).Msg("registration started")
	return sess, nil
}

// Get returns the session or a not-found error
func (s *Svc) Get(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, perr.NotFoundf("registration session %s not found or expired", id)
	}
	return sess, nil
}

// AttachDiscord records the chat side on the session after checking the
// advisory for that side alone
func (s *Svc) AttachDiscord(ctx context.Context, id, discordID, username, avatar string) (*domain.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	adv, err := s.checker.CanCreateAccount(ctx, discordID, "")
	if err != nil {
		return nil, err
	}
	if !adv.Allowed() {
		return nil, perr.UserFacing(perr.ErrorCodeAccountCreationDenied, adv.Reason(), adv.I18nKey(), adv.I18nData())
	}

	sess.DiscordID = discordID
	sess.DiscordUsername = username
	sess.DiscordAvatar = avatar
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// AttachIdp records the identity-provider side on the session after checking
// the advisory for that side alone
func (s *Svc) AttachIdp(ctx context.Context, id, idpID, email string) (*domain.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	adv, err := s.checker.CanCreateAccount(ctx, "", idpID)
	if err != nil {
		return nil, err
	}
	if !adv.Allowed() {
		return nil, perr.UserFacing(perr.ErrorCodeAccountCreationDenied, adv.Reason(), adv.I18nKey(), adv.I18nData())
	}

	sess.IdpID = idpID
	sess.Email = email
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Complete turns a ready session into an account and discards the session.
// The creator re-runs the full advisory, so a ban landing mid-flow still
// blocks the account.
func (s *Svc) Complete(ctx context.Context, id string, keepIdentity bool) (*iddom.User, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.Ready() {
		return nil, perr.Newf(perr.ErrorCodeIncompleteRegistration,
			"registration %s is missing an account side", id)
	}

	grant := iddom.AccessGrant{}
	if keepIdentity {
		grant = iddom.GrantIdentityAccess(sess.DiscordID, "account creation with identity retention", true)
	}

	u, err := s.creator.CreateUser(ctx, iddom.CreateUserInput{
		DiscordID:    sess.DiscordID,
		IdpID:        sess.IdpID,
		Email:        sess.Email,
		KeepIdentity: keepIdentity,
	}, grant)
	if err != nil {
		return nil, err
	}

	if derr := s.sessions.Delete(ctx, id); derr != nil {
		s.log.Warn().Err(derr).Str("session_id", id).Msg("could not discard completed session")
	}
	s.log.Info().Str("discord_id", u.DiscordID).Msg("registration completed")
	return u, nil
}

// Cancel discards a session without creating anything
func (s *Svc) Cancel(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}
