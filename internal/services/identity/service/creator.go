package service

import (
	"context"

	perr "rolelink/internal/platform/errors"
	auditdom "rolelink/internal/services/audit/domain"
	"rolelink/internal/services/identity/domain"
)

// CreateUser runs the advisory check and, when allowed, records the new user.
// A denied advisory surfaces as a user-facing error carrying the advisory's
// reason and i18n key; nothing internal leaks. Capturing the true identity
// (KeepIdentity) requires a valid access grant and is written to the audit
// trail.
func (s *Svc) CreateUser(ctx context.Context, in domain.CreateUserInput, grant domain.AccessGrant) (*domain.User, error) {
	adv, err := s.CanCreateAccount(ctx, in.DiscordID, in.IdpID)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "account creation advisory failed")
	}
	if !adv.Allowed() {
		s.log.Debug().
			Str("discord_id", in.DiscordID).
			Str("reason", adv.Reason()).
			Msg("account creation disallowed")
		return nil, perr.UserFacing(
			perr.ErrorCodeAccountCreationDenied,
			adv.Reason(), adv.I18nKey(), adv.I18nData(),
		)
	}

	if in.KeepIdentity && !grant.Valid() {
		return nil, perr.New(perr.ErrorCodeForbidden, "identity capture without an access grant")
	}

	s.log.Info().
		Str("discord_id", in.DiscordID).
		Bool("keep_identity", in.KeepIdentity).
		Msg("creating a new user")

	u, err := s.storage.RecordNewUser(ctx, domain.NewUserRecord{
		DiscordID:    in.DiscordID,
		IdpIDHash:    HashIdpID(in.IdpID),
		Email:        in.Email,
		KeepIdentity: in.KeepIdentity,
		Timestamp:    s.now(),
	}, grant)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "record new user failed")
	}

	if in.KeepIdentity {
		s.audit.Record(ctx, auditdom.Event{
			Requester: grant.Requester(),
			Target:    in.DiscordID,
			Reason:    grant.Reason(),
			Automated: grant.Automated(),
		})
	}
	return u, nil
}

// GetUser implements domain.ReaderPort
func (s *Svc) GetUser(ctx context.Context, discordID string) (*domain.User, error) {
	return s.storage.GetUser(ctx, discordID)
}

// GetLanguage implements domain.ReaderPort
func (s *Svc) GetLanguage(ctx context.Context, discordID string) (string, error) {
	return s.storage.GetLanguage(ctx, discordID)
}

// SetLanguage implements domain.ReaderPort
func (s *Svc) SetLanguage(ctx context.Context, discordID, language string) error {
	return s.storage.SetLanguage(ctx, discordID, language)
}

// GetIdentity reads a user's recorded email through the capability gate and
// records the access on the audit trail
func (s *Svc) GetIdentity(ctx context.Context, u *domain.User, grant domain.AccessGrant) (string, error) {
	if !grant.Valid() {
		return "", perr.New(perr.ErrorCodeForbidden, "identity read without an access grant")
	}
	email, err := s.storage.GetIdentity(ctx, u, grant)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		// target never opted in to identity retention
		return "", err
	}
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeDB, "identity read failed")
	}
	s.audit.Record(ctx, auditdom.Event{
		Requester: grant.Requester(),
		Target:    u.DiscordID,
		Reason:    grant.Reason(),
		Automated: grant.Automated(),
	})
	return email, nil
}
