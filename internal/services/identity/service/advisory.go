package service

import (
	"context"

	"rolelink/internal/services/identity/domain"
)

// CanCreateAccount evaluates whether an account may be created for the given
// pair of external ids. Empty ids skip the checks for that side. The
// identity-provider checks run first and short-circuit: when they deny, the
// chat-platform duplicate lookup is never performed.
func (s *Svc) CanCreateAccount(ctx context.Context, discordID, idpID string) (domain.Advisory, error) {
	if idpID != "" {
		adv, err := s.checkIdpAccount(ctx, idpID)
		if err != nil {
			return domain.Advisory{}, err
		}
		if !adv.Allowed() {
			return adv, nil
		}
	}
	if discordID != "" {
		u, err := s.storage.GetUser(ctx, discordID)
		if err != nil {
			return domain.Advisory{}, err
		}
		if u != nil {
			return domain.Disallow(
				"This Discord account is already registered",
				"adv.discord_already_exists", nil,
			), nil
		}
	}
	return domain.Allow(), nil
}

// checkIdpAccount runs the identity-provider side checks in order: active ban
// first, then duplicate link
func (s *Svc) checkIdpAccount(ctx context.Context, idpID string) (domain.Advisory, error) {
	hash := HashIdpID(idpID)

	bans, err := s.storage.GetBans(ctx, hash)
	if err != nil {
		return domain.Advisory{}, err
	}
	now := s.now()
	for _, b := range bans {
		if b.Active(now) {
			return domain.Disallow(
				"This identity provider account is banned",
				"adv.idp_banned", nil,
			), nil
		}
	}

	n, err := s.storage.CountUsersWithHash(ctx, hash)
	if err != nil {
		return domain.Advisory{}, err
	}
	if n > 0 {
		return domain.Disallow(
			"This identity provider account is already linked to another user",
			"adv.idp_already_linked", nil,
		), nil
	}
	return domain.Allow(), nil
}

// CanUseService re-checks ban policy against an already registered user,
// gating post-registration actions
func (s *Svc) CanUseService(ctx context.Context, u *domain.User) (domain.Advisory, error) {
	bans, err := s.storage.GetBans(ctx, u.IdpIDHash)
	if err != nil {
		return domain.Advisory{}, err
	}
	now := s.now()
	for _, b := range bans {
		if b.Active(now) {
			return domain.Disallow(
				"You are banned from using this service at the moment",
				"adv.banned", nil,
			), nil
		}
	}
	return domain.Allow(), nil
}

// CanPerformAdminActions classifies a registered user's admin standing. An
// admin whose true identity was never recorded cannot be positively
// identified, so their administrative actions are refused.
func (s *Svc) CanPerformAdminActions(ctx context.Context, u *domain.User) (domain.AdminStatus, error) {
	if !s.IsAdmin(u.DiscordID) {
		return domain.StatusNotAdmin, nil
	}
	identifiable, err := s.storage.HasIdentity(ctx, u)
	if err != nil {
		return domain.StatusNotAdmin, err
	}
	if !identifiable {
		return domain.StatusAdminNotIdentifiable, nil
	}
	return domain.StatusAdmin, nil
}
