// Package domain defines the in-progress registration session and its ports
package domain

import (
	"context"
	"time"
)

// Session is an in-progress registration. Both account sides must be attached
// before the session can complete; the raw identity-provider id only ever
// lives here, never in long-term storage.
type Session struct {
	ID              string    `json:"id"`
	DiscordID       string    `json:"discord_id,omitempty"`
	DiscordUsername string    `json:"discord_username,omitempty"`
	DiscordAvatar   string    `json:"discord_avatar,omitempty"`
	IdpID           string    `json:"idp_id,omitempty"`
	Email           string    `json:"email,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// HasDiscord reports whether the chat side is attached
func (s *Session) HasDiscord() bool { return s.DiscordID != "" }

// HasIdp reports whether the identity-provider side is attached
func (s *Session) HasIdp() bool { return s.IdpID != "" }

// Ready reports whether the session can be completed
func (s *Session) Ready() bool { return s.HasDiscord() && s.HasIdp() }

// SessionPort is the session store contract. Get returns nil without error
// when the id is unknown or the session has lapsed.
type SessionPort interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
