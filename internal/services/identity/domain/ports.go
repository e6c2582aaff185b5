package domain

import (
	"context"
	"time"
)

// StoragePort is the persistence facade the identity service consumes.
// Implementations own the schema; the service treats users as opaque handles.
type StoragePort interface {
	// GetUser returns the user linked to the chat account, nil when absent
	GetUser(ctx context.Context, discordID string) (*User, error)

	// RecordNewUser persists a new user. When rec.KeepIdentity is set a true
	// identity row is written too, which is why the grant is required here.
	RecordNewUser(ctx context.Context, rec NewUserRecord, grant AccessGrant) (*User, error)

	// GetBans returns every ban (active or not) for the given provider hash
	GetBans(ctx context.Context, idpIDHash []byte) ([]Ban, error)

	// CountUsersWithHash counts users already holding the given provider hash
	CountUsersWithHash(ctx context.Context, idpIDHash []byte) (int, error)

	// HasIdentity reports whether the user has a recorded true identity.
	// Presence is not the identity itself, so no grant is needed.
	HasIdentity(ctx context.Context, u *User) (bool, error)

	// GetIdentity returns the user's recorded email. Requires the capability.
	// A user without a recorded identity yields a not-found error.
	GetIdentity(ctx context.Context, u *User, grant AccessGrant) (string, error)

	// GetLanguage returns the user's preferred reply language, empty if unset
	GetLanguage(ctx context.Context, discordID string) (string, error)

	// SetLanguage records the user's preferred reply language
	SetLanguage(ctx context.Context, discordID, language string) error
}

// CheckerPort is the advisory surface other services consume
type CheckerPort interface {
	// CanCreateAccount evaluates ban/duplicate policy before registration.
	// Empty discordID or idpID skips the checks for that side.
	CanCreateAccount(ctx context.Context, discordID, idpID string) (Advisory, error)

	// CanUseService re-checks ban policy against an existing user
	CanUseService(ctx context.Context, u *User) (Advisory, error)

	// CanPerformAdminActions classifies a registered user's admin standing
	CanPerformAdminActions(ctx context.Context, u *User) (AdminStatus, error)
}

// CreatorPort creates accounts once the advisory allows it
type CreatorPort interface {
	CreateUser(ctx context.Context, in CreateUserInput, grant AccessGrant) (*User, error)
}

// ReaderPort is the narrow read surface for other services
type ReaderPort interface {
	GetUser(ctx context.Context, discordID string) (*User, error)
	GetLanguage(ctx context.Context, discordID string) (string, error)
	SetLanguage(ctx context.Context, discordID, language string) error
}

// CreateUserInput is the validated input to CreateUser
type CreateUserInput struct {
	DiscordID    string
	IdpID        string
	Email        string
	KeepIdentity bool
}

// Clock lets tests pin the notion of now
type Clock func() time.Time
