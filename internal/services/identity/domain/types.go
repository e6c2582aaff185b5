// Package domain defines the types and ports for the identity service
package domain

import "time"

// User links one chat-platform account to one identity-provider account.
// The provider id is stored only as a one-way hash and is never reversible.
type User struct {
	DiscordID string
	IdpIDHash []byte
	CreatedAt time.Time
}

// Ban blocks an identity-provider account, keyed by its hash
type Ban struct {
	IdpIDHash []byte
	Reason    string
	IssuedAt  time.Time
	ExpiresOn *time.Time // nil means the ban never expires
}

// Active reports whether the ban is in force at the given instant
func (b Ban) Active(now time.Time) bool {
	return b.ExpiresOn == nil || b.ExpiresOn.After(now)
}

// Advisory is a typed allow/deny decision produced by pre-flight policy
// checks. A denied advisory always carries a displayable reason and an i18n
// key. Advisories are per-check and never persisted.
type Advisory struct {
	allowed  bool
	reason   string
	i18nKey  string
	i18nData map[string]string
}

// Allow returns the allowed advisory
func Allow() Advisory { return Advisory{allowed: true} }

// Disallow returns a denied advisory carrying a displayable reason
func Disallow(reason, i18nKey string, i18nData map[string]string) Advisory {
	if reason == "" {
		// a denial with no reason is a programming error; keep the key so the
		// user still sees something translatable
		reason = i18nKey
	}
	return Advisory{reason: reason, i18nKey: i18nKey, i18nData: i18nData}
}

// Allowed reports whether the check passed
func (a Advisory) Allowed() bool { return a.allowed }

// Reason returns the displayable denial reason, empty when allowed
func (a Advisory) Reason() string { return a.reason }

// I18nKey returns the translation key for the denial reason
func (a Advisory) I18nKey() string { return a.i18nKey }

// I18nData returns replacement values for the i18n key
func (a Advisory) I18nData() map[string]string { return a.i18nData }

// AdminStatus is the outcome of checking whether a user may perform
// administrative actions
type AdminStatus uint8

const (
	// StatusNotAdmin means the user is not an admin at all
	StatusNotAdmin AdminStatus = iota

	// StatusAdminNotIdentifiable means the user is an admin but has no
	// recorded true identity, so their actions cannot be attributed
	StatusAdminNotIdentifiable

	// StatusAdmin means the user is an admin in good standing
	StatusAdmin
)

// NewUserRecord carries everything the storage layer needs to persist a
// freshly created user
type NewUserRecord struct {
	DiscordID    string
	IdpIDHash    []byte
	Email        string
	KeepIdentity bool
	Timestamp    time.Time
}
