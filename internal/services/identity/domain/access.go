package domain

// AccessGrant is the capability required by any call path that reads or
// writes a user's true identity. There is no zero-value shortcut: code must
// obtain a grant via GrantIdentityAccess, naming who is asking and why, which
// is what the audit trail records. Passing the grant as an explicit argument
// makes an unaudited identity access a compile-time-visible anomaly instead
// of a silent one.
type AccessGrant struct {
	requester string
	reason    string
	automated bool
}

// GrantIdentityAccess mints the capability for one identity access.
// requester is the acting principal (an admin's id or a service name),
// automated marks accesses performed without a human in the loop.
func GrantIdentityAccess(requester, reason string, automated bool) AccessGrant {
	return AccessGrant{requester: requester, reason: reason, automated: automated}
}

// Requester returns the acting principal
func (g AccessGrant) Requester() string { return g.requester }

// Reason returns why the access was requested
func (g AccessGrant) Reason() string { return g.reason }

// Automated reports whether the access had no human in the loop
func (g AccessGrant) Automated() bool { return g.automated }

// Valid reports whether the grant was minted through GrantIdentityAccess
// rather than being a zero value smuggled in
func (g AccessGrant) Valid() bool { return g.requester != "" && g.reason != "" }
