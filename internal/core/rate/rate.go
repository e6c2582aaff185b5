// Package rate holds the immutable rate-limit window value used by callers of
// externally throttled APIs
package rate

import "time"

// Rate is a single rate limit window. Immutable; Consume returns a copy.
// Remaining counts permits before throttling: 1 means the next Consume drives
// it to 0 and the call after that is throttled.
type Rate struct {
	Remaining int64
	ResetAt   time.Time
}

// New builds a window with the given permit count and reset instant
func New(remaining int64, resetAt time.Time) Rate {
	if remaining < 0 {
		remaining = 0
	}
	return Rate{Remaining: remaining, ResetAt: resetAt}
}

// HasExpired reports whether the reset instant has passed
func (r Rate) HasExpired() bool { return r.ResetAt.Before(time.Now()) }

// Consume spends one permit and returns the modified rate, floored at 0
func (r Rate) Consume() Rate {
	n := r.Remaining - 1
	if n < 0 {
		n = 0
	}
	return Rate{Remaining: n, ResetAt: r.ResetAt}
}

// ShouldLimit reports whether the next call must be throttled: the window has
// not expired and there are no permits left
func (r Rate) ShouldLimit() bool { return !r.HasExpired() && r.Remaining == 0 }
