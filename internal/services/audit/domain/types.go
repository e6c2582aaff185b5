// Package domain defines the identity-access audit trail types and ports
package domain

import (
	"context"
	"time"
)

// Event is one recorded access to a user's true identity
type Event struct {
	At        time.Time `json:"at"`
	Requester string    `json:"requester"`
	Target    string    `json:"target"`
	Reason    string    `json:"reason"`
	Automated bool      `json:"automated"`
}

// RecorderPort appends to the audit trail. Recording is best effort: an
// implementation must log failures rather than propagate them, the guarded
// operation itself has already happened.
type RecorderPort interface {
	Record(ctx context.Context, ev Event)
}

// QueryPort reads the trail back for operators
type QueryPort interface {
	Recent(ctx context.Context, target string, limit int) ([]Event, error)
}
