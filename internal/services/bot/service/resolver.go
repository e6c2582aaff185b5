package service

import (
	"context"

	"rolelink/internal/core/selector"
	perr "rolelink/internal/platform/errors"
	"rolelink/internal/services/bot/domain"
)

// Resolve maps a parsed selector to a concrete target. Only role-by-name
// needs a directory lookup; every other variant resolves locally.
func (s *Svc) Resolve(ctx context.Context, p selector.Parsed, serverID string) (domain.Target, error) {
	switch p.Kind {
	case selector.KindUserByID:
		return domain.Target{Kind: domain.TargetUser, ID: p.ID}, nil
	case selector.KindRoleByID:
		return domain.Target{Kind: domain.TargetRole, ID: p.ID}, nil
	case selector.KindEveryone:
		return domain.Target{Kind: domain.TargetEveryone}, nil
	case selector.KindRoleByName:
		roleID, err := s.dir.GetRoleIDByName(ctx, p.Name, serverID)
		if err != nil {
			return domain.Target{}, err
		}
		if roleID == "" {
			return domain.Target{Kind: domain.TargetRoleNotFound, Name: p.Name}, nil
		}
		return domain.Target{Kind: domain.TargetRole, ID: roleID, Name: p.Name}, nil
	default:
		return domain.Target{}, perr.InvalidArgf("selector %q cannot be resolved", p.Kind)
	}
}

// memberIDs expands a resolved target into the member ids to refresh
func (s *Svc) memberIDs(ctx context.Context, t domain.Target, serverID string) ([]string, error) {
	switch t.Kind {
	case domain.TargetUser:
		return []string{t.ID}, nil
	case domain.TargetRole:
		return s.dir.GetMembersWithRole(ctx, t.ID, serverID)
	case domain.TargetEveryone:
		return s.dir.GetMembers(ctx, serverID)
	default:
		return nil, perr.InvalidArgf("target %v cannot be expanded", t.Kind)
	}
}
