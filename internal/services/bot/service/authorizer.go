package service

import (
	"context"
	"strings"

	"rolelink/internal/services/bot/domain"
	iddom "rolelink/internal/services/identity/domain"
)

// Authorize classifies a message into exactly one acceptance outcome.
// Expected rejections are outcomes, not errors; the error return is reserved
// for storage faults.
func (s *Svc) Authorize(ctx context.Context, m domain.IncomingMessage) (domain.Acceptance, error) {
	if !strings.HasPrefix(m.Content, s.cfg.Prefix) {
		return domain.Acceptance{Kind: domain.AcceptanceNotACommand}, nil
	}

	name, body := splitCommand(strings.TrimPrefix(m.Content, s.cfg.Prefix))

	cmd, ok := s.commands[name]
	if !ok {
		return domain.Acceptance{Kind: domain.AcceptanceUnknownCommand, Name: name}, nil
	}

	if cmd.RequireMonitoredServer && !s.Monitored(m.ServerID) {
		return domain.Acceptance{Kind: domain.AcceptanceServerNotMonitored}, nil
	}

	switch cmd.Permission {
	case domain.PermAdmin:
		// static list first, so the common non-admin case skips storage
		if !s.ids.IsAdmin(m.SenderID) {
			return domain.Acceptance{Kind: domain.AcceptanceNotAdmin}, nil
		}
		u, err := s.ids.GetUser(ctx, m.SenderID)
		if err != nil {
			return domain.Acceptance{}, err
		}
		if u == nil {
			return domain.Acceptance{Kind: domain.AcceptanceNotRegistered}, nil
		}
		status, err := s.ids.CanPerformAdminActions(ctx, u)
		if err != nil {
			return domain.Acceptance{}, err
		}
		switch status {
		case iddom.StatusAdmin:
			return accept(u, cmd, body), nil
		case iddom.StatusAdminNotIdentifiable:
			return domain.Acceptance{Kind: domain.AcceptanceAdminNoIdentity}, nil
		default:
			return domain.Acceptance{Kind: domain.AcceptanceNotAdmin}, nil
		}

	case domain.PermUser:
		u, err := s.ids.GetUser(ctx, m.SenderID)
		if err != nil {
			return domain.Acceptance{}, err
		}
		if u == nil {
			return domain.Acceptance{Kind: domain.AcceptanceNotRegistered}, nil
		}
		return accept(u, cmd, body), nil

	default: // PermAnyone
		u, err := s.ids.GetUser(ctx, m.SenderID)
		if err != nil {
			return domain.Acceptance{}, err
		}
		return accept(u, cmd, body), nil
	}
}

func accept(u *iddom.User, cmd *domain.Command, body string) domain.Acceptance {
	return domain.Acceptance{Kind: domain.AcceptanceAccepted, User: u, Command: cmd, Body: body}
}

// splitCommand cuts the stripped message at the first space. The remainder
// is kept verbatim, so extra whitespace makes the body an invalid target
// rather than silently parsing. With no space the whole string is the name.
func splitCommand(in string) (name, body string) {
	name, body, _ = strings.Cut(in, " ")
	return name, body
}
