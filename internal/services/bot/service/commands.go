package service

import (
	"context"

	"rolelink/internal/core/selector"
	"rolelink/internal/services/bot/domain"
)

// HandleMessage authorizes the message and either runs the accepted command
// or replies with the localized rejection. Silence is the only correct
// response to a non-command message.
func (s *Svc) HandleMessage(ctx context.Context, m domain.IncomingMessage) error {
	acc, err := s.Authorize(ctx, m)
	if err != nil {
		return err
	}

	switch acc.Kind {
	case domain.AcceptanceNotACommand:
		return nil
	case domain.AcceptanceUnknownCommand:
		return s.reply(ctx, m, "cmd.unknown", acc.Name)
	case domain.AcceptanceServerNotMonitored:
		return s.reply(ctx, m, "cmd.server_not_monitored")
	case domain.AcceptanceNotAdmin:
		return s.reply(ctx, m, "cmd.not_admin")
	case domain.AcceptanceNotRegistered:
		return s.reply(ctx, m, "cmd.not_registered")
	case domain.AcceptanceAdminNoIdentity:
		return s.reply(ctx, m, "cmd.admin_no_identity")
	}

	inv := domain.Invocation{User: acc.User, Command: acc.Command, Body: acc.Body, Message: m}
	if err := acc.Command.Run(ctx, inv); err != nil {
		s.log.Error().Err(err).Str("command", acc.Command.Name).Str("sender_id", m.SenderID).
			Msg("command failed")
		return s.reply(ctx, m, "cmd.failed")
	}
	return nil
}

// reply sends a localized message back to the channel the command came from
func (s *Svc) reply(ctx context.Context, m domain.IncomingMessage, key string, args ...any) error {
	content := s.msg.Get(ctx, m.SenderID, key, args...)
	_, err := s.dir.SendChannelMessage(ctx, m.ChannelID, content)
	return err
}

// runUpdate resolves the target, replies immediately, and hands the member
// list to the detached synchronizer
func (s *Svc) runUpdate(ctx context.Context, inv domain.Invocation) error {
	m := inv.Message

	parsed := selector.Parse(inv.Body)
	if parsed.IsError() {
		return s.reply(ctx, m, "cmd.update.invalid_target", inv.Body)
	}

	target, err := s.Resolve(ctx, parsed, m.ServerID)
	if err != nil {
		return err
	}
	if target.Kind == domain.TargetRoleNotFound {
		return s.reply(ctx, m, "cmd.update.role_not_found", target.Name)
	}

	ids, err := s.memberIDs(ctx, target, m.ServerID)
	if err != nil {
		return err
	}

	if err := s.reply(ctx, m, "cmd.update.processing", len(ids)); err != nil {
		return err
	}
	s.launchSync(ctx, m.ChannelID, m.ID, ids)
	return nil
}

// runCount reports how many members a target covers without touching roles
func (s *Svc) runCount(ctx context.Context, inv domain.Invocation) error {
	m := inv.Message

	parsed := selector.Parse(inv.Body)
	if parsed.IsError() {
		return s.reply(ctx, m, "cmd.update.invalid_target", inv.Body)
	}

	target, err := s.Resolve(ctx, parsed, m.ServerID)
	if err != nil {
		return err
	}
	if target.Kind == domain.TargetRoleNotFound {
		return s.reply(ctx, m, "cmd.update.role_not_found", target.Name)
	}

	ids, err := s.memberIDs(ctx, target, m.ServerID)
	if err != nil {
		return err
	}
	return s.reply(ctx, m, "cmd.count.result", len(ids))
}

// runLang shows or sets the sender's preferred reply language
func (s *Svc) runLang(ctx context.Context, inv domain.Invocation) error {
	m := inv.Message
	if inv.Body == "" {
		return s.reply(ctx, m, "cmd.lang.help")
	}
	if !s.msg.Supported(inv.Body) {
		return s.reply(ctx, m, "cmd.lang.unknown", inv.Body)
	}
	if err := s.ids.SetLanguage(ctx, m.SenderID, inv.Body); err != nil {
		return err
	}
	return s.reply(ctx, m, "cmd.lang.set", inv.Body)
}

// runHelp lists the available commands
func (s *Svc) runHelp(ctx context.Context, inv domain.Invocation) error {
	return s.reply(ctx, inv.Message, "cmd.help", s.cfg.Prefix)
}
