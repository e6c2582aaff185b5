// Package domain defines the chat-command model: incoming messages, the
// command table, the authorization outcome set, and the ports the bot
// service consumes
package domain

import (
	"context"

	iddom "rolelink/internal/services/identity/domain"
)

// PermissionLevel gates who may run a command
type PermissionLevel int

const (
	// PermAnyone admits any sender, registered or not
	PermAnyone PermissionLevel = iota
	// PermUser requires a registered user
	PermUser
	// PermAdmin requires a registered, identifiable admin
	PermAdmin
)

func (p PermissionLevel) String() string {
	switch p {
	case PermAnyone:
		return "anyone"
	case PermUser:
		return "user"
	case PermAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Command is one entry in the name-keyed table built at startup.
// The table is immutable once the service is constructed.
type Command struct {
	Name                   string
	Permission             PermissionLevel
	RequireMonitoredServer bool
	Run                    func(ctx context.Context, inv Invocation) error
}

// IncomingMessage is a chat message as delivered by the platform
type IncomingMessage struct {
	ID        string
	ChannelID string
	ServerID  string
	SenderID  string
	Content   string
}

// Invocation is everything a command handler receives once the message
// has been accepted
type Invocation struct {
	// User is the persisted sender, nil only for PermAnyone commands
	User    *iddom.User
	Command *Command
	Body    string
	Message IncomingMessage
}

// AcceptanceKind enumerates the authorization outcomes. Exactly one is
// produced per evaluated message.
type AcceptanceKind int

const (
	// AcceptanceNotACommand means the message lacked the command prefix
	AcceptanceNotACommand AcceptanceKind = iota
	// AcceptanceUnknownCommand carries the unrecognized name
	AcceptanceUnknownCommand
	// AcceptanceServerNotMonitored rejects commands from unmonitored servers
	AcceptanceServerNotMonitored
	// AcceptanceNotAdmin rejects a sender outside the admin list
	AcceptanceNotAdmin
	// AcceptanceNotRegistered rejects a sender with no account
	AcceptanceNotRegistered
	// AcceptanceAdminNoIdentity rejects an admin who kept no identity
	AcceptanceAdminNoIdentity
	// AcceptanceAccepted admits the message for execution
	AcceptanceAccepted
)

func (k AcceptanceKind) String() string {
	switch k {
	case AcceptanceNotACommand:
		return "not_a_command"
	case AcceptanceUnknownCommand:
		return "unknown_command"
	case AcceptanceServerNotMonitored:
		return "server_not_monitored"
	case AcceptanceNotAdmin:
		return "not_admin"
	case AcceptanceNotRegistered:
		return "not_registered"
	case AcceptanceAdminNoIdentity:
		return "admin_no_identity"
	case AcceptanceAccepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// Acceptance is the authorization outcome. Name is set for
// AcceptanceUnknownCommand; User, Command, and Body only for
// AcceptanceAccepted (User may still be nil for PermAnyone commands).
type Acceptance struct {
	Kind    AcceptanceKind
	Name    string
	User    *iddom.User
	Command *Command
	Body    string
}

// TargetKind enumerates resolved command targets
type TargetKind int

const (
	// TargetUser is a single member id
	TargetUser TargetKind = iota
	// TargetRole is a role id
	TargetRole
	// TargetEveryone covers every member of the server
	TargetEveryone
	// TargetRoleNotFound carries a role name the directory does not know
	TargetRoleNotFound
)

// Target is the result of resolving a parsed selector, possibly via a
// directory lookup
type Target struct {
	Kind TargetKind
	ID   string
	Name string
}

// DirectoryPort is the chat-platform facade the bot consumes
type DirectoryPort interface {
	GetRoleIDByName(ctx context.Context, name, serverID string) (string, error)
	GetMembersWithRole(ctx context.Context, roleID, serverID string) ([]string, error)
	GetMembers(ctx context.Context, serverID string) ([]string, error)
	SendChannelMessage(ctx context.Context, channelID, content string) (string, error)
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	RefreshUserRoles(ctx context.Context, userID string) error
}

// MessengerPort builds localized reply content for a given recipient
type MessengerPort interface {
	Get(ctx context.Context, userID, key string, args ...any) string
	Supported(lang string) bool
}
