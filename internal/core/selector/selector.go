// Package selector parses the free-text target selectors accepted by
// administrative chat commands.
//
// Accepted forms:
//   - <@userid> / <@!userid>  platform user mention
//   - <@&roleid>              platform role mention
//   - userid                  bare numeric user id
//   - |rolename               role by name
//   - /roleid                 role by id
//   - !everyone               everyone on the server
//
// Parsing is pure; resolving names against the directory happens elsewhere.
package selector

import "regexp"

// Kind discriminates the parse outcomes
type Kind uint8

const (
	// KindError means the selector could not be parsed into anything
	KindError Kind = iota

	// KindUserByID targets a single user by id
	KindUserByID

	// KindRoleByName targets a role by display name, needs directory resolution
	KindRoleByName

	// KindRoleByID targets a role by id
	KindRoleByID

	// KindEveryone targets every member of the server
	KindEveryone
)

// Parsed is the result of parsing one selector token
type Parsed struct {
	Kind Kind

	// ID is set for KindUserByID and KindRoleByID
	ID string

	// Name is set for KindRoleByName
	Name string
}

var (
	userMentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)
	roleMentionPattern = regexp.MustCompile(`^<@&(\d+)>$`)
	digitsPattern      = regexp.MustCompile(`^\d+$`)
)

// Parse turns a selector token into a Parsed value. Total: every input maps
// to exactly one outcome, unparseable input to KindError.
func Parse(target string) Parsed {
	if m := userMentionPattern.FindStringSubmatch(target); m != nil {
		return Parsed{Kind: KindUserByID, ID: m[1]}
	}
	if m := roleMentionPattern.FindStringSubmatch(target); m != nil {
		return Parsed{Kind: KindRoleByID, ID: m[1]}
	}
	if target == "" {
		return Parsed{Kind: KindError}
	}
	switch target[0] {
	case '|':
		name := target[1:]
		if name == "" {
			return Parsed{Kind: KindError}
		}
		return Parsed{Kind: KindRoleByName, Name: name}
	case '/':
		id := target[1:]
		if !digitsPattern.MatchString(id) {
			return Parsed{Kind: KindError}
		}
		return Parsed{Kind: KindRoleByID, ID: id}
	case '!':
		if target == "!everyone" {
			return Parsed{Kind: KindEveryone}
		}
		return Parsed{Kind: KindError}
	default:
		if digitsPattern.MatchString(target) {
			return Parsed{Kind: KindUserByID, ID: target}
		}
		return Parsed{Kind: KindError}
	}
}

// String names the kind for logs
func (k Kind) String() string {
	switch k {
	case KindUserByID:
		return "user-by-id"
	case KindRoleByName:
		return "role-by-name"
	case KindRoleByID:
		return "role-by-id"
	case KindEveryone:
		return "everyone"
	default:
		return "error"
	}
}

// Describe renders a Parsed for debug logs
func (p Parsed) Describe() string {
	switch p.Kind {
	case KindRoleByName:
		return p.Kind.String() + ":" + p.Name
	case KindUserByID, KindRoleByID:
		return p.Kind.String() + ":" + p.ID
	default:
		return p.Kind.String()
	}
}

// IsError reports whether the selector failed to parse
func (p Parsed) IsError() bool { return p.Kind == KindError }
