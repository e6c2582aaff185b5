package discord

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	perr "rolelink/internal/platform/errors"
)

const memberPageSize = 1000

type role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type member struct {
	User  memberUser `json:"user"`
	Roles []string   `json:"roles"`
}

type memberUser struct {
	ID string `json:"id"`
}

type message struct {
	ID string `json:"id"`
}

// GetRoleIDByName returns the id of the named role, empty when absent
func (c *Client) GetRoleIDByName(ctx context.Context, name, serverID string) (string, error) {
	var roles []role
	if err := c.do(ctx, http.MethodGet, "/guilds/"+serverID+"/roles", nil, &roles); err != nil {
		return "", err
	}
	for _, r := range roles {
		if r.Name == name {
			return r.ID, nil
		}
	}
	return "", nil
}

// GetMembersWithRole returns the ids of every member holding the role
func (c *Client) GetMembersWithRole(ctx context.Context, roleID, serverID string) ([]string, error) {
	members, err := c.listMembers(ctx, serverID)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range members {
		if slices.Contains(m.Roles, roleID) {
			out = append(out, m.User.ID)
		}
	}
	return out, nil
}

// GetMembers returns the ids of every member of the server
func (c *Client) GetMembers(ctx context.Context, serverID string) ([]string, error) {
	members, err := c.listMembers(ctx, serverID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.User.ID)
	}
	return out, nil
}

// listMembers pages through the guild member list
func (c *Client) listMembers(ctx context.Context, serverID string) ([]member, error) {
	var all []member
	after := ""
	for {
		path := fmt.Sprintf("/guilds/%s/members?limit=%d", serverID, memberPageSize)
		if after != "" {
			path += "&after=" + after
		}
		var page []member
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < memberPageSize {
			return all, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// SendChannelMessage posts content to a channel and returns the message id
func (c *Client) SendChannelMessage(ctx context.Context, channelID, content string) (string, error) {
	var out message
	in := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/channels/"+channelID+"/messages", in, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// AddReaction reacts to a message with the given emoji
func (c *Client) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	path := fmt.Sprintf("/channels/%s/messages/%s/reactions/%s/@me",
		channelID, messageID, url.PathEscape(emoji))
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// RefreshUserRoles recomputes the member's roles through the configured rule
// and applies the difference on every configured guild. Guilds the user is
// not a member of are skipped.
func (c *Client) RefreshUserRoles(ctx context.Context, userID string) error {
	if c.opts.Rule == nil {
		return perr.New(perr.ErrorCodeUnknown, "no role rule configured")
	}
	add, remove, err := c.opts.Rule(ctx, userID)
	if err != nil {
		return err
	}

	for _, guildID := range c.opts.GuildIDs {
		var m member
		err := c.do(ctx, http.MethodGet, "/guilds/"+guildID+"/members/"+userID, nil, &m)
		if err != nil {
			if perr.IsCode(err, perr.ErrorCodeNotFound) {
				continue
			}
			return err
		}

		for _, rid := range add {
			if slices.Contains(m.Roles, rid) {
				continue
			}
			path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", guildID, userID, rid)
			if err := c.do(ctx, http.MethodPut, path, nil, nil); err != nil {
				return err
			}
		}
		for _, rid := range remove {
			if !slices.Contains(m.Roles, rid) {
				continue
			}
			path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", guildID, userID, rid)
			if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
				return err
			}
		}
	}
	return nil
}
