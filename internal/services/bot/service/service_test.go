package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rolelink/internal/services/bot/domain"
	iddom "rolelink/internal/services/identity/domain"
)

type fakeIdentity struct {
	admins       map[string]bool
	users        map[string]*iddom.User
	identifiable map[string]bool
	languages    map[string]string

	getUserCalls int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		admins:       map[string]bool{},
		users:        map[string]*iddom.User{},
		identifiable: map[string]bool{},
		languages:    map[string]string{},
	}
}

func (f *fakeIdentity) IsAdmin(id string) bool { return f.admins[id] }

func (f *fakeIdentity) GetUser(_ context.Context, id string) (*iddom.User, error) {
	f.getUserCalls++
	return f.users[id], nil
}

func (f *fakeIdentity) CanPerformAdminActions(_ context.Context, u *iddom.User) (iddom.AdminStatus, error) {
	if !f.admins[u.DiscordID] {
		return iddom.StatusNotAdmin, nil
	}
	if !f.identifiable[u.DiscordID] {
		return iddom.StatusAdminNotIdentifiable, nil
	}
	return iddom.StatusAdmin, nil
}

func (f *fakeIdentity) GetLanguage(_ context.Context, id string) (string, error) {
	return f.languages[id], nil
}

func (f *fakeIdentity) SetLanguage(_ context.Context, id, lang string) error {
	f.languages[id] = lang
	return nil
}

type fakeDirectory struct {
	mu sync.Mutex

	roles       map[string]string   // name -> id
	roleMembers map[string][]string // role id -> member ids
	members     []string
	failing     map[string]bool // member ids whose refresh fails
	panicking   map[string]bool

	roleLookups int
	refreshes   map[string]int
	sent        []string
	reactions   []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		roles:       map[string]string{},
		roleMembers: map[string][]string{},
		failing:     map[string]bool{},
		panicking:   map[string]bool{},
		refreshes:   map[string]int{},
	}
}

func (f *fakeDirectory) GetRoleIDByName(_ context.Context, name, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleLookups++
	return f.roles[name], nil
}

func (f *fakeDirectory) GetMembersWithRole(_ context.Context, roleID, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roleMembers[roleID], nil
}

func (f *fakeDirectory) GetMembers(_ context.Context, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members, nil
}

func (f *fakeDirectory) SendChannelMessage(_ context.Context, _, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, content)
	return fmt.Sprintf("m%d", len(f.sent)), nil
}

func (f *fakeDirectory) AddReaction(_ context.Context, _, _, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, emoji)
	return nil
}

func (f *fakeDirectory) RefreshUserRoles(_ context.Context, userID string) error {
	f.mu.Lock()
	f.refreshes[userID]++
	fail := f.failing[userID]
	panics := f.panicking[userID]
	f.mu.Unlock()
	if panics {
		panic("refresh blew up")
	}
	if fail {
		return fmt.Errorf("refresh of %s failed", userID)
	}
	return nil
}

func (f *fakeDirectory) sentMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeDirectory) gotReactions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reactions...)
}

type fakeMessenger struct{}

func (fakeMessenger) Get(_ context.Context, _, key string, args ...any) string {
	if len(args) == 0 {
		return key
	}
	return key + fmt.Sprintf(" %v", args)
}

func (fakeMessenger) Supported(lang string) bool { return lang == "en" || lang == "fr" }

func newTestSvc(ids *fakeIdentity, dir *fakeDirectory) *Svc {
	return New(ids, dir, fakeMessenger{}, Config{
		MonitoredServers: []string{"srv"},
		Stagger:          -1,
	})
}

func msg(content string) domain.IncomingMessage {
	return domain.IncomingMessage{
		ID:        "msg-1",
		ChannelID: "chan",
		ServerID:  "srv",
		SenderID:  "sender",
		Content:   content,
	}
}

func registered(f *fakeIdentity, id string) *iddom.User {
	u := &iddom.User{DiscordID: id, IdpIDHash: []byte{1}, CreatedAt: time.Now()}
	f.users[id] = u
	return u
}
