package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	perr "rolelink/internal/platform/errors"
	auditdom "rolelink/internal/services/audit/domain"
	"rolelink/internal/services/identity/domain"
)

// fakeStorage counts calls so the short-circuit property can be asserted
type fakeStorage struct {
	users    map[string]*domain.User
	bans     map[string][]domain.Ban
	hashes   map[string]int
	emails   map[string]string
	langs    map[string]string
	recorded []domain.NewUserRecord

	getUserCalls   int
	getBansCalls   int
	countHashCalls int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		users:  map[string]*domain.User{},
		bans:   map[string][]domain.Ban{},
		hashes: map[string]int{},
		emails: map[string]string{},
		langs:  map[string]string{},
	}
}

func (f *fakeStorage) GetUser(_ context.Context, discordID string) (*domain.User, error) {
	f.getUserCalls++
	return f.users[discordID], nil
}

func (f *fakeStorage) RecordNewUser(_ context.Context, rec domain.NewUserRecord, _ domain.AccessGrant) (*domain.User, error) {
	f.recorded = append(f.recorded, rec)
	u := &domain.User{DiscordID: rec.DiscordID, IdpIDHash: rec.IdpIDHash, CreatedAt: rec.Timestamp}
	f.users[rec.DiscordID] = u
	return u, nil
}

func (f *fakeStorage) GetBans(_ context.Context, hash []byte) ([]domain.Ban, error) {
	f.getBansCalls++
	return f.bans[string(hash)], nil
}

func (f *fakeStorage) CountUsersWithHash(_ context.Context, hash []byte) (int, error) {
	f.countHashCalls++
	return f.hashes[string(hash)], nil
}

func (f *fakeStorage) HasIdentity(_ context.Context, u *domain.User) (bool, error) {
	_, ok := f.emails[u.DiscordID]
	return ok, nil
}

func (f *fakeStorage) GetIdentity(_ context.Context, u *domain.User, _ domain.AccessGrant) (string, error) {
	email, ok := f.emails[u.DiscordID]
	if !ok {
		return "", perr.NotFoundf("no recorded identity for user %s", u.DiscordID)
	}
	return email, nil
}

func (f *fakeStorage) GetLanguage(_ context.Context, discordID string) (string, error) {
	return f.langs[discordID], nil
}

func (f *fakeStorage) SetLanguage(_ context.Context, discordID, language string) error {
	f.langs[discordID] = language
	return nil
}

// fakeAudit records events in memory
type fakeAudit struct {
	events []auditdom.Event
}

func (f *fakeAudit) Record(_ context.Context, ev auditdom.Event) { f.events = append(f.events, ev) }

func newSvc(storage *fakeStorage, admins ...string) *Svc {
	return New(storage, &fakeAudit{}, Config{Admins: admins})
}

func banFor(idpID string, expires *time.Time) (string, domain.Ban) {
	h := HashIdpID(idpID)
	return string(h), domain.Ban{IdpIDHash: h, ExpiresOn: expires}
}

func TestCanCreateAccountAllowed(t *testing.T) {
	s := newSvc(newFakeStorage())
	adv, err := s.CanCreateAccount(context.Background(), "disc-1", "idp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !adv.Allowed() {
		t.Fatalf("expected allowed, got %q", adv.Reason())
	}
}

func TestCanCreateAccountActiveBanDenies(t *testing.T) {
	st := newFakeStorage()
	k, b := banFor("idp-1", nil) // nil expiry = permanent
	st.bans[k] = []domain.Ban{b}

	adv, err := newSvc(st).CanCreateAccount(context.Background(), "disc-1", "idp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Allowed() {
		t.Fatalf("expected denial for a banned idp account")
	}
	if adv.I18nKey() != "adv.idp_banned" {
		t.Fatalf("i18n key = %q", adv.I18nKey())
	}
}

func TestCanCreateAccountExpiredBanIsIgnored(t *testing.T) {
	st := newFakeStorage()
	past := time.Now().Add(-time.Hour)
	k, b := banFor("idp-1", &past)
	st.bans[k] = []domain.Ban{b}

	adv, err := newSvc(st).CanCreateAccount(context.Background(), "disc-1", "idp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !adv.Allowed() {
		t.Fatalf("expired ban must not deny: %q", adv.Reason())
	}
}

func TestCanCreateAccountDuplicateHashDenies(t *testing.T) {
	st := newFakeStorage()
	st.hashes[string(HashIdpID("idp-1"))] = 1

	adv, err := newSvc(st).CanCreateAccount(context.Background(), "disc-1", "idp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Allowed() || adv.I18nKey() != "adv.idp_already_linked" {
		t.Fatalf("expected already-linked denial, got %+v", adv)
	}
}

func TestCanCreateAccountDuplicateDiscordDenies(t *testing.T) {
	st := newFakeStorage()
	st.users["disc-1"] = &domain.User{DiscordID: "disc-1"}

	adv, err := newSvc(st).CanCreateAccount(context.Background(), "disc-1", "idp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Allowed() || adv.I18nKey() != "adv.discord_already_exists" {
		t.Fatalf("expected already-exists denial, got %+v", adv)
	}
}

func TestIdpDenialShortCircuitsDiscordCheck(t *testing.T) {
	st := newFakeStorage()
	k, b := banFor("idp-1", nil)
	st.bans[k] = []domain.Ban{b}
	st.users["disc-1"] = &domain.User{DiscordID: "disc-1"}

	adv, err := newSvc(st).CanCreateAccount(context.Background(), "disc-1", "idp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Allowed() {
		t.Fatalf("expected denial")
	}
	if st.getUserCalls != 0 {
		t.Fatalf("discord-side lookup must not run after an idp denial, got %d calls", st.getUserCalls)
	}
	if adv.I18nKey() != "adv.idp_banned" {
		t.Fatalf("denial must come from the idp side, got %q", adv.I18nKey())
	}
}

func TestCanCreateAccountSkipsAbsentSides(t *testing.T) {
	st := newFakeStorage()
	s := newSvc(st)

	if _, err := s.CanCreateAccount(context.Background(), "disc-1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.getBansCalls != 0 || st.countHashCalls != 0 {
		t.Fatalf("idp checks must be skipped without an idp id")
	}

	st2 := newFakeStorage()
	s2 := newSvc(st2)
	if _, err := s2.CanCreateAccount(context.Background(), "", "idp-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st2.getUserCalls != 0 {
		t.Fatalf("discord check must be skipped without a discord id")
	}
}

func TestCanUseServiceChecksStoredHash(t *testing.T) {
	st := newFakeStorage()
	u := &domain.User{DiscordID: "disc-1", IdpIDHash: HashIdpID("idp-1")}
	k, b := banFor("idp-1", nil)
	st.bans[k] = []domain.Ban{b}

	adv, err := newSvc(st).CanUseService(context.Background(), u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adv.Allowed() || adv.I18nKey() != "adv.banned" {
		t.Fatalf("expected ban denial, got %+v", adv)
	}
}

func TestCanPerformAdminActions(t *testing.T) {
	st := newFakeStorage()
	st.emails["disc-admin"] = "admin@example.org"
	s := newSvc(st, "disc-admin", "disc-ghost")

	cases := []struct {
		name string
		user *domain.User
		want domain.AdminStatus
	}{
		{"not on the list", &domain.User{DiscordID: "disc-user"}, domain.StatusNotAdmin},
		{"admin without identity", &domain.User{DiscordID: "disc-ghost"}, domain.StatusAdminNotIdentifiable},
		{"admin in good standing", &domain.User{DiscordID: "disc-admin"}, domain.StatusAdmin},
	}
	for _, tc := range cases {
		got, err := s.CanPerformAdminActions(context.Background(), tc.user)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestHashIdpIDIsStableAndOpaque(t *testing.T) {
	a := HashIdpID("idp-1")
	b := HashIdpID("idp-1")
	c := HashIdpID("idp-2")
	if !bytes.Equal(a, b) {
		t.Fatalf("hash must be deterministic")
	}
	if bytes.Equal(a, c) {
		t.Fatalf("distinct ids must not collide trivially")
	}
	if len(a) != 32 {
		t.Fatalf("sha-256 digest expected, got %d bytes", len(a))
	}
}
