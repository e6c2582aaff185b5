package service

import (
	"bytes"
	"context"
	"testing"

	perr "rolelink/internal/platform/errors"
	"rolelink/internal/services/identity/domain"
)

func TestCreateUserDeniedSurfacesUserFacingError(t *testing.T) {
	st := newFakeStorage()
	k, b := banFor("idp-1", nil)
	st.bans[k] = []domain.Ban{b}
	s := newSvc(st)

	_, err := s.CreateUser(context.Background(), domain.CreateUserInput{
		DiscordID: "disc-1", IdpID: "idp-1", Email: "a@b.c",
	}, domain.AccessGrant{})
	if err == nil {
		t.Fatalf("expected denial")
	}
	e, ok := perr.As(err)
	if !ok {
		t.Fatalf("expected a project error, got %T", err)
	}
	if e.Code() != perr.ErrorCodeAccountCreationDenied {
		t.Fatalf("code = %d", e.Code())
	}
	if !e.UserFacing() || e.I18nKey() != "adv.idp_banned" {
		t.Fatalf("denial must be user-facing with the advisory i18n key, got %+v", e)
	}
	if len(st.recorded) != 0 {
		t.Fatalf("nothing must be recorded on denial")
	}
}

func TestCreateUserRecordsHashedIdAndTimestamp(t *testing.T) {
	st := newFakeStorage()
	s := newSvc(st)

	u, err := s.CreateUser(context.Background(), domain.CreateUserInput{
		DiscordID: "disc-1", IdpID: "idp-1", Email: "a@b.c",
	}, domain.AccessGrant{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.recorded) != 1 {
		t.Fatalf("recorded %d users", len(st.recorded))
	}
	rec := st.recorded[0]
	if !bytes.Equal(rec.IdpIDHash, HashIdpID("idp-1")) {
		t.Fatalf("provider id must be stored as its hash")
	}
	if bytes.Contains(rec.IdpIDHash, []byte("idp-1")) {
		t.Fatalf("raw provider id leaked into storage")
	}
	if rec.Timestamp.IsZero() || u.CreatedAt.IsZero() {
		t.Fatalf("creation timestamp missing")
	}
	if rec.KeepIdentity {
		t.Fatalf("identity must not be kept unless asked")
	}
}

func TestCreateUserKeepIdentityNeedsGrantAndIsAudited(t *testing.T) {
	st := newFakeStorage()
	audit := &fakeAudit{}
	s := New(st, audit, Config{})

	in := domain.CreateUserInput{DiscordID: "disc-1", IdpID: "idp-1", Email: "a@b.c", KeepIdentity: true}

	if _, err := s.CreateUser(context.Background(), in, domain.AccessGrant{}); err == nil {
		t.Fatalf("identity capture without a grant must be refused")
	} else if !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("code = %d", perr.CodeOf(err))
	}

	grant := domain.GrantIdentityAccess("registration", "user opted in to identity retention", true)
	if _, err := s.CreateUser(context.Background(), in, grant); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(audit.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(audit.events))
	}
	ev := audit.events[0]
	if ev.Target != "disc-1" || ev.Requester != "registration" || !ev.Automated {
		t.Fatalf("audit event wrong: %+v", ev)
	}
}

func TestGetIdentityGateRefusesZeroGrant(t *testing.T) {
	st := newFakeStorage()
	st.emails["disc-1"] = "a@b.c"
	audit := &fakeAudit{}
	s := New(st, audit, Config{})
	u := &domain.User{DiscordID: "disc-1"}

	if _, err := s.GetIdentity(context.Background(), u, domain.AccessGrant{}); err == nil {
		t.Fatalf("zero-value grant must be refused")
	}

	grant := domain.GrantIdentityAccess("admin-9", "abuse report 4412", false)
	email, err := s.GetIdentity(context.Background(), u, grant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email != "a@b.c" {
		t.Fatalf("email = %q", email)
	}
	if len(audit.events) != 1 || audit.events[0].Reason != "abuse report 4412" {
		t.Fatalf("identity read must land on the audit trail: %+v", audit.events)
	}
}

func TestGetIdentityWithoutRecordedIdentityIsNotFound(t *testing.T) {
	st := newFakeStorage()
	audit := &fakeAudit{}
	s := New(st, audit, Config{})
	u := &domain.User{DiscordID: "disc-1"} // registered, never opted in

	grant := domain.GrantIdentityAccess("admin-9", "abuse report 4412", false)
	_, err := s.GetIdentity(context.Background(), u, grant)
	if err == nil {
		t.Fatalf("expected an error for a user without a recorded identity")
	}
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("code = %d, want not found", perr.CodeOf(err))
	}
	if got := perr.HTTPStatus(err); got != 404 {
		t.Fatalf("http status = %d, want 404", got)
	}
	if len(audit.events) != 0 {
		t.Fatalf("a failed read must not land on the audit trail: %+v", audit.events)
	}
}
