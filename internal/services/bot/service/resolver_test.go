package service

import (
	"context"
	"testing"

	"rolelink/internal/core/selector"
	"rolelink/internal/services/bot/domain"
)

func TestResolveWithoutDirectoryLookup(t *testing.T) {
	dir := newFakeDirectory()
	svc := newTestSvc(newFakeIdentity(), dir)

	cases := []struct {
		in   string
		kind domain.TargetKind
		id   string
	}{
		{"<@123>", domain.TargetUser, "123"},
		{"42", domain.TargetUser, "42"},
		{"<@&456>", domain.TargetRole, "456"},
		{"/789", domain.TargetRole, "789"},
		{"!everyone", domain.TargetEveryone, ""},
	}
	for _, c := range cases {
		got, err := svc.Resolve(context.Background(), selector.Parse(c.in), "srv")
		if err != nil {
			t.Fatalf("Resolve(%q): %v", c.in, err)
		}
		if got.Kind != c.kind || got.ID != c.id {
			t.Errorf("Resolve(%q) = %+v, want kind=%v id=%q", c.in, got, c.kind, c.id)
		}
	}
	if dir.roleLookups != 0 {
		t.Fatalf("directory consulted %d times for already-resolved targets", dir.roleLookups)
	}
}

func TestResolveRoleByName(t *testing.T) {
	dir := newFakeDirectory()
	dir.roles["Moderators"] = "r9"
	svc := newTestSvc(newFakeIdentity(), dir)

	got, err := svc.Resolve(context.Background(), selector.Parse("|Moderators"), "srv")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Kind != domain.TargetRole || got.ID != "r9" {
		t.Fatalf("got %+v, want role r9", got)
	}
	if dir.roleLookups != 1 {
		t.Fatalf("role lookups = %d, want 1", dir.roleLookups)
	}
}

func TestResolveRoleNameMiss(t *testing.T) {
	svc := newTestSvc(newFakeIdentity(), newFakeDirectory())

	got, err := svc.Resolve(context.Background(), selector.Parse("|Ghosts"), "srv")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Kind != domain.TargetRoleNotFound || got.Name != "Ghosts" {
		t.Fatalf("got %+v, want role_not_found Ghosts", got)
	}
}

func TestMemberIDs(t *testing.T) {
	dir := newFakeDirectory()
	dir.roleMembers["r1"] = []string{"a", "b"}
	dir.members = []string{"a", "b", "c"}
	svc := newTestSvc(newFakeIdentity(), dir)
	ctx := context.Background()

	got, err := svc.memberIDs(ctx, domain.Target{Kind: domain.TargetUser, ID: "u1"}, "srv")
	if err != nil || len(got) != 1 || got[0] != "u1" {
		t.Fatalf("user target expansion = %v, %v", got, err)
	}

	got, err = svc.memberIDs(ctx, domain.Target{Kind: domain.TargetRole, ID: "r1"}, "srv")
	if err != nil || len(got) != 2 {
		t.Fatalf("role target expansion = %v, %v", got, err)
	}

	got, err = svc.memberIDs(ctx, domain.Target{Kind: domain.TargetEveryone}, "srv")
	if err != nil || len(got) != 3 {
		t.Fatalf("everyone expansion = %v, %v", got, err)
	}
}
