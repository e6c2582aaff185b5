package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler, o Options) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	o.BaseURL = srv.URL
	if o.Token == "" {
		o.Token = "tok"
	}
	if o.RetryBase == 0 {
		o.RetryBase = time.Millisecond
	}
	return New(o)
}

func TestGetRoleIDByName(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/guilds/g1/roles" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bot tok" {
			t.Errorf("auth header = %q", got)
		}
		json.NewEncoder(w).Encode([]role{{ID: "1", Name: "Mods"}, {ID: "2", Name: "Users"}})
	}), Options{})

	id, err := c.GetRoleIDByName(context.Background(), "Users", "g1")
	if err != nil {
		t.Fatalf("GetRoleIDByName: %v", err)
	}
	if id != "2" {
		t.Fatalf("id = %q, want 2", id)
	}

	id, err = c.GetRoleIDByName(context.Background(), "Ghosts", "g1")
	if err != nil {
		t.Fatalf("GetRoleIDByName miss: %v", err)
	}
	if id != "" {
		t.Fatalf("miss returned %q, want empty", id)
	}
}

func TestSendChannelMessage(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/channels/c1/messages" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["content"] != "hello" {
			t.Errorf("content = %q", body["content"])
		}
		json.NewEncoder(w).Encode(message{ID: "m42"})
	}), Options{})

	id, err := c.SendChannelMessage(context.Background(), "c1", "hello")
	if err != nil {
		t.Fatalf("SendChannelMessage: %v", err)
	}
	if id != "m42" {
		t.Fatalf("message id = %q", id)
	}
}

func TestAddReactionEscapesEmoji(t *testing.T) {
	var gotPath atomic.Value
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	}), Options{})

	if err := c.AddReaction(context.Background(), "c1", "m1", "✅"); err != nil {
		t.Fatalf("AddReaction: %v", err)
	}
	p, _ := gotPath.Load().(string)
	if !strings.HasPrefix(p, "/channels/c1/messages/m1/reactions/%E2%9C%85") {
		t.Fatalf("path = %q, want the emoji percent-encoded", p)
	}
}

func TestRefreshUserRolesAppliesDiff(t *testing.T) {
	var puts, deletes []string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/guilds/g1/members/u1":
			json.NewEncoder(w).Encode(member{User: memberUser{ID: "u1"}, Roles: []string{"old", "keep"}})
		case r.Method == http.MethodGet && r.URL.Path == "/guilds/g2/members/u1":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut:
			puts = append(puts, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete:
			deletes = append(deletes, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}), Options{
		GuildIDs: []string{"g1", "g2"},
		Rule: func(context.Context, string) (add, remove []string, err error) {
			return []string{"new", "keep"}, []string{"old", "gone"}, nil
		},
	})

	if err := c.RefreshUserRoles(context.Background(), "u1"); err != nil {
		t.Fatalf("RefreshUserRoles: %v", err)
	}
	if len(puts) != 1 || puts[0] != "/guilds/g1/members/u1/roles/new" {
		t.Fatalf("puts = %v, want only the missing role granted", puts)
	}
	if len(deletes) != 1 || deletes[0] != "/guilds/g1/members/u1/roles/old" {
		t.Fatalf("deletes = %v, want only the held role revoked", deletes)
	}
}

func TestRateWindowDelaysNextCall(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset-After", "0.05")
		}
		json.NewEncoder(w).Encode([]role{})
	}), Options{})

	ctx := context.Background()
	if _, err := c.GetRoleIDByName(ctx, "x", "g1"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	start := time.Now()
	if _, err := c.GetRoleIDByName(ctx, "x", "g1"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("second call ran after %v, want it held until the window reset", elapsed)
	}
}

func TestTooManyRequestsRetries(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0.01")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]role{{ID: "1", Name: "x"}})
	}), Options{})

	id, err := c.GetRoleIDByName(context.Background(), "x", "g1")
	if err != nil {
		t.Fatalf("GetRoleIDByName: %v", err)
	}
	if id != "1" || calls.Load() != 2 {
		t.Fatalf("id=%q calls=%d, want a single retry succeeding", id, calls.Load())
	}
}
