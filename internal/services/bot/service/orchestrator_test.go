package service

import (
	"context"
	"slices"
	"testing"
)

func alphabetTargets() []string {
	out := make([]string, 0, 26)
	for c := 'a'; c <= 'z'; c++ {
		out = append(out, string(c))
	}
	return out
}

func TestSynchronizeOneFailureAmongMany(t *testing.T) {
	dir := newFakeDirectory()
	dir.failing["e"] = true
	svc := newTestSvc(newFakeIdentity(), dir)

	targets := alphabetTargets()
	svc.launchSync(context.Background(), "chan", "msg-1", targets)
	svc.Wait()

	for _, id := range targets {
		if n := dir.refreshes[id]; n != 1 {
			t.Errorf("target %q refreshed %d times, want exactly once", id, n)
		}
	}

	reactions := dir.gotReactions()
	if !slices.Contains(reactions, reactionDone) {
		t.Fatalf("reactions %v missing the done acknowledgement", reactions)
	}
	if !slices.Contains(reactions, reactionWarnings) {
		t.Fatalf("reactions %v missing the warning acknowledgement", reactions)
	}
}

func TestSynchronizeCleanRun(t *testing.T) {
	dir := newFakeDirectory()
	svc := newTestSvc(newFakeIdentity(), dir)

	svc.launchSync(context.Background(), "chan", "msg-1", []string{"a", "b", "c"})
	svc.Wait()

	reactions := dir.gotReactions()
	if !slices.Contains(reactions, reactionDone) {
		t.Fatalf("reactions %v missing the done acknowledgement", reactions)
	}
	if slices.Contains(reactions, reactionWarnings) {
		t.Fatalf("clean run must not carry the warning acknowledgement, got %v", reactions)
	}
}

func TestSynchronizePanicIsIsolated(t *testing.T) {
	dir := newFakeDirectory()
	dir.panicking["b"] = true
	svc := newTestSvc(newFakeIdentity(), dir)

	if hadErrors := svc.synchronize(context.Background(), []string{"a", "b", "c"}); !hadErrors {
		t.Fatal("panicking target should set the aggregate flag")
	}
	for _, id := range []string{"a", "b", "c"} {
		if n := dir.refreshes[id]; n != 1 {
			t.Errorf("target %q refreshed %d times, want exactly once", id, n)
		}
	}
}

func TestSynchronizeEmptyTargetList(t *testing.T) {
	dir := newFakeDirectory()
	svc := newTestSvc(newFakeIdentity(), dir)

	if hadErrors := svc.synchronize(context.Background(), nil); hadErrors {
		t.Fatal("empty target list cannot fail")
	}
}
