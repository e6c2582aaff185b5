package rate

import (
	"testing"
	"time"
)

func TestShouldLimitOnlyWhenDrainedAndLive(t *testing.T) {
	future := time.Now().Add(time.Minute)
	past := time.Now().Add(-time.Minute)

	cases := []struct {
		name string
		r    Rate
		want bool
	}{
		{"permits left, live window", New(3, future), false},
		{"drained, live window", New(0, future), true},
		{"drained, expired window", New(0, past), false},
		{"permits left, expired window", New(3, past), false},
	}
	for _, tc := range cases {
		if got := tc.r.ShouldLimit(); got != tc.want {
			t.Fatalf("%s: ShouldLimit = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestConsumeFloorsAtZero(t *testing.T) {
	r := New(1, time.Now().Add(time.Minute))

	r = r.Consume()
	if r.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", r.Remaining)
	}
	if !r.ShouldLimit() {
		t.Fatalf("expected throttling after last permit was spent")
	}

	r = r.Consume()
	if r.Remaining != 0 {
		t.Fatalf("consume must floor at 0, got %d", r.Remaining)
	}
}

func TestNewClampsNegativePermits(t *testing.T) {
	r := New(-5, time.Now().Add(time.Minute))
	if r.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", r.Remaining)
	}
}

func TestExpiryLiftsTheLimit(t *testing.T) {
	r := New(0, time.Now().Add(20*time.Millisecond))
	if !r.ShouldLimit() {
		t.Fatalf("expected limit while the window is live")
	}
	time.Sleep(30 * time.Millisecond)
	if r.ShouldLimit() {
		t.Fatalf("expected the limit to lift once the window expired")
	}
	if !r.HasExpired() {
		t.Fatalf("expected HasExpired after the reset instant")
	}
}
