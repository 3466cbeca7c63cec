package content

import (
	"testing"
	"time"
)

func TestBreaker_opensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker(3, 2, time.Minute)

	for i := 0; i < 2; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("Allow below threshold: %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); err == nil {
		t.Fatal("expected open circuit after threshold")
	}
	if got := b.State(); got != BreakerOpen {
		t.Errorf("State = %v, want open", got)
	}
}

func TestBreaker_successResetsFailureCount(t *testing.T) {
	b := NewBreaker(3, 2, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()

	if err := b.Allow(); err != nil {
		t.Fatalf("Allow after reset: %v", err)
	}
}

func TestBreaker_halfOpenRecovery(t *testing.T) {
	b := NewBreaker(1, 2, 10*time.Millisecond)

	b.RecordFailure()
	if err := b.Allow(); err == nil {
		t.Fatal("expected open circuit")
	}

	time.Sleep(20 * time.Millisecond)
	if err := b.Allow(); err != nil {
		t.Fatalf("Allow after timeout: %v", err)
	}
	if got := b.State(); got != BreakerHalfOpen {
		t.Fatalf("State = %v, want half-open", got)
	}

	b.RecordSuccess()
	b.RecordSuccess()
	if got := b.State(); got != BreakerClosed {
		t.Errorf("State = %v, want closed after successes", got)
	}
}

func TestBreaker_halfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(1, 2, 10*time.Millisecond)

	b.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	if err := b.Allow(); err != nil {
		t.Fatalf("Allow after timeout: %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); err == nil {
		t.Fatal("expected reopened circuit")
	}
}

func TestBreaker_stateChangeCallback(t *testing.T) {
	b := NewBreaker(1, 1, time.Minute)

	var transitions []string
	b.OnStateChange(func(from, to BreakerState) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	b.RecordFailure()
	if len(transitions) != 1 || transitions[0] != "closed->open" {
		t.Errorf("transitions = %v, want [closed->open]", transitions)
	}
}

func TestDetailCache_expiry(t *testing.T) {
	c := newDetailCache(10*time.Millisecond, 10)

	c.put("movies/m1", map[string]any{"_id": "m1"})
	if _, hit := c.get("movies/m1"); !hit {
		t.Fatal("expected cache hit")
	}

	time.Sleep(20 * time.Millisecond)
	if _, hit := c.get("movies/m1"); hit {
		t.Error("expected miss after TTL")
	}
}

func TestDetailCache_boundedSize(t *testing.T) {
	c := newDetailCache(time.Minute, 3)

	for _, key := range []string{"a", "b", "c", "d", "e"} {
		c.put(key, map[string]any{"_id": key})
	}
	if got := c.len(); got > 3 {
		t.Errorf("len = %d, want <= 3", got)
	}
}
