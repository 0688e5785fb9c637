package quota

import (
	"context"
	"sync"
	"testing"
	"time"
)

func testLimits() Limits {
	return Limits{
		DailyGenerations: 1,
		DailyRevisions:   3,
		Window:           24 * time.Hour,
	}
}

// newTestStore returns a memory store with a controllable clock.
func newTestStore(t *testing.T) (*MemoryStore, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(testLimits())
	s.now = func() time.Time { return now }
	return s, &now
}

func TestCheckFirstConsumption(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	ctx := context.Background()

	allowed, remaining, err := s.Check(ctx, "client-a", ActionGeneration)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !allowed || remaining != 0 {
		t.Errorf("expected (true, cap-1=0), got (%v, %d)", allowed, remaining)
	}

	allowed, remaining, err = s.Check(ctx, "client-a", ActionRevision)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !allowed || remaining != 2 {
		t.Errorf("expected (true, cap-1=2), got (%v, %d)", allowed, remaining)
	}
}

func TestCheckExhaustion(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	ctx := context.Background()

	if allowed, _, _ := s.Check(ctx, "client-a", ActionGeneration); !allowed {
		t.Fatal("first generation should be allowed")
	}

	for i := 0; i < 3; i++ {
		allowed, remaining, err := s.Check(ctx, "client-a", ActionGeneration)
		if err != nil {
			t.Fatalf("Check failed: %v", err)
		}
		if allowed || remaining != 0 {
			t.Errorf("call %d after exhaustion: expected (false, 0), got (%v, %d)", i, allowed, remaining)
		}
	}

	// Revisions are metered independently and must be untouched.
	if allowed, remaining, _ := s.Check(ctx, "client-a", ActionRevision); !allowed || remaining != 2 {
		t.Errorf("expected revisions unaffected (true, 2), got (%v, %d)", allowed, remaining)
	}
}

func TestStatusDoesNotConsume(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		status, err := s.Status(ctx, "client-a")
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if status.GenerationsRemaining != 1 || status.RevisionsRemaining != 3 {
			t.Errorf("read %d changed visible state: %+v", i, status)
		}
	}

	if allowed, remaining, _ := s.Check(ctx, "client-a", ActionGeneration); !allowed || remaining != 0 {
		t.Errorf("status reads must not consume quota: got (%v, %d)", allowed, remaining)
	}
}

func TestLazyResetAfterDeadline(t *testing.T) {
	t.Parallel()
	s, now := newTestStore(t)
	ctx := context.Background()

	s.Check(ctx, "client-a", ActionGeneration)
	s.Check(ctx, "client-a", ActionRevision)

	*now = now.Add(24*time.Hour + time.Minute)

	// A pure read reports restored caps without committing the reset.
	status, err := s.Status(ctx, "client-a")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.GenerationsRemaining != 1 || status.RevisionsRemaining != 3 {
		t.Errorf("expected as-if-reset caps, got %+v", status)
	}
	if !status.ResetTime.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("expected reset deadline one window from now, got %v", status.ResetTime)
	}

	// The next consuming call commits the reset and consumes one unit.
	allowed, remaining, err := s.Check(ctx, "client-a", ActionGeneration)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !allowed || remaining != 0 {
		t.Errorf("expected (true, cap-1=0) after reset, got (%v, %d)", allowed, remaining)
	}
}

func TestStatusUnseenClient(t *testing.T) {
	t.Parallel()
	s, now := newTestStore(t)

	status, err := s.Status(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.GenerationsRemaining != 1 || status.RevisionsRemaining != 3 {
		t.Errorf("expected full caps for unseen client, got %+v", status)
	}
	if !status.ResetTime.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("unexpected reset time %v", status.ResetTime)
	}
}

func TestSweepExpired(t *testing.T) {
	t.Parallel()
	s, now := newTestStore(t)
	ctx := context.Background()

	s.Check(ctx, "stale", ActionGeneration)
	*now = now.Add(25 * time.Hour)
	s.Check(ctx, "fresh", ActionGeneration)

	removed, err := s.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed entry, got %d", removed)
	}
	if _, ok := s.entries["stale"]; ok {
		t.Error("stale entry still present after sweep")
	}
	if _, ok := s.entries["fresh"]; !ok {
		t.Error("fresh entry was swept")
	}

	// A swept client starts over at full caps, same as a lazy reset.
	if allowed, remaining, _ := s.Check(ctx, "stale", ActionGeneration); !allowed || remaining != 0 {
		t.Errorf("expected (true, 0) after sweep, got (%v, %d)", allowed, remaining)
	}
}

func TestCheckConcurrentSingleUnit(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(testLimits())
	ctx := context.Background()

	const goroutines = 32
	var wg sync.WaitGroup
	allowedCount := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _, _ := s.Check(ctx, "contended", ActionGeneration)
			allowedCount <- allowed
		}()
	}
	wg.Wait()
	close(allowedCount)

	granted := 0
	for allowed := range allowedCount {
		if allowed {
			granted++
		}
	}
	if granted != 1 {
		t.Errorf("expected exactly 1 grant for cap 1, got %d", granted)
	}
}
