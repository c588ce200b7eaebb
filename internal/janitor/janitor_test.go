package janitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubSweeper struct {
	mu      sync.Mutex
	calls   int
	cutoffs []time.Time
	n       int64
	err     error
}

func (s *stubSweeper) CancelStale(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.n, s.err
}

func (s *stubSweeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSweepUsesConfiguredCutoff(t *testing.T) {
	sw := &stubSweeper{n: 3}
	j := New(sw, time.Hour, 10*time.Hour)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	j.Sweep(context.Background())

	if sw.count() != 1 {
		t.Fatalf("sweeper called %d times, want 1", sw.count())
	}
	want := fixed.Add(-10 * time.Hour)
	if !sw.cutoffs[0].Equal(want) {
		t.Errorf("cutoff = %v, want %v", sw.cutoffs[0], want)
	}
}

func TestSweepSwallowsErrors(t *testing.T) {
	sw := &stubSweeper{err: errors.New("db down")}
	j := New(sw, time.Hour, 10*time.Hour)

	// must not panic or propagate
	j.Sweep(context.Background())
	j.Sweep(context.Background())

	if sw.count() != 2 {
		t.Errorf("sweeper called %d times, want 2", sw.count())
	}
}

func TestRunSweepsAtStartThenOnTicks(t *testing.T) {
	sw := &stubSweeper{}
	j := New(sw, 10*time.Millisecond, 10*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for sw.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d sweeps before deadline", sw.count())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on ctx cancel")
	}
}
