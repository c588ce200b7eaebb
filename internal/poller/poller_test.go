package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type snapshot struct {
	mu   sync.Mutex
	last []string
	sets int
}

func (s *snapshot) apply(ctx context.Context, v []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = v
	s.sets++
	return nil
}

func (s *snapshot) state() ([]string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.sets
}

func TestPollerReplacesWholesale(t *testing.T) {
	var mu sync.Mutex
	results := [][]string{{"a", "b"}, {"c"}}
	var call int
	fetch := func(ctx context.Context) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		r := results[call%len(results)]
		call++
		return r, nil
	}

	snap := &snapshot{}
	p := New("test", 5*time.Millisecond, fetch, snap.apply)
	p.Start(context.Background())
	defer p.Stop()

	deadline := time.After(2 * time.Second)
	for {
		last, sets := snap.state()
		if sets >= 2 {
			// second pull fully replaced the first result set
			if len(last) == 1 && last[0] == "c" || len(last) == 2 {
				break
			}
			t.Fatalf("unexpected snapshot %v", last)
		}
		select {
		case <-deadline:
			t.Fatalf("pulls did not happen: %d", sets)
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestPollerSkipsFailedPulls(t *testing.T) {
	var mu sync.Mutex
	var call int
	fetch := func(ctx context.Context) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		call++
		if call == 1 {
			return []string{"good"}, nil
		}
		return nil, errors.New("catalog down")
	}

	snap := &snapshot{}
	p := New("test", 5*time.Millisecond, fetch, snap.apply)
	p.Start(context.Background())

	time.Sleep(40 * time.Millisecond)
	p.Stop()

	last, sets := snap.state()
	if sets != 1 {
		t.Errorf("apply ran %d times, want 1 (failed pulls keep the old state)", sets)
	}
	if len(last) != 1 || last[0] != "good" {
		t.Errorf("snapshot = %v, want [good]", last)
	}
}

func TestStopReleasesTicker(t *testing.T) {
	fetch := func(ctx context.Context) (int, error) { return 0, nil }
	apply := func(ctx context.Context, v int) error { return nil }

	p := New("test", time.Millisecond, fetch, apply)
	p.Start(context.Background())
	p.Stop()

	// double Stop must be safe for teardown paths that run twice
	p.Stop()
}
