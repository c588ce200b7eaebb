package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/ldtri/mealgo-api/internal/logging"
)

// Poller is an explicit repeated-pull task: every tick it fetches a fresh
// result and hands it to apply, which must replace the previous state
// wholesale rather than merge into it. Stop releases the ticker; a Poller
// whose owner goes away without calling Stop leaks its goroutine.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    func(ctx context.Context) (T, error)
	apply    func(ctx context.Context, v T) error

	cancel context.CancelFunc
	done   chan struct{}
	log    *slog.Logger
}

func New[T any](name string, interval time.Duration,
	fetch func(ctx context.Context) (T, error),
	apply func(ctx context.Context, v T) error) *Poller[T] {
	return &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		apply:    apply,
		log:      logging.New("poller"),
	}
}

// Start begins pulling; the first pull happens immediately. Ticks are
// independent: a failed or slow pull just waits for the next tick.
func (p *Poller[T]) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		p.pull(ctx)

		t := time.NewTicker(p.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				p.pull(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the in-flight pull to finish.
func (p *Poller[T]) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

func (p *Poller[T]) pull(ctx context.Context) {
	v, err := p.fetch(ctx)
	if err != nil {
		p.log.Warn("pull failed", "poller", p.name, "err", err)
		return
	}
	if err := p.apply(ctx, v); err != nil {
		p.log.Warn("apply failed", "poller", p.name, "err", err)
	}
}
