package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ldtri/mealgo-api/internal/logging"
)

var (
	sweeps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "janitor_sweeps_total",
			Help: "Total number of stale-order sweeps",
		},
		[]string{"result"},
	)

	cancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "janitor_orders_cancelled_total",
			Help: "Total number of orders cancelled by the janitor",
		},
	)
)

// Sweeper is the lifecycle-service entry point the janitor drives.
type Sweeper interface {
	CancelStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// Janitor cancels orders abandoned in Processing past StaleAfter. One sweep
// runs at start, then one per Interval. A failed sweep is logged and dropped;
// the next interval is the retry.
type Janitor struct {
	sweeper    Sweeper
	interval   time.Duration
	staleAfter time.Duration
	log        *slog.Logger
	now        func() time.Time
}

func New(sweeper Sweeper, interval, staleAfter time.Duration) *Janitor {
	return &Janitor{
		sweeper:    sweeper,
		interval:   interval,
		staleAfter: staleAfter,
		log:        logging.New("janitor"),
		now:        time.Now,
	}
}

// Run blocks until ctx is cancelled. Call it in its own goroutine.
func (j *Janitor) Run(ctx context.Context) {
	j.Sweep(ctx)

	t := time.NewTicker(j.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs one pass. It never returns an error: the janitor has no caller
// to report to, so failures are logged and the process keeps going.
func (j *Janitor) Sweep(ctx context.Context) {
	cutoff := j.now().UTC().Add(-j.staleAfter)
	n, err := j.sweeper.CancelStale(ctx, cutoff)
	if err != nil {
		sweeps.WithLabelValues("error").Inc()
		j.log.Error("sweep failed", "cutoff", cutoff, "err", err)
		return
	}
	sweeps.WithLabelValues("ok").Inc()
	cancelled.Add(float64(n))
	j.log.Debug("sweep done", "cutoff", cutoff, "cancelled", n)
}
