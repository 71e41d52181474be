// Package appointments keeps a screen-facing snapshot of the appointment
// list in sync with the backend. The snapshot only ever changes by
// re-fetching: mutations elsewhere signal a refresh, they never patch the
// list optimistically.
package appointments

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dentalstack/practicekit/internal/api"
	"github.com/dentalstack/practicekit/internal/observability/metrics"
	"github.com/dentalstack/practicekit/pkg/logging"
)

const metricKind = "appointments"

// Trigger names what caused a fetch. Mutating screens emit one of these
// instead of flipping an untyped flag.
type Trigger string

const (
	TriggerStart       Trigger = "start"
	TriggerMonthChange Trigger = "month_change"
	TriggerCreated     Trigger = "created"
	TriggerUpdated     Trigger = "updated"
	TriggerDeleted     Trigger = "deleted"
	TriggerManual      Trigger = "manual"
)

// Backend is the slice of the REST client the coordinator fetches through.
type Backend interface {
	ListAppointments(ctx context.Context, filters api.AppointmentFilters) ([]api.Appointment, error)
}

// Snapshot is what screens render. Appointments is never nil; after a failed
// fetch it is empty and Err carries the failure.
type Snapshot struct {
	Appointments []api.Appointment
	Loading      bool
	Err          error
}

// Coordinator serializes fetches and publishes the latest snapshot. Each
// fetch takes a monotonically increasing sequence number; a response whose
// number is no longer current is discarded, so a slow early response can
// never clobber a fast later one.
type Coordinator struct {
	backend Backend
	logger  *logging.Logger
	metrics *metrics.FetchMetrics

	seq atomic.Uint64

	mu           sync.Mutex
	appointments []api.Appointment
	loading      bool
	err          error

	signals chan Trigger
	done    chan struct{}
	once    sync.Once
}

func NewCoordinator(backend Backend, logger *logging.Logger, m *metrics.FetchMetrics) *Coordinator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Coordinator{
		backend:      backend,
		logger:       logger.Component("appointments"),
		metrics:      m,
		appointments: []api.Appointment{},
		signals:      make(chan Trigger, 8),
		done:         make(chan struct{}),
	}
}

// Fetch pulls the full appointment list and installs it, unless a newer
// fetch started meanwhile. The returned error is also captured in the
// snapshot, so fire-and-forget callers can ignore it.
func (c *Coordinator) Fetch(ctx context.Context, trigger Trigger) error {
	seq := c.seq.Add(1)

	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	c.metrics.ObserveFetch(metricKind, string(trigger))
	start := time.Now()
	appts, err := c.backend.ListAppointments(ctx, api.AppointmentFilters{})
	c.metrics.ObserveLatency(metricKind, time.Since(start).Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq.Load() {
		// A newer fetch owns the snapshot now.
		c.metrics.ObserveStaleDiscard(metricKind)
		c.logger.Debug("stale fetch discarded", "trigger", string(trigger))
		return nil
	}
	c.loading = false
	if err != nil {
		c.metrics.ObserveError(metricKind)
		c.logger.Error("appointment fetch failed", "trigger", string(trigger), "error", err)
		c.appointments = []api.Appointment{}
		c.err = err
		return err
	}
	if appts == nil {
		appts = []api.Appointment{}
	}
	c.appointments = appts
	c.err = nil
	c.logger.Debug("appointments refreshed", "trigger", string(trigger), "count", len(appts))
	return nil
}

// Refresh queues a re-fetch without blocking. The channel is buffered; under
// a burst of signals the queue coalesces on whatever Run gets to next, which
// is fine because every fetch pulls the full list anyway.
func (c *Coordinator) Refresh(trigger Trigger) {
	select {
	case c.signals <- trigger:
	default:
	}
}

// Run consumes refresh signals until ctx ends or Close is called. Start it
// once, in its own goroutine.
func (c *Coordinator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case trigger := <-c.signals:
			_ = c.Fetch(ctx, trigger)
		}
	}
}

// Close stops Run. Safe to call more than once.
func (c *Coordinator) Close() {
	c.once.Do(func() { close(c.done) })
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	appts := make([]api.Appointment, len(c.appointments))
	copy(appts, c.appointments)
	return Snapshot{Appointments: appts, Loading: c.loading, Err: c.err}
}
