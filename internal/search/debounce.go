// Package search issues patient searches only after the user stops typing.
// Every keystroke reschedules a single quiet-period timer; the backend sees
// one query per pause, not one per character.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/dentalstack/practicekit/internal/api"
	"github.com/dentalstack/practicekit/internal/observability/metrics"
	"github.com/dentalstack/practicekit/pkg/logging"
)

const metricKind = "search"

// DefaultQuietPeriod is how long input must be idle before a query fires.
const DefaultQuietPeriod = 300 * time.Millisecond

// Backend is the slice of the REST client searches go through.
type Backend interface {
	ListPatients(ctx context.Context, search, riskLevel string) ([]api.Patient, error)
}

// Results is what the patient list renders. Patients is never nil.
type Results struct {
	Query     string
	Patients  []api.Patient
	Searching bool
	Err       error
}

// Debouncer coalesces keystrokes into backend queries. SetQuery is called on
// every keystroke; the query fires once input has been quiet for the
// configured period. Responses carry sequence numbers, so a slow response
// for an old query cannot overwrite the results of a newer one.
type Debouncer struct {
	backend Backend
	logger  *logging.Logger
	metrics *metrics.FetchMetrics
	quiet   time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	seq       uint64
	query     string
	patients  []api.Patient
	searching bool
	err       error
	closed    bool
}

func NewDebouncer(backend Backend, quiet time.Duration, logger *logging.Logger, m *metrics.FetchMetrics) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Debouncer{
		backend:  backend,
		logger:   logger.Component("search"),
		metrics:  m,
		quiet:    quiet,
		patients: []api.Patient{},
	}
}

// SetQuery records a keystroke. Searching turns true immediately and stays
// true until the eventual query resolves, even while the timer is still
// pending. An earlier pending timer is cancelled, never fired.
func (d *Debouncer) SetQuery(ctx context.Context, query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.query = query
	d.searching = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() { d.fire(ctx, query) })
}

// Flush fires the pending query immediately, for Enter-to-search.
func (d *Debouncer) Flush(ctx context.Context) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	query := d.query
	d.mu.Unlock()

	d.fire(ctx, query)
}

func (d *Debouncer) fire(ctx context.Context, query string) {
	d.mu.Lock()
	if d.closed || query != d.query {
		// A newer keystroke rescheduled; this firing is obsolete.
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	d.metrics.ObserveDebounceFire()
	d.metrics.ObserveFetch(metricKind, "debounce")
	start := time.Now()
	patients, err := d.backend.ListPatients(ctx, query, "all")
	d.metrics.ObserveLatency(metricKind, time.Since(start).Seconds())

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq || query != d.query {
		d.metrics.ObserveStaleDiscard(metricKind)
		d.logger.Debug("stale search discarded", "query", query)
		return
	}
	d.searching = false
	if err != nil {
		d.metrics.ObserveError(metricKind)
		d.logger.Error("patient search failed", "query", query, "error", err)
		d.patients = []api.Patient{}
		d.err = err
		return
	}
	if patients == nil {
		patients = []api.Patient{}
	}
	d.patients = patients
	d.err = nil
	d.logger.Debug("search resolved", "query", query, "count", len(patients))
}

// Results returns a copy of the current state.
func (d *Debouncer) Results() Results {
	d.mu.Lock()
	defer d.mu.Unlock()
	patients := make([]api.Patient, len(d.patients))
	copy(patients, d.patients)
	return Results{Query: d.query, Patients: patients, Searching: d.searching, Err: d.err}
}

// Close cancels any pending timer. Keystrokes after Close are ignored.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.searching = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
