// Package calendar turns a month plus the fetched appointment list into a
// renderable grid of day cells with per-day appointment buckets.
package calendar

import (
	"sort"
	"time"

	"github.com/dentalstack/practicekit/internal/api"
	"github.com/dentalstack/practicekit/internal/timeutil"
)

// Day is one cell of the month grid. Leading cells before the 1st have
// Valid=false and carry nothing; renderers draw them blank.
type Day struct {
	Date         time.Time
	Valid        bool
	Appointments []api.Appointment
	IsToday      bool
	IsSelected   bool
}

// View holds the visible month and the single selected day. It is a plain
// value-semantics helper: Days recomputes the grid on every call, nothing is
// cached or persisted.
type View struct {
	reference time.Time
	selected  time.Time
	now       func() time.Time
}

// NewView shows the month containing now, with today selected.
func NewView(now func() time.Time) *View {
	if now == nil {
		now = time.Now
	}
	today := now()
	return &View{reference: today, selected: today, now: now}
}

// Month returns the first day of the visible month.
func (v *View) Month() time.Time {
	return time.Date(v.reference.Year(), v.reference.Month(), 1, 0, 0, 0, 0, v.reference.Location())
}

// NextMonth advances the visible month.
func (v *View) NextMonth() {
	v.reference = v.Month().AddDate(0, 1, 0)
}

// PrevMonth rewinds the visible month.
func (v *View) PrevMonth() {
	v.reference = v.Month().AddDate(0, -1, 0)
}

// SetMonth jumps to the month containing t.
func (v *View) SetMonth(t time.Time) {
	v.reference = t
}

// Select replaces the selection with day. Selecting the already-selected day
// is a no-op; there is always exactly one selected day.
func (v *View) Select(day time.Time) {
	v.selected = day
}

// Selected returns the currently selected day.
func (v *View) Selected() time.Time {
	return v.selected
}

// Days builds the grid for the visible month: one Valid=false cell per
// weekday slot before the 1st (0=Sunday indexing), then one cell per day of
// the month. No trailing cells are fabricated for the next month; any
// trailing padding is the renderer's concern.
func (v *View) Days(appts []api.Appointment) []Day {
	first := v.Month()
	daysInMonth := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())

	buckets := bucketByDate(appts)
	today := v.now()

	days := make([]Day, 0, lead+daysInMonth)
	for i := 0; i < lead; i++ {
		days = append(days, Day{})
	}
	for dom := 1; dom <= daysInMonth; dom++ {
		date := time.Date(first.Year(), first.Month(), dom, 0, 0, 0, 0, first.Location())
		days = append(days, Day{
			Date:         date,
			Valid:        true,
			Appointments: buckets[date.Format("2006-01-02")],
			IsToday:      timeutil.SameDay(date, today),
			IsSelected:   timeutil.SameDay(date, v.selected),
		})
	}
	return days
}

// Schedule returns the selected day's appointments sorted ascending by
// normalized time key. The sort is stable: identical times keep the
// backend-provided order.
func (v *View) Schedule(appts []api.Appointment) []api.Appointment {
	key := v.selected.Format("2006-01-02")
	day := make([]api.Appointment, 0)
	for _, a := range appts {
		if timeutil.DateKey(a.AppointmentDate) == key {
			day = append(day, a)
		}
	}
	sort.SliceStable(day, func(i, j int) bool {
		return timeutil.TimeKey(day[i].StartTime) < timeutil.TimeKey(day[j].StartTime)
	})
	return day
}

// bucketByDate groups appointments under their normalized date key,
// preserving backend order within each bucket.
func bucketByDate(appts []api.Appointment) map[string][]api.Appointment {
	buckets := make(map[string][]api.Appointment, len(appts))
	for _, a := range appts {
		key := timeutil.DateKey(a.AppointmentDate)
		buckets[key] = append(buckets[key], a)
	}
	return buckets
}
