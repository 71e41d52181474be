package clinicsim_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dentalstack/practicekit/internal/api"
	"github.com/dentalstack/practicekit/internal/appointments"
	"github.com/dentalstack/practicekit/internal/calendar"
	"github.com/dentalstack/practicekit/internal/clinicsim"
	"github.com/dentalstack/practicekit/internal/guard"
	"github.com/dentalstack/practicekit/internal/search"
	"github.com/dentalstack/practicekit/internal/session"
)

// The full restart path: login on one "run", then bring the stack up again
// over the same vault and check that the guard admits the dashboard without
// a redirect, one fetch fills the calendar, and the mixed-format seed data
// lands in the right buckets.
func TestRestartRestoresSessionAndFillsCalendar(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	sim := clinicsim.NewServer(clinicsim.Config{
		JWTSecret: "e2e-secret",
		Now:       func() time.Time { return now },
	})
	if err := sim.Seed(); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(sim)
	defer ts.Close()

	vaultPath := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	// First run: log in and let the vault persist the session.
	{
		vault, err := session.NewFileVault(vaultPath)
		if err != nil {
			t.Fatal(err)
		}
		store, err := session.NewStore(vault, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		client, err := api.New(api.Config{BaseURL: ts.URL, Tokens: store})
		if err != nil {
			t.Fatal(err)
		}
		store.SetBackend(client)
		if err := store.Initialize(ctx); err != nil {
			t.Fatal(err)
		}
		user, err := store.Login(ctx, "dentist@clinic.test", "password123")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if user.Role != "dentist" {
			t.Fatalf("user = %+v", user)
		}
	}

	// Second run: fresh objects, same vault.
	vault, _ := session.NewFileVault(vaultPath)
	store, _ := session.NewStore(vault, nil, nil)
	client, err := api.New(api.Config{BaseURL: ts.URL, Tokens: store})
	if err != nil {
		t.Fatal(err)
	}
	store.SetBackend(client)
	g := guard.New(store, nil)

	// Before restore completes the guard holds; it must never flash a
	// login redirect at a user whose session is about to come back.
	if action := g.Decide("/"); action != guard.Hold {
		t.Fatalf("pre-restore Decide(/) = %s, want hold", action)
	}
	if err := store.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if action := g.Decide("/"); action != guard.Allow {
		t.Fatalf("post-restore Decide(/) = %s, want allow", action)
	}
	if action := g.Decide("/login"); action != guard.RedirectHome {
		t.Fatalf("post-restore Decide(/login) = %s, want redirect home", action)
	}

	coord := appointments.NewCoordinator(client, nil, nil)
	if err := coord.Fetch(ctx, appointments.TriggerStart); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	snap := coord.Snapshot()
	if len(snap.Appointments) != 5 {
		t.Fatalf("fetched %d appointments, want 5", len(snap.Appointments))
	}

	view := calendar.NewView(func() time.Time { return now })
	days := view.Days(snap.Appointments)

	var today *calendar.Day
	for i := range days {
		if days[i].Valid && days[i].IsToday {
			today = &days[i]
		}
	}
	if today == nil {
		t.Fatal("no cell flagged as today")
	}
	// Seed has one plain-key and one ISO-instant appointment today; both
	// must land in the same bucket.
	if len(today.Appointments) != 2 {
		t.Fatalf("today's bucket = %d appointments, want 2", len(today.Appointments))
	}

	sched := view.Schedule(snap.Appointments)
	if len(sched) != 2 {
		t.Fatalf("schedule = %d, want 2", len(sched))
	}
	if sched[0].StartTime != "09:00" {
		t.Fatalf("schedule not time sorted: %+v", sched)
	}
}

// A stale persisted token must surface as ErrAuthExpired on the first
// authed call, and logging out afterwards must leave the guard redirecting
// to login.
func TestExpiredSessionEndsAtLogin(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	var offset atomic.Int64
	sim := clinicsim.NewServer(clinicsim.Config{
		JWTSecret: "e2e-secret",
		TokenTTL:  time.Minute,
		Now:       func() time.Time { return base.Add(time.Duration(offset.Load())) },
	})
	if err := sim.Seed(); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(sim)
	defer ts.Close()

	vaultPath := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	vault, _ := session.NewFileVault(vaultPath)
	store, _ := session.NewStore(vault, nil, nil)
	client, err := api.New(api.Config{BaseURL: ts.URL, Tokens: store})
	if err != nil {
		t.Fatal(err)
	}
	store.SetBackend(client)
	store.Initialize(ctx)
	if _, err := store.Login(ctx, "dentist@clinic.test", "password123"); err != nil {
		t.Fatal(err)
	}

	// The clinic's clock jumps past the token TTL.
	offset.Store(int64(2 * time.Minute))

	_, err = client.ListAppointments(ctx, api.AppointmentFilters{})
	if !errors.Is(err, api.ErrAuthExpired) {
		t.Fatalf("stale token error = %v, want ErrAuthExpired", err)
	}

	store.Logout(ctx)
	g := guard.New(store, nil)
	if action := g.Decide("/"); action != guard.RedirectLogin {
		t.Fatalf("post-logout Decide(/) = %s, want redirect login", action)
	}
}

// Typing against the simulator issues exactly one backend query per pause.
func TestDebouncedSearchAgainstSim(t *testing.T) {
	sim := clinicsim.NewServer(clinicsim.Config{JWTSecret: "e2e-secret"})
	if err := sim.Seed(); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(sim)
	defer ts.Close()

	ctx := context.Background()
	vault, _ := session.NewFileVault(filepath.Join(t.TempDir(), "session.json"))
	store, _ := session.NewStore(vault, nil, nil)
	client, err := api.New(api.Config{BaseURL: ts.URL, Tokens: store})
	if err != nil {
		t.Fatal(err)
	}
	store.SetBackend(client)
	store.Initialize(ctx)
	if _, err := store.Login(ctx, "frontdesk@clinic.test", "password123"); err != nil {
		t.Fatal(err)
	}

	d := search.NewDebouncer(client, 30*time.Millisecond, nil, nil)
	defer d.Close()

	for _, q := range []string{"j", "jo", "jon", "jones"} {
		d.SetQuery(ctx, q)
	}
	deadline := time.After(2 * time.Second)
	for d.Results().Searching {
		select {
		case <-deadline:
			t.Fatal("search never resolved")
		case <-time.After(5 * time.Millisecond):
		}
	}

	res := d.Results()
	if res.Err != nil {
		t.Fatalf("search error: %v", res.Err)
	}
	if len(res.Patients) != 1 || res.Patients[0].LastName != "Jones" {
		t.Fatalf("results = %+v", res.Patients)
	}
}
