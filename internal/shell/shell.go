// Package shell is the terminal front door of the practice client. Every
// command maps to a route and passes through the route guard before it
// renders, so auth rules live in one place no matter which screen the user
// asks for.
package shell

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dentalstack/practicekit/internal/api"
	"github.com/dentalstack/practicekit/internal/appointments"
	"github.com/dentalstack/practicekit/internal/calendar"
	"github.com/dentalstack/practicekit/internal/guard"
	"github.com/dentalstack/practicekit/internal/search"
	"github.com/dentalstack/practicekit/internal/session"
	"github.com/dentalstack/practicekit/internal/timeutil"
	"github.com/dentalstack/practicekit/pkg/logging"
)

// Client is the REST surface the shell renders from.
type Client interface {
	appointments.Backend
	search.Backend
	TodaysAppointments(ctx context.Context) ([]api.Appointment, error)
	CreateAppointment(ctx context.Context, req api.CreateAppointmentRequest) (*api.Appointment, error)
	UpdateAppointment(ctx context.Context, id int, req api.UpdateAppointmentRequest) (*api.Appointment, error)
	DeleteAppointment(ctx context.Context, id int) error
	ListTreatments(ctx context.Context, search string) ([]api.Treatment, error)
	ListPatientTreatments(ctx context.Context) ([]api.PatientTreatment, error)
	ListInvoices(ctx context.Context, status string) ([]api.Invoice, error)
	DashboardStats(ctx context.Context) (*api.DashboardStats, error)
}

// Shell executes one command per invocation against a restored session.
type Shell struct {
	session  *session.Store
	guard    *guard.Guard
	client   Client
	coord    *appointments.Coordinator
	searcher *search.Debouncer
	logger   *logging.Logger
	out      io.Writer
	now      func() time.Time
}

type Config struct {
	Session  *session.Store
	Guard    *guard.Guard
	Client   Client
	Coord    *appointments.Coordinator
	Searcher *search.Debouncer
	Logger   *logging.Logger
	Out      io.Writer
	Now      func() time.Time
}

func New(cfg Config) *Shell {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Shell{
		session:  cfg.Session,
		guard:    cfg.Guard,
		client:   cfg.Client,
		coord:    cfg.Coord,
		searcher: cfg.Searcher,
		logger:   cfg.Logger.Component("shell"),
		out:      cfg.Out,
		now:      cfg.Now,
	}
}

// routeFor maps commands to the routes the guard knows.
func routeFor(command string) string {
	switch command {
	case "login":
		return "/login"
	case "register":
		return "/register"
	case "calendar", "schedule", "today", "book", "cancel", "complete":
		return "/appointments"
	case "patients":
		return "/patients"
	case "treatments", "plans":
		return "/treatments"
	case "invoices":
		return "/billing"
	case "stats", "whoami", "logout":
		return "/"
	default:
		return "/"
	}
}

// Run executes one command. The session must already be initialized; the
// guard never sees the loading state here, it decides on the restored
// session.
func (s *Shell) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		s.usage()
		return nil
	}
	command, rest := args[0], args[1:]

	switch s.guard.Decide(routeFor(command)) {
	case guard.RedirectLogin:
		fmt.Fprintln(s.out, "Not signed in. Run: practice login <email> <password>")
		return nil
	case guard.RedirectHome:
		fmt.Fprintln(s.out, "Already signed in. Run: practice logout first")
		return nil
	case guard.Hold:
		return fmt.Errorf("session restore has not finished")
	}

	switch command {
	case "login":
		return s.login(ctx, rest)
	case "register":
		return s.register(ctx, rest)
	case "logout":
		s.session.Logout(ctx)
		fmt.Fprintln(s.out, "Signed out.")
		return nil
	case "whoami":
		return s.whoami()
	case "calendar":
		return s.calendar(ctx, rest)
	case "schedule":
		return s.schedule(ctx, rest)
	case "today":
		return s.today(ctx)
	case "book":
		return s.book(ctx, rest)
	case "cancel":
		return s.setStatus(ctx, rest, api.AppointmentCancelled)
	case "complete":
		return s.setStatus(ctx, rest, api.AppointmentCompleted)
	case "patients":
		return s.patients(ctx, rest)
	case "treatments":
		return s.treatments(ctx)
	case "plans":
		return s.plans(ctx)
	case "invoices":
		return s.invoices(ctx)
	case "stats":
		return s.stats(ctx)
	default:
		s.usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (s *Shell) usage() {
	fmt.Fprintln(s.out, `Usage: practice <command> [args]

  login <email> <password>     sign in
  register <email> <password> <first> <last> <role>
  logout                       sign out
  whoami                       show the signed-in user
  calendar [YYYY-MM]           month grid with appointment counts
  schedule [YYYY-MM-DD]        day schedule for the selected date
  today                        today's appointments
  book <patientId> <date> <time> [notes]
  cancel <appointmentId>
  complete <appointmentId>
  patients [query]             list or search patients
  treatments                   procedure catalogue
  plans                        patient treatment plans
  invoices                     billing
  stats                        dashboard counters`)
}

func (s *Shell) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <email> <password>")
	}
	user, err := s.session.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Signed in as %s %s (%s)\n", user.FirstName, user.LastName, user.Role)
	return nil
}

func (s *Shell) register(ctx context.Context, args []string) error {
	if len(args) < 5 {
		return fmt.Errorf("usage: register <email> <password> <first> <last> <role>")
	}
	user, err := s.session.Register(ctx, api.RegisterRequest{
		Email:     args[0],
		Password:  args[1],
		FirstName: args[2],
		LastName:  args[3],
		Role:      args[4],
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Account created. Signed in as %s %s (%s)\n", user.FirstName, user.LastName, user.Role)
	return nil
}

func (s *Shell) whoami() error {
	user := s.session.User()
	if user == nil {
		fmt.Fprintln(s.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(s.out, "%s %s <%s> role=%s\n", user.FirstName, user.LastName, user.Email, user.Role)
	return nil
}

func (s *Shell) calendar(ctx context.Context, args []string) error {
	view := calendar.NewView(s.now)
	if len(args) == 1 {
		month, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("invalid month %q, want YYYY-MM", args[0])
		}
		view.SetMonth(month)
	}

	if err := s.coord.Fetch(ctx, appointments.TriggerStart); err != nil {
		return err
	}
	snap := s.coord.Snapshot()
	days := view.Days(snap.Appointments)

	fmt.Fprintln(s.out, view.Month().Format("January 2006"))
	fmt.Fprintln(s.out, "Su Mo Tu We Th Fr Sa")
	var line strings.Builder
	for i, d := range days {
		if !d.Valid {
			line.WriteString("   ")
		} else {
			marker := " "
			if len(d.Appointments) > 0 {
				marker = "*"
			}
			line.WriteString(fmt.Sprintf("%2d%s", d.Date.Day(), marker))
		}
		if (i+1)%7 == 0 {
			fmt.Fprintln(s.out, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}
	if line.Len() > 0 {
		fmt.Fprintln(s.out, strings.TrimRight(line.String(), " "))
	}
	fmt.Fprintf(s.out, "%d appointments this view; * marks booked days\n", len(snap.Appointments))
	return nil
}

func (s *Shell) schedule(ctx context.Context, args []string) error {
	view := calendar.NewView(s.now)
	if len(args) == 1 {
		day, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", args[0])
		}
		view.SetMonth(day)
		view.Select(day)
	}

	if err := s.coord.Fetch(ctx, appointments.TriggerStart); err != nil {
		return err
	}
	sched := view.Schedule(s.coord.Snapshot().Appointments)
	if len(sched) == 0 {
		fmt.Fprintln(s.out, "No appointments.")
		return nil
	}
	s.printAppointments(sched)
	return nil
}

func (s *Shell) today(ctx context.Context) error {
	appts, err := s.client.TodaysAppointments(ctx)
	if err != nil {
		return err
	}
	if len(appts) == 0 {
		fmt.Fprintln(s.out, "No appointments today.")
		return nil
	}
	sort.SliceStable(appts, func(i, j int) bool {
		return timeutil.TimeKey(appts[i].StartTime) < timeutil.TimeKey(appts[j].StartTime)
	})
	s.printAppointments(appts)
	return nil
}

func (s *Shell) printAppointments(appts []api.Appointment) {
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPATIENT\tSTATUS\tNOTES")
	for _, a := range appts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			a.ID, timeutil.Clock12(timeutil.TimeKey(a.StartTime)), a.PatientName, a.Status, a.Notes)
	}
	w.Flush()
}

func (s *Shell) book(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: book <patientId> <date> <time> [notes]")
	}
	patientID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid patient id %q", args[0])
	}
	req := api.CreateAppointmentRequest{
		PatientID:       patientID,
		AppointmentDate: args[1],
		StartTime:       args[2],
	}
	if len(args) > 3 {
		req.Notes = strings.Join(args[3:], " ")
	}
	a, err := s.client.CreateAppointment(ctx, req)
	if err != nil {
		return err
	}
	// The list is refreshed, never patched in place.
	s.coord.Refresh(appointments.TriggerCreated)
	fmt.Fprintf(s.out, "Booked #%d for %s at %s on %s\n",
		a.ID, a.PatientName, timeutil.Clock12(timeutil.TimeKey(a.StartTime)), timeutil.DateKey(a.AppointmentDate))
	return nil
}

func (s *Shell) setStatus(ctx context.Context, args []string, status string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s <appointmentId>", status)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid appointment id %q", args[0])
	}
	a, err := s.client.UpdateAppointment(ctx, id, api.UpdateAppointmentRequest{Status: &status})
	if err != nil {
		return err
	}
	s.coord.Refresh(appointments.TriggerUpdated)
	fmt.Fprintf(s.out, "Appointment #%d is now %s\n", a.ID, a.Status)
	return nil
}

func (s *Shell) patients(ctx context.Context, args []string) error {
	query := strings.Join(args, " ")
	s.searcher.SetQuery(ctx, query)
	s.searcher.Flush(ctx)
	res := s.searcher.Results()
	if res.Err != nil {
		return res.Err
	}
	if len(res.Patients) == 0 {
		fmt.Fprintln(s.out, "No patients found.")
		return nil
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDOB\tPHONE\tRISK")
	for _, p := range res.Patients {
		fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\t%s\n",
			p.ID, p.FirstName, p.LastName, timeutil.DateKey(p.DateOfBirth), p.Phone, p.RiskLevel)
	}
	return w.Flush()
}

func (s *Shell) treatments(ctx context.Context) error {
	items, err := s.client.ListTreatments(ctx, "")
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tCOST\tMINUTES")
	for _, t := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t$%.2f\t%d\n", t.ID, t.Name, t.Category, t.Cost, t.Duration)
	}
	return w.Flush()
}

func (s *Shell) plans(ctx context.Context) error {
	items, err := s.client.ListPatientTreatments(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATIENT\tTREATMENT\tSTATUS\tPRIORITY\tSTART")
	for _, pt := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			pt.ID, pt.PatientName, pt.TreatmentName, pt.Status, pt.Priority, timeutil.DateKey(pt.StartDate))
	}
	return w.Flush()
}

func (s *Shell) invoices(ctx context.Context) error {
	items, err := s.client.ListInvoices(ctx, "")
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATIENT\tAMOUNT\tSTATUS\tISSUED\tDUE")
	for _, inv := range items {
		fmt.Fprintf(w, "%d\t%s\t$%.2f\t%s\t%s\t%s\n",
			inv.ID, inv.PatientName, inv.Amount, inv.Status,
			timeutil.DateKey(inv.IssuedDate), timeutil.DateKey(inv.DueDate))
	}
	return w.Flush()
}

func (s *Shell) stats(ctx context.Context) error {
	stats, err := s.client.DashboardStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Today's appointments: %d\n", stats.TodayAppointments)
	fmt.Fprintf(s.out, "Active patients:      %d\n", stats.ActivePatients)
	fmt.Fprintf(s.out, "Pending treatments:   %d\n", stats.PendingTreatments)
	fmt.Fprintf(s.out, "Monthly revenue:      $%.2f\n", stats.MonthlyRevenue)
	return nil
}
