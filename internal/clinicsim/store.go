// Package clinicsim is an in-memory stand-in for the clinic backend, wire
// compatible with the real API. It exists so the shell and the SDK tests can
// run against real HTTP without a database. Records keep whatever date and
// time spelling they were written with; the seed data deliberately mixes
// plain keys and full ISO instants, the same way the real backend's code
// paths do.
package clinicsim

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// User mirrors the backend's staff account row. PasswordHash never
// serializes.
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	Phone        string `json:"phone"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

type Appointment struct {
	ID              int    `json:"id"`
	PatientID       int    `json:"patientId"`
	DentistID       int    `json:"dentistId,omitempty"`
	PatientName     string `json:"patientName"`
	AppointmentDate string `json:"appointmentDate"`
	StartTime       string `json:"startTime"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

type Patient struct {
	ID                    int    `json:"id"`
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	DateOfBirth           string `json:"dateOfBirth"`
	Phone                 string `json:"phone"`
	Email                 string `json:"email"`
	Address               string `json:"address"`
	EmergencyContact      string `json:"emergencyContact"`
	InsuranceProvider     string `json:"insuranceProvider"`
	InsurancePolicyNumber string `json:"insurancePolicyNumber"`
	MedicalHistory        string `json:"medicalHistory"`
	RiskLevel             string `json:"riskLevel"`
	CreatedAt             string `json:"createdAt"`
	UpdatedAt             string `json:"updatedAt"`
}

type Treatment struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Duration    int     `json:"duration"`
	Category    string  `json:"category"`
}

type PatientTreatment struct {
	ID             int    `json:"id"`
	PatientID      int    `json:"patientId"`
	TreatmentID    int    `json:"treatmentId"`
	DentistID      *int   `json:"dentistId"`
	PatientName    string `json:"patientName"`
	TreatmentName  string `json:"treatmentName"`
	Status         string `json:"status"`
	Priority       string `json:"priority"`
	StartDate      string `json:"startDate"`
	CompletionDate string `json:"completionDate,omitempty"`
	Notes          string `json:"notes"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type Invoice struct {
	ID            int     `json:"id"`
	PatientID     int     `json:"patientId"`
	PatientName   string  `json:"patientName"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	DueDate       string  `json:"dueDate"`
	IssuedDate    string  `json:"issuedDate"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         string  `json:"notes"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// Store holds all simulator state behind one mutex. IDs are small ints like
// the real backend's serial columns.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	users             map[int]*User
	patients          map[int]*Patient
	appointments      map[int]*Appointment
	treatments        map[int]*Treatment
	patientTreatments map[int]*PatientTreatment
	invoices          map[int]*Invoice

	nextUser        int
	nextPatient     int
	nextAppointment int
	nextTreatment   int
	nextPT          int
	nextInvoice     int
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:               now,
		users:             map[int]*User{},
		patients:          map[int]*Patient{},
		appointments:      map[int]*Appointment{},
		treatments:        map[int]*Treatment{},
		patientTreatments: map[int]*PatientTreatment{},
		invoices:          map[int]*Invoice{},
		nextUser:          1,
		nextPatient:       1,
		nextAppointment:   1,
		nextTreatment:     1,
		nextPT:            1,
		nextInvoice:       1,
	}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *Store) UserByEmail(email string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, true
		}
	}
	return nil, false
}

func (s *Store) UserByID(id int) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	copied := *u
	return &copied, true
}

// AddUser inserts a staff account. Returns false when the email is taken.
func (s *Store) AddUser(u User) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, false
		}
	}
	u.ID = s.nextUser
	s.nextUser++
	now := s.timestamp()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = &u
	copied := u
	return &copied, true
}

func (s *Store) ListAppointments() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Appointment(id int) (*Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, false
	}
	copied := *a
	return &copied, true
}

func (s *Store) AddAppointment(a Appointment) *Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextAppointment
	s.nextAppointment++
	now := s.timestamp()
	a.CreatedAt, a.UpdatedAt = now, now
	if p, ok := s.patients[a.PatientID]; ok && a.PatientName == "" {
		a.PatientName = p.FirstName + " " + p.LastName
	}
	s.appointments[a.ID] = &a
	copied := a
	return &copied
}

// UpdateAppointment applies fn to the record under the lock.
func (s *Store) UpdateAppointment(id int, fn func(*Appointment)) (*Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, false
	}
	fn(a)
	a.UpdatedAt = s.timestamp()
	copied := *a
	return &copied, true
}

func (s *Store) DeleteAppointment(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[id]; !ok {
		return false
	}
	delete(s.appointments, id)
	return true
}

func (s *Store) ListPatients() []Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Patient(id int) (*Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, false
	}
	copied := *p
	return &copied, true
}

func (s *Store) AddPatient(p Patient) *Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextPatient
	s.nextPatient++
	now := s.timestamp()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.RiskLevel == "" {
		p.RiskLevel = "low"
	}
	s.patients[p.ID] = &p
	copied := p
	return &copied
}

func (s *Store) UpdatePatient(id int, fn func(*Patient)) (*Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, false
	}
	fn(p)
	p.UpdatedAt = s.timestamp()
	copied := *p
	return &copied, true
}

func (s *Store) DeletePatient(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[id]; !ok {
		return false
	}
	delete(s.patients, id)
	return true
}

func (s *Store) ListTreatments() []Treatment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Treatment, 0, len(s.treatments))
	for _, t := range s.treatments {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) AddTreatment(t Treatment) *Treatment {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextTreatment
	s.nextTreatment++
	s.treatments[t.ID] = &t
	copied := t
	return &copied
}

func (s *Store) ListPatientTreatments() []PatientTreatment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PatientTreatment, 0, len(s.patientTreatments))
	for _, pt := range s.patientTreatments {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) AddPatientTreatment(pt PatientTreatment) *PatientTreatment {
	s.mu.Lock()
	defer s.mu.Unlock()
	pt.ID = s.nextPT
	s.nextPT++
	now := s.timestamp()
	pt.CreatedAt, pt.UpdatedAt = now, now
	if p, ok := s.patients[pt.PatientID]; ok && pt.PatientName == "" {
		pt.PatientName = p.FirstName + " " + p.LastName
	}
	if t, ok := s.treatments[pt.TreatmentID]; ok && pt.TreatmentName == "" {
		pt.TreatmentName = t.Name
	}
	s.patientTreatments[pt.ID] = &pt
	copied := pt
	return &copied
}

func (s *Store) DeletePatientTreatment(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patientTreatments[id]; !ok {
		return false
	}
	delete(s.patientTreatments, id)
	return true
}

func (s *Store) ListInvoices() []Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) AddInvoice(inv Invoice) *Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = s.nextInvoice
	s.nextInvoice++
	now := s.timestamp()
	inv.CreatedAt, inv.UpdatedAt = now, now
	if inv.IssuedDate == "" {
		inv.IssuedDate = s.now().UTC().Format("2006-01-02")
	}
	if p, ok := s.patients[inv.PatientID]; ok && inv.PatientName == "" {
		inv.PatientName = p.FirstName + " " + p.LastName
	}
	s.invoices[inv.ID] = &inv
	copied := inv
	return &copied
}

func (s *Store) DeleteInvoice(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[id]; !ok {
		return false
	}
	delete(s.invoices, id)
	return true
}
