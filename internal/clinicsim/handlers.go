package clinicsim

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dentalstack/practicekit/internal/timeutil"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	user, ok := s.store.UserByEmail(req.Email)
	if !ok || !checkPassword(user.PasswordHash, req.Password) {
		s.writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := s.mintToken(user)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	s.writeJSON(w, http.StatusOK, authResponse{Token: token, User: *user})
}

var validRoles = map[string]bool{
	"dentist": true, "hygienist": true, "admin": true, "staff": true,
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		s.writeError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < 6 {
		s.writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		s.writeError(w, http.StatusBadRequest, "First and last name are required")
		return
	}
	if !validRoles[req.Role] {
		s.writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	user, ok := s.store.AddUser(User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Phone:        req.Phone,
	})
	if !ok {
		s.writeError(w, http.StatusConflict, "User already exists")
		return
	}
	token, err := s.mintToken(user)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	s.writeJSON(w, http.StatusCreated, authResponse{Token: token, User: *user})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(userIDKey).(int)
	user, ok := s.store.UserByID(userID)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "User not found")
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")
	patientID := r.URL.Query().Get("patientId")

	out := []Appointment{}
	for _, a := range s.store.ListAppointments() {
		if date != "" && timeutil.DateKey(a.AppointmentDate) != timeutil.DateKey(date) {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		if patientID != "" && strconv.Itoa(a.PatientID) != patientID {
			continue
		}
		out = append(out, a)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTodaysAppointments(w http.ResponseWriter, r *http.Request) {
	today := s.store.now().UTC().Format("2006-01-02")
	out := []Appointment{}
	for _, a := range s.store.ListAppointments() {
		if timeutil.DateKey(a.AppointmentDate) == today {
			out = append(out, a)
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}
	a, ok := s.store.Appointment(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Appointment not found")
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

type createAppointmentRequest struct {
	PatientID       int    `json:"patientId"`
	DentistID       int    `json:"dentistId"`
	AppointmentDate string `json:"appointmentDate"`
	StartTime       string `json:"startTime"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.PatientID == 0 || req.AppointmentDate == "" || req.StartTime == "" {
		s.writeError(w, http.StatusBadRequest, "patientId, appointmentDate and startTime are required")
		return
	}
	if _, ok := s.store.Patient(req.PatientID); !ok {
		s.writeError(w, http.StatusBadRequest, "Patient not found")
		return
	}
	if req.Status == "" {
		req.Status = "scheduled"
	}
	a := s.store.AddAppointment(Appointment{
		PatientID:       req.PatientID,
		DentistID:       req.DentistID,
		AppointmentDate: req.AppointmentDate,
		StartTime:       req.StartTime,
		Status:          req.Status,
		Notes:           req.Notes,
	})
	s.writeJSON(w, http.StatusCreated, a)
}

type updateAppointmentRequest struct {
	PatientID       *int    `json:"patientId"`
	DentistID       *int    `json:"dentistId"`
	AppointmentDate *string `json:"appointmentDate"`
	StartTime       *string `json:"startTime"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
}

func (s *Server) handleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}
	var req updateAppointmentRequest
	if !s.decode(w, r, &req) {
		return
	}
	a, ok := s.store.UpdateAppointment(id, func(a *Appointment) {
		if req.PatientID != nil {
			a.PatientID = *req.PatientID
		}
		if req.DentistID != nil {
			a.DentistID = *req.DentistID
		}
		if req.AppointmentDate != nil {
			a.AppointmentDate = *req.AppointmentDate
		}
		if req.StartTime != nil {
			a.StartTime = *req.StartTime
		}
		if req.Status != nil {
			a.Status = *req.Status
		}
		if req.Notes != nil {
			a.Notes = *req.Notes
		}
	})
	if !ok {
		s.writeError(w, http.StatusNotFound, "Appointment not found")
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}
	if !s.store.DeleteAppointment(id) {
		s.writeError(w, http.StatusNotFound, "Appointment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	risk := r.URL.Query().Get("riskLevel")

	out := []Patient{}
	for _, p := range s.store.ListPatients() {
		if risk != "" && risk != "all" && p.RiskLevel != risk {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(p.FirstName + " " + p.LastName + " " + p.Email + " " + p.Phone)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		out = append(out, p)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}
	p, ok := s.store.Patient(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "Patient not found")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePatient(w http.ResponseWriter, r *http.Request) {
	var req Patient
	if !s.decode(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		s.writeError(w, http.StatusBadRequest, "First and last name are required")
		return
	}
	p := s.store.AddPatient(req)
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}
	var req Patient
	if !s.decode(w, r, &req) {
		return
	}
	p, ok := s.store.UpdatePatient(id, func(p *Patient) {
		created := p.CreatedAt
		recordID := p.ID
		*p = req
		p.ID = recordID
		p.CreatedAt = created
	})
	if !ok {
		s.writeError(w, http.StatusNotFound, "Patient not found")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePatient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid patient ID")
		return
	}
	if !s.store.DeletePatient(id) {
		s.writeError(w, http.StatusNotFound, "Patient not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTreatments(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.ListTreatments())
}

func (s *Server) handleListPatientTreatments(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.ListPatientTreatments())
}

type createPatientTreatmentRequest struct {
	PatientID   int    `json:"patientId"`
	TreatmentID int    `json:"treatmentId"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	StartDate   string `json:"startDate"`
	Notes       string `json:"notes"`
}

func (s *Server) handleCreatePatientTreatment(w http.ResponseWriter, r *http.Request) {
	var req createPatientTreatmentRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.PatientID == 0 || req.TreatmentID == 0 {
		s.writeError(w, http.StatusBadRequest, "patientId and treatmentId are required")
		return
	}
	if req.Status == "" {
		req.Status = "planned"
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	pt := s.store.AddPatientTreatment(PatientTreatment{
		PatientID:   req.PatientID,
		TreatmentID: req.TreatmentID,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		Notes:       req.Notes,
	})
	s.writeJSON(w, http.StatusCreated, pt)
}

func (s *Server) handleDeletePatientTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid patient treatment ID")
		return
	}
	if !s.store.DeletePatientTreatment(id) {
		s.writeError(w, http.StatusNotFound, "Patient treatment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.ListInvoices())
}

type createInvoiceRequest struct {
	PatientID     int     `json:"patientId"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	DueDate       string  `json:"dueDate"`
	IssuedDate    string  `json:"issuedDate"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         string  `json:"notes"`
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.PatientID == 0 || req.Amount <= 0 {
		s.writeError(w, http.StatusBadRequest, "patientId and a positive amount are required")
		return
	}
	if req.Status == "" {
		req.Status = "pending"
	}
	inv := s.store.AddInvoice(Invoice{
		PatientID:     req.PatientID,
		Amount:        req.Amount,
		Status:        req.Status,
		DueDate:       req.DueDate,
		IssuedDate:    req.IssuedDate,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	s.writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}
	if !s.store.DeleteInvoice(id) {
		s.writeError(w, http.StatusNotFound, "Invoice not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type dashboardStats struct {
	TodayAppointments int     `json:"todayAppointments"`
	ActivePatients    int     `json:"activePatients"`
	PendingTreatments int     `json:"pendingTreatments"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	today := s.store.now().UTC().Format("2006-01-02")
	month := s.store.now().UTC().Format("2006-01")

	stats := dashboardStats{ActivePatients: len(s.store.ListPatients())}
	for _, a := range s.store.ListAppointments() {
		if timeutil.DateKey(a.AppointmentDate) == today {
			stats.TodayAppointments++
		}
	}
	for _, pt := range s.store.ListPatientTreatments() {
		if pt.Status == "planned" || pt.Status == "in-progress" {
			stats.PendingTreatments++
		}
	}
	for _, inv := range s.store.ListInvoices() {
		if inv.Status == "paid" && strings.HasPrefix(timeutil.DateKey(inv.IssuedDate), month) {
			stats.MonthlyRevenue += inv.Amount
		}
	}
	s.writeJSON(w, http.StatusOK, stats)
}
