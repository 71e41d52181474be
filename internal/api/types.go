package api

// User is the authenticated staff member's profile.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// LoginRequest is the credential payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
}

// AuthResponse is what the auth endpoints return on success.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Appointment statuses as the backend spells them.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no-show"
)

// Appointment is a scheduled visit as returned by the backend.
// AppointmentDate and StartTime are raw wire values; they may be plain
// "YYYY-MM-DD" / "HH:MM" keys or full ISO instants depending on which code
// path serialized them. Use timeutil.DateKey / timeutil.TimeKey before
// comparing or bucketing.
type Appointment struct {
	ID              int    `json:"id"`
	PatientID       int    `json:"patientId"`
	DentistID       int    `json:"dentistId,omitempty"`
	PatientName     string `json:"patientName"`
	AppointmentDate string `json:"appointmentDate"`
	StartTime       string `json:"startTime"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
	CreatedAt       string `json:"createdAt,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// AppointmentFilters narrows GET /api/appointments server-side. The calendar
// path leaves all fields zero and fetches the whole collection.
type AppointmentFilters struct {
	Date      string
	Status    string
	PatientID string
}

// CreateAppointmentRequest is the payload for POST /api/appointments.
type CreateAppointmentRequest struct {
	PatientID       int    `json:"patientId"`
	DentistID       int    `json:"dentistId,omitempty"`
	AppointmentDate string `json:"appointmentDate"`
	StartTime       string `json:"startTime"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
}

// UpdateAppointmentRequest is the partial payload for PUT /api/appointments/:id.
type UpdateAppointmentRequest struct {
	PatientID       *int    `json:"patientId,omitempty"`
	DentistID       *int    `json:"dentistId,omitempty"`
	AppointmentDate *string `json:"appointmentDate,omitempty"`
	StartTime       *string `json:"startTime,omitempty"`
	Status          *string `json:"status,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// Patient is a clinic patient record.
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
	CreatedAt             string `json:"createdAt,omitempty"`
	UpdatedAt             string `json:"updatedAt,omitempty"`
}

// CreatePatientRequest is the payload for POST /api/patients.
type CreatePatientRequest struct {
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
}

// Treatment is a procedure from the clinic's catalogue.
type Treatment struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Duration    int     `json:"duration"`
	Category    string  `json:"category"`
}

// PatientTreatment links a patient to a planned or completed procedure.
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
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// CreatePatientTreatmentRequest is the payload for POST /api/patient-treatments.
type CreatePatientTreatmentRequest struct {
	PatientID   int    `json:"patientId"`
	TreatmentID int    `json:"treatmentId"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	StartDate   string `json:"startDate"`
	Notes       string `json:"notes"`
}

// Invoice is a billing record.
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
	CreatedAt     string  `json:"createdAt,omitempty"`
	UpdatedAt     string  `json:"updatedAt,omitempty"`
}

// CreateInvoiceRequest is the payload for POST /api/billing/invoices.
type CreateInvoiceRequest struct {
	PatientID     int     `json:"patientId"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	DueDate       string  `json:"dueDate"`
	IssuedDate    string  `json:"issuedDate,omitempty"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// DashboardStats summarizes the landing page counters.
type DashboardStats struct {
	TodayAppointments int     `json:"todayAppointments"`
	ActivePatients    int     `json:"activePatients"`
	PendingTreatments int     `json:"pendingTreatments"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
}
