package clinicsim

// Seed loads a small demo clinic. Appointment dates and times deliberately
// mix plain keys with full ISO instants; downstream code has to normalize
// either spelling, exactly as it does against the real backend.
func (s *Server) Seed() error {
	hash, err := hashPassword("password123")
	if err != nil {
		return err
	}
	s.store.AddUser(User{
		Email:        "dentist@clinic.test",
		PasswordHash: hash,
		FirstName:    "Sarah",
		LastName:     "Okafor",
		Role:         "dentist",
		Phone:        "555-0100",
	})
	s.store.AddUser(User{
		Email:        "frontdesk@clinic.test",
		PasswordHash: hash,
		FirstName:    "Miguel",
		LastName:     "Reyes",
		Role:         "staff",
		Phone:        "555-0101",
	})

	patients := []Patient{
		{FirstName: "Anna", LastName: "Smith", DateOfBirth: "1988-04-12", Phone: "555-0199", Email: "anna.smith@example.test", RiskLevel: "low", InsuranceProvider: "DeltaCare"},
		{FirstName: "Robert", LastName: "Jones", DateOfBirth: "1954-11-03", Phone: "555-0198", Email: "r.jones@example.test", RiskLevel: "high", MedicalHistory: "Diabetes, anticoagulants"},
		{FirstName: "Priya", LastName: "Patel", DateOfBirth: "1996-07-22", Phone: "555-0197", Email: "priya.p@example.test", RiskLevel: "medium"},
	}
	for _, p := range patients {
		s.store.AddPatient(p)
	}

	treatments := []Treatment{
		{Name: "Routine Cleaning", Description: "Prophylaxis and polish", Cost: 120, Duration: 45, Category: "preventive"},
		{Name: "Composite Filling", Description: "Single-surface composite restoration", Cost: 240, Duration: 60, Category: "restorative"},
		{Name: "Root Canal", Description: "Molar endodontic treatment", Cost: 980, Duration: 90, Category: "endodontics"},
	}
	for _, t := range treatments {
		s.store.AddTreatment(t)
	}

	today := s.store.now().UTC()
	dayKey := func(offset int) string {
		return today.AddDate(0, 0, offset).Format("2006-01-02")
	}
	dayISO := func(offset int) string {
		return today.AddDate(0, 0, offset).Format("2006-01-02") + "T00:00:00Z"
	}

	appointments := []Appointment{
		{PatientID: 1, DentistID: 1, AppointmentDate: dayKey(0), StartTime: "09:00", Status: "scheduled", Notes: "Hygiene recall"},
		{PatientID: 2, DentistID: 1, AppointmentDate: dayISO(0), StartTime: "10:30:00", Status: "scheduled", Notes: "Filling, upper left"},
		{PatientID: 3, DentistID: 1, AppointmentDate: dayKey(1), StartTime: "0000-01-01T14:00:00Z", Status: "scheduled"},
		{PatientID: 1, DentistID: 1, AppointmentDate: dayISO(7), StartTime: "11:15", Status: "scheduled", Notes: "Crown prep follow-up"},
		{PatientID: 2, DentistID: 1, AppointmentDate: dayKey(-3), StartTime: "15:45", Status: "completed"},
	}
	for _, a := range appointments {
		s.store.AddAppointment(a)
	}

	s.store.AddPatientTreatment(PatientTreatment{
		PatientID: 2, TreatmentID: 3, Status: "planned", Priority: "high",
		StartDate: dayKey(1), Notes: "Tooth 19",
	})
	s.store.AddPatientTreatment(PatientTreatment{
		PatientID: 1, TreatmentID: 1, Status: "completed", Priority: "low",
		StartDate: dayKey(-30), CompletionDate: dayKey(-30),
	})

	s.store.AddInvoice(Invoice{
		PatientID: 1, Amount: 120, Status: "paid",
		IssuedDate: today.Format("2006-01-02"), DueDate: dayKey(30), PaymentMethod: "card",
	})
	s.store.AddInvoice(Invoice{
		PatientID: 2, Amount: 240, Status: "pending",
		IssuedDate: dayISO(-3), DueDate: dayKey(27),
	})

	s.logger.Info("demo clinic seeded",
		"users", 2, "patients", len(patients), "appointments", len(appointments))
	return nil
}
