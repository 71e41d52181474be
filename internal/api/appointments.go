package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListAppointments fetches the appointment collection. Zero-value filters
// fetch everything; the calendar always does.
func (c *Client) ListAppointments(ctx context.Context, filters AppointmentFilters) ([]Appointment, error) {
	query := url.Values{}
	if filters.Date != "" {
		query.Set("date", filters.Date)
	}
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	if filters.PatientID != "" {
		query.Set("patientId", filters.PatientID)
	}
	var out []Appointment
	if err := c.do(ctx, http.MethodGet, "/api/appointments", query, nil, &out, "failed to load appointments"); err != nil {
		return nil, err
	}
	return out, nil
}

// TodaysAppointments fetches the today-scoped variant.
func (c *Client) TodaysAppointments(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	if err := c.do(ctx, http.MethodGet, "/api/appointments/today", nil, nil, &out, "failed to load today's appointments"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAppointment fetches a single appointment.
func (c *Client) GetAppointment(ctx context.Context, id int) (*Appointment, error) {
	var out Appointment
	path := fmt.Sprintf("/api/appointments/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out, "failed to load appointment"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAppointment books a visit. Required fields are checked before any
// request goes out.
func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	if req.PatientID == 0 {
		return nil, &ValidationError{Field: "patientId", Reason: "is required"}
	}
	if req.AppointmentDate == "" {
		return nil, &ValidationError{Field: "appointmentDate", Reason: "is required"}
	}
	if req.StartTime == "" {
		return nil, &ValidationError{Field: "startTime", Reason: "is required"}
	}
	if req.Status == "" {
		req.Status = AppointmentScheduled
	}
	var out Appointment
	if err := c.do(ctx, http.MethodPost, "/api/appointments", nil, req, &out, "failed to create appointment"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAppointment applies a partial update.
func (c *Client) UpdateAppointment(ctx context.Context, id int, req UpdateAppointmentRequest) (*Appointment, error) {
	var out Appointment
	path := fmt.Sprintf("/api/appointments/%d", id)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &out, "failed to update appointment"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAppointment removes an appointment.
func (c *Client) DeleteAppointment(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/appointments/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, "failed to delete appointment")
}
