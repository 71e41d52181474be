package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ListTreatments fetches the procedure catalogue, optionally filtered by a
// search term.
func (c *Client) ListTreatments(ctx context.Context, search string) ([]Treatment, error) {
	query := url.Values{}
	if s := strings.TrimSpace(search); s != "" {
		query.Set("search", s)
	}
	var out []Treatment
	if err := c.do(ctx, http.MethodGet, "/api/treatments", query, nil, &out, "failed to load treatments"); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPatientTreatments fetches planned and completed procedures across
// patients.
func (c *Client) ListPatientTreatments(ctx context.Context) ([]PatientTreatment, error) {
	var out []PatientTreatment
	if err := c.do(ctx, http.MethodGet, "/api/patient-treatments", nil, nil, &out, "failed to load treatment plans"); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePatientTreatment adds a procedure to a patient's plan.
func (c *Client) CreatePatientTreatment(ctx context.Context, req CreatePatientTreatmentRequest) (*PatientTreatment, error) {
	if req.PatientID == 0 {
		return nil, &ValidationError{Field: "patientId", Reason: "is required"}
	}
	if req.TreatmentID == 0 {
		return nil, &ValidationError{Field: "treatmentId", Reason: "is required"}
	}
	var out PatientTreatment
	if err := c.do(ctx, http.MethodPost, "/api/patient-treatments", nil, req, &out, "failed to create treatment plan"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePatientTreatment removes a planned procedure.
func (c *Client) DeletePatientTreatment(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/patient-treatments/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, "failed to delete treatment plan")
}
