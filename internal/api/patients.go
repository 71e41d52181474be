package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ListPatients fetches patients, optionally narrowed by a search term and a
// risk-level filter ("all" and "" both mean unfiltered).
func (c *Client) ListPatients(ctx context.Context, search, riskLevel string) ([]Patient, error) {
	query := url.Values{}
	if s := strings.TrimSpace(search); s != "" {
		query.Set("search", s)
	}
	if riskLevel != "" && riskLevel != "all" {
		query.Set("riskLevel", riskLevel)
	}
	var out []Patient
	if err := c.do(ctx, http.MethodGet, "/api/patients", query, nil, &out, "failed to load patients"); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPatient fetches one patient record.
func (c *Client) GetPatient(ctx context.Context, id int) (*Patient, error) {
	var out Patient
	path := fmt.Sprintf("/api/patients/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out, "failed to load patient"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePatient adds a patient record.
func (c *Client) CreatePatient(ctx context.Context, req CreatePatientRequest) (*Patient, error) {
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, &ValidationError{Field: "firstName", Reason: "is required"}
	}
	if strings.TrimSpace(req.LastName) == "" {
		return nil, &ValidationError{Field: "lastName", Reason: "is required"}
	}
	var out Patient
	if err := c.do(ctx, http.MethodPost, "/api/patients", nil, req, &out, "failed to create patient"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePatient replaces a patient record.
func (c *Client) UpdatePatient(ctx context.Context, id int, req CreatePatientRequest) (*Patient, error) {
	var out Patient
	path := fmt.Sprintf("/api/patients/%d", id)
	if err := c.do(ctx, http.MethodPut, path, nil, req, &out, "failed to update patient"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePatient removes a patient record.
func (c *Client) DeletePatient(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/patients/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, "failed to delete patient")
}
