package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListInvoices fetches invoices, optionally filtered by status.
func (c *Client) ListInvoices(ctx context.Context, status string) ([]Invoice, error) {
	query := url.Values{}
	if status != "" && status != "all" {
		query.Set("status", status)
	}
	var out []Invoice
	if err := c.do(ctx, http.MethodGet, "/api/billing/invoices", query, nil, &out, "failed to load invoices"); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateInvoice issues an invoice for a patient.
func (c *Client) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	if req.PatientID == 0 {
		return nil, &ValidationError{Field: "patientId", Reason: "is required"}
	}
	if req.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	var out Invoice
	if err := c.do(ctx, http.MethodPost, "/api/billing/invoices", nil, req, &out, "failed to create invoice"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInvoice voids an invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/billing/invoices/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, "failed to delete invoice")
}

// DashboardStats fetches the landing-page counters.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, nil, &out, "failed to load dashboard stats"); err != nil {
		return nil, err
	}
	return &out, nil
}
