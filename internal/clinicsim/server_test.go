package clinicsim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	srv := NewServer(Config{
		JWTSecret: "test-secret",
		Now:       func() time.Time { return now },
	})
	if err := srv.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, ts
}

func login(t *testing.T, ts *httptest.Server, email, password string) (string, int) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	res, err := http.Post(ts.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", res.StatusCode
	}
	var auth authResponse
	if err := json.NewDecoder(res.Body).Decode(&auth); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return auth.Token, res.StatusCode
}

func authedGet(t *testing.T, ts *httptest.Server, token, path string, out any) int {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return res.StatusCode
}

func TestLoginAndCurrentUser(t *testing.T) {
	_, ts := newTestServer(t)

	token, status := login(t, ts, "dentist@clinic.test", "password123")
	if status != http.StatusOK || token == "" {
		t.Fatalf("login failed: status %d", status)
	}

	var user User
	if status := authedGet(t, ts, token, "/api/auth/user", &user); status != http.StatusOK {
		t.Fatalf("GET /api/auth/user = %d", status)
	}
	if user.Email != "dentist@clinic.test" || user.Role != "dentist" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	_, ts := newTestServer(t)
	if _, status := login(t, ts, "dentist@clinic.test", "nope"); status != http.StatusUnauthorized {
		t.Fatalf("bad password = %d, want 401", status)
	}
	if _, status := login(t, ts, "nobody@clinic.test", "password123"); status != http.StatusUnauthorized {
		t.Fatalf("unknown email = %d, want 401", status)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	_, ts := newTestServer(t)
	if status := authedGet(t, ts, "", "/api/appointments", nil); status != http.StatusUnauthorized {
		t.Fatalf("no token = %d, want 401", status)
	}
	if status := authedGet(t, ts, "garbage", "/api/appointments", nil); status != http.StatusUnauthorized {
		t.Fatalf("garbage token = %d, want 401", status)
	}
}

func TestRegisterValidation(t *testing.T) {
	_, ts := newTestServer(t)
	cases := []struct {
		name string
		body map[string]string
		want int
	}{
		{"short password", map[string]string{"email": "a@b.test", "password": "123", "firstName": "A", "lastName": "B", "role": "staff"}, http.StatusBadRequest},
		{"bad role", map[string]string{"email": "a@b.test", "password": "123456", "firstName": "A", "lastName": "B", "role": "wizard"}, http.StatusBadRequest},
		{"duplicate email", map[string]string{"email": "dentist@clinic.test", "password": "123456", "firstName": "A", "lastName": "B", "role": "staff"}, http.StatusConflict},
		{"ok", map[string]string{"email": "new@clinic.test", "password": "123456", "firstName": "A", "lastName": "B", "role": "staff"}, http.StatusCreated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.body)
			res, err := http.Post(ts.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
			if err != nil {
				t.Fatal(err)
			}
			res.Body.Close()
			if res.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", res.StatusCode, tc.want)
			}
		})
	}
}

func TestAppointmentFilters(t *testing.T) {
	_, ts := newTestServer(t)
	token, _ := login(t, ts, "dentist@clinic.test", "password123")

	var all []Appointment
	authedGet(t, ts, token, "/api/appointments", &all)
	if len(all) != 5 {
		t.Fatalf("seeded appointments = %d, want 5", len(all))
	}

	// The date filter matches records stored as plain keys and as ISO
	// instants alike.
	var todays []Appointment
	authedGet(t, ts, token, "/api/appointments?date=2025-03-10", &todays)
	if len(todays) != 2 {
		t.Fatalf("appointments on 2025-03-10 = %d, want 2", len(todays))
	}

	var viaToday []Appointment
	authedGet(t, ts, token, "/api/appointments/today", &viaToday)
	if len(viaToday) != len(todays) {
		t.Fatalf("/today = %d, ?date= = %d", len(viaToday), len(todays))
	}

	var completed []Appointment
	authedGet(t, ts, token, "/api/appointments?status=completed", &completed)
	if len(completed) != 1 {
		t.Fatalf("completed = %d, want 1", len(completed))
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	_, ts := newTestServer(t)
	token, _ := login(t, ts, "frontdesk@clinic.test", "password123")

	payload := map[string]any{
		"patientId":       1,
		"appointmentDate": "2025-03-12",
		"startTime":       "13:30",
		"notes":           "New patient exam",
	}
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/appointments", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var created Appointment
	json.NewDecoder(res.Body).Decode(&created)
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d", res.StatusCode)
	}
	if created.Status != "scheduled" {
		t.Fatalf("status must default to scheduled, got %q", created.Status)
	}
	if created.PatientName != "Anna Smith" {
		t.Fatalf("patient name not joined: %q", created.PatientName)
	}

	update, _ := json.Marshal(map[string]any{"status": "cancelled"})
	req, _ = http.NewRequest(http.MethodPut, fmt.Sprintf("%s/api/appointments/%d", ts.URL, created.ID), bytes.NewReader(update))
	req.Header.Set("Authorization", "Bearer "+token)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var updated Appointment
	json.NewDecoder(res.Body).Decode(&updated)
	res.Body.Close()
	if updated.Status != "cancelled" || updated.StartTime != "13:30" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	req, _ = http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/appointments/%d", ts.URL, created.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete = %d", res.StatusCode)
	}
	if status := authedGet(t, ts, token, fmt.Sprintf("/api/appointments/%d", created.ID), nil); status != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", status)
	}
}

func TestPatientSearchAndRiskFilter(t *testing.T) {
	_, ts := newTestServer(t)
	token, _ := login(t, ts, "dentist@clinic.test", "password123")

	var smiths []Patient
	authedGet(t, ts, token, "/api/patients?search=smith", &smiths)
	if len(smiths) != 1 || smiths[0].LastName != "Smith" {
		t.Fatalf("search=smith = %+v", smiths)
	}

	var high []Patient
	authedGet(t, ts, token, "/api/patients?riskLevel=high", &high)
	if len(high) != 1 || high[0].LastName != "Jones" {
		t.Fatalf("riskLevel=high = %+v", high)
	}

	var all []Patient
	authedGet(t, ts, token, "/api/patients?riskLevel=all", &all)
	if len(all) != 3 {
		t.Fatalf("riskLevel=all = %d, want 3", len(all))
	}
}

func TestDashboardStats(t *testing.T) {
	_, ts := newTestServer(t)
	token, _ := login(t, ts, "dentist@clinic.test", "password123")

	var stats dashboardStats
	if status := authedGet(t, ts, token, "/api/dashboard/stats", &stats); status != http.StatusOK {
		t.Fatalf("stats = %d", status)
	}
	if stats.TodayAppointments != 2 || stats.ActivePatients != 3 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.PendingTreatments != 1 {
		t.Fatalf("pending treatments = %d, want 1", stats.PendingTreatments)
	}
	if stats.MonthlyRevenue != 120 {
		t.Fatalf("monthly revenue = %v, want 120", stats.MonthlyRevenue)
	}
}

func TestErrorEnvelopeShape(t *testing.T) {
	_, ts := newTestServer(t)
	res, err := http.Post(ts.URL+"/api/auth/login", "application/json",
		bytes.NewReader([]byte(`{"email":"dentist@clinic.test","password":"wrong"}`)))
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var envelope map[string]string
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope["error"] != "Invalid credentials" {
		t.Fatalf("envelope = %v", envelope)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	_, ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if got := res.Header.Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("X-Request-Id = %q", got)
	}
}
