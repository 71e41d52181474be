package clinicsim

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dentalstack/practicekit/pkg/logging"
)

// Server is the simulator's HTTP surface.
type Server struct {
	store     *Store
	logger    *logging.Logger
	jwtSecret string
	tokenTTL  time.Duration
	router    chi.Router
}

// Config carries the knobs the simulator needs.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *logging.Logger
	Now       func() time.Time
}

func NewServer(cfg Config) *Server {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dental_secret_key"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 72 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	s := &Server{
		store:     NewStore(cfg.Now),
		logger:    cfg.Logger.Component("clinicsim"),
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.TokenTTL,
	}
	s.router = s.routes()
	return s
}

// Store exposes the backing store for seeding and tests.
func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/user", s.handleCurrentUser)

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", s.handleListAppointments)
				r.Post("/", s.handleCreateAppointment)
				r.Get("/today", s.handleTodaysAppointments)
				r.Get("/{id}", s.handleGetAppointment)
				r.Put("/{id}", s.handleUpdateAppointment)
				r.Delete("/{id}", s.handleDeleteAppointment)
			})

			r.Route("/patients", func(r chi.Router) {
				r.Get("/", s.handleListPatients)
				r.Post("/", s.handleCreatePatient)
				r.Get("/{id}", s.handleGetPatient)
				r.Put("/{id}", s.handleUpdatePatient)
				r.Delete("/{id}", s.handleDeletePatient)
			})

			r.Get("/treatments", s.handleListTreatments)

			r.Route("/patient-treatments", func(r chi.Router) {
				r.Get("/", s.handleListPatientTreatments)
				r.Post("/", s.handleCreatePatientTreatment)
				r.Delete("/{id}", s.handleDeletePatientTreatment)
			})

			r.Route("/billing/invoices", func(r chi.Router) {
				r.Get("/", s.handleListInvoices)
				r.Post("/", s.handleCreateInvoice)
				r.Delete("/{id}", s.handleDeleteInvoice)
			})

			r.Get("/dashboard/stats", s.handleDashboardStats)
		})
	})
	return r
}

// requestID echoes the client's X-Request-Id or assigns one.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", w.Header().Get("X-Request-Id"),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.logger.Error("response encode failed", "error", err)
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
