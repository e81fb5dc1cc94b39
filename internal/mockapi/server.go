// Package mockapi is the bundled mock backend: a JSON API over gorm that
// implements the HTTP surface the client gateway consumes, so the portal can
// run in remote mode before the production backend exists.
package mockapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/Chaturved5/estate-portal/internal/gate"
	"github.com/Chaturved5/estate-portal/internal/httpx"
	"github.com/Chaturved5/estate-portal/internal/models"
)

type ctxKey int

const userKey ctxKey = 0

// Server is the mock API. It implements http.Handler.
type Server struct {
	db       *gorm.DB
	mux      *http.ServeMux
	validate *validator.Validate
	gate     *gate.Gate
}

func NewServer(db *gorm.DB) *Server {
	s := &Server{
		db:       db,
		mux:      http.NewServeMux(),
		validate: validator.New(),
		gate:     gate.Default(),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.withUser(s.mux).ServeHTTP(w, r)
}

func (s *Server) routes() {
	// Auth
	s.mux.HandleFunc("POST /auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /auth/logout", s.handleLogout)
	s.mux.HandleFunc("GET /auth/me", s.handleWhoami)
	s.mux.HandleFunc("PATCH /auth/profile", s.handleUpdateProfile)
	s.mux.HandleFunc("POST /auth/password", s.handleChangePassword)

	// Listings
	s.mux.HandleFunc("GET /properties", s.handleListProperties)
	s.mux.HandleFunc("POST /properties", s.handleCreateProperty)
	s.mux.HandleFunc("GET /properties/{id}", s.handleGetProperty)
	s.mux.HandleFunc("PATCH /properties/{id}", s.handlePatchProperty)
	s.mux.HandleFunc("DELETE /properties/{id}", s.handleDeleteProperty)
	s.mux.HandleFunc("POST /properties/{id}/reviews", s.handleAddReview)

	// Bookings and payments
	s.mux.HandleFunc("GET /bookings", s.handleListBookings)
	s.mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	s.mux.HandleFunc("PATCH /bookings/{id}", s.handlePatchBooking)
	s.mux.HandleFunc("GET /payments", s.handleListPayments)
	s.mux.HandleFunc("POST /payments", s.handleCreatePayment)
	s.mux.HandleFunc("PATCH /payments/{id}", s.handlePatchPayment)

	// Verification
	s.mux.HandleFunc("GET /api/verification/requests", s.handleListVerification)
	s.mux.HandleFunc("POST /api/verification/requests", s.handleSubmitVerification)
	s.mux.HandleFunc("GET /api/admin/verification-requests", s.handleVerificationQueue)
	s.mux.HandleFunc("PATCH /api/admin/verification-requests/{id}", s.handleReviewVerification)
}

// withUser resolves the bearer token to a user and stashes it in the request
// context. Missing or unknown tokens leave the request anonymous; each
// handler decides whether it requires identity.
func (s *Server) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			tok := strings.TrimPrefix(header, "Bearer ")
			var t Token
			if err := s.db.Where("token = ?", tok).First(&t).Error; err == nil {
				var u models.User
				if err := s.db.Where("id = ?", t.UserID).First(&u).Error; err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userKey, &u))
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(userKey).(*models.User)
	return u
}

// requireUser writes 401 and returns nil when the request is anonymous.
func requireUser(w http.ResponseWriter, r *http.Request) *models.User {
	u := currentUser(r)
	if u == nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required", nil)
	}
	return u
}

// decodeValid decodes and validates a request payload in one step.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.Decode(r, dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed request body", nil)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation failed", err.Error())
		return false
	}
	return true
}
