package mockapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Chaturved5/estate-portal/internal/httpx"
	"github.com/Chaturved5/estate-portal/internal/models"
)

type registerRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=admin owner agent buyer"`
	Phone           string `json:"phone"`
	Company         string `json:"company"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httpx.JSONError(w, http.StatusConflict, "an account with this email already exists", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not hash password", nil)
		return
	}
	user := models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		Role:         models.Role(req.Role),
		Phone:        req.Phone,
		Company:      req.Company,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not create account", nil)
		return
	}
	s.issueSession(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}
	s.issueSession(w, http.StatusOK, user)
}

// issueSession mints a fresh token and responds with the session payload the
// client session container expects.
func (s *Server) issueSession(w http.ResponseWriter, status int, user models.User) {
	tok := Token{Token: uuid.NewString(), UserID: user.ID}
	if err := s.db.Create(&tok).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not create session", nil)
		return
	}
	httpx.JSON(w, status, models.Session{Token: tok.Token, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		s.db.Where("token = ?", strings.TrimPrefix(header, "Bearer ")).Delete(&Token{})
	}
	// Logout never fails from the caller's perspective.
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

type profileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Bio     *string `json:"bio"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	var req profileRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Company != nil {
		u.Company = *req.Company
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if err := s.db.Save(u).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not save profile", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

type passwordRequest struct {
	CurrentPassword string `json:"current" validate:"required"`
	NewPassword     string `json:"new" validate:"required,min=6"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	var req passwordRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "current password is incorrect", nil)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not hash password", nil)
		return
	}
	u.PasswordHash = string(hash)
	if err := s.db.Save(u).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not save password", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
