package mockapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Chaturved5/estate-portal/internal/gate"
	"github.com/Chaturved5/estate-portal/internal/httpx"
	"github.com/Chaturved5/estate-portal/internal/models"
)

// handleListVerification returns the caller's own requests; admins get all.
func (s *Server) handleListVerification(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	q := s.db.Order("submitted_at desc")
	if u.Role != models.RoleAdmin {
		q = q.Where("user_id = ?", u.ID)
	}
	var reqs []models.VerificationRequest
	if err := q.Find(&reqs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not load verification requests", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, reqs)
}

type verificationSubmit struct {
	UserID       string `json:"userId"`
	DocumentType string `json:"documentType" validate:"required"`
	DocumentURL  string `json:"documentUrl" validate:"required"`
}

func (s *Server) handleSubmitVerification(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	if err := s.gate.Authorize(r.Context(), u, gate.ActionCreate, gate.ResourceVerification, nil); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "your role may not submit verification requests", nil)
		return
	}
	var req verificationSubmit
	if !s.decodeValid(w, r, &req) {
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = u.ID
	}
	vr := models.VerificationRequest{
		ID:           uuid.NewString(),
		UserID:       userID,
		DocumentType: req.DocumentType,
		DocumentURL:  req.DocumentURL,
		Status:       models.VerificationPending,
		SubmittedAt:  time.Now().UTC(),
	}
	if err := s.db.Create(&vr).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not file verification request", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, vr)
}

// handleVerificationQueue is the admin review queue: everything not yet
// decided.
func (s *Server) handleVerificationQueue(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	if err := s.gate.Authorize(r.Context(), u, gate.ActionReview, gate.ResourceVerification, nil); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "reviewing is admin-only", nil)
		return
	}
	var reqs []models.VerificationRequest
	err := s.db.Where("status IN ?", []string{models.VerificationPending, models.VerificationUnderReview}).
		Order("submitted_at asc").Find(&reqs).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not load review queue", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, reqs)
}

type verificationReview struct {
	Status string `json:"status" validate:"required,oneof=pending under_review approved rejected"`
	Note   string `json:"note"`
}

func (s *Server) handleReviewVerification(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	if err := s.gate.Authorize(r.Context(), u, gate.ActionReview, gate.ResourceVerification, nil); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "reviewing is admin-only", nil)
		return
	}
	var vr models.VerificationRequest
	if err := s.db.Where("id = ?", r.PathValue("id")).First(&vr).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "verification request not found", nil)
		return
	}
	var req verificationReview
	if !s.decodeValid(w, r, &req) {
		return
	}
	now := time.Now().UTC()
	vr.Status = req.Status
	vr.Note = req.Note
	vr.ReviewedBy = u.ID
	vr.ReviewedAt = &now
	if err := s.db.Save(&vr).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not save review", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, vr)
}
