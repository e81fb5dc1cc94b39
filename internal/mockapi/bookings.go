package mockapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Chaturved5/estate-portal/internal/gate"
	"github.com/Chaturved5/estate-portal/internal/httpx"
	"github.com/Chaturved5/estate-portal/internal/models"
)

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	q := s.db.Order("created_at desc")
	// Buyers only see their own bookings; listing-side roles and admins see all.
	if u.Role == models.RoleBuyer {
		q = q.Where("user_id = ?", u.ID)
	}
	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not load bookings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, bookings)
}

type bookingRequest struct {
	PropertyID  string    `json:"propertyId" validate:"required"`
	UserID      string    `json:"userId"`
	BookingType string    `json:"bookingType" validate:"required,oneof=rental visit"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Amount      float64   `json:"amount" validate:"gte=0"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	if err := s.gate.Authorize(r.Context(), u, gate.ActionCreate, gate.ResourceBooking, nil); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "your role may not create bookings", nil)
		return
	}
	var req bookingRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	var count int64
	s.db.Model(&models.Property{}).Where("id = ?", req.PropertyID).Count(&count)
	if count == 0 {
		httpx.JSONError(w, http.StatusNotFound, "listing not found", nil)
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = u.ID
	}
	booking := models.Booking{
		ID:          uuid.NewString(),
		PropertyID:  req.PropertyID,
		UserID:      userID,
		Status:      models.BookingPending,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Amount:      req.Amount,
		BookingType: req.BookingType,
	}
	if err := s.db.Create(&booking).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not create booking", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, booking)
}

type bookingPatch struct {
	Status    *string `json:"status"`
	PaymentID *string `json:"paymentId"`
}

func (s *Server) handlePatchBooking(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	var booking models.Booking
	if err := s.db.Where("id = ?", r.PathValue("id")).First(&booking).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "booking not found", nil)
		return
	}
	if err := s.gate.Authorize(r.Context(), u, gate.ActionUpdate, gate.ResourceBooking, &booking); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "not your booking", nil)
		return
	}
	var req bookingPatch
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}
	// Status transitions are deliberately unconstrained.
	if req.Status != nil {
		booking.Status = *req.Status
	}
	if req.PaymentID != nil {
		booking.PaymentID = req.PaymentID
	}
	if err := s.db.Save(&booking).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not save booking", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, booking)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	var payments []models.Payment
	if err := s.db.Order("created_at desc").Find(&payments).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not load payments", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, payments)
}

type paymentRequest struct {
	ID        string  `json:"id"`
	BookingID string  `json:"bookingId" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Method    string  `json:"method" validate:"omitempty,oneof=upi card netbanking cash"`
	Status    string  `json:"status" validate:"omitempty,oneof=captured pending refunded"`
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	var req paymentRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	var count int64
	s.db.Model(&models.Booking{}).Where("id = ?", req.BookingID).Count(&count)
	if count == 0 {
		httpx.JSONError(w, http.StatusNotFound, "booking not found", nil)
		return
	}
	pay := models.Payment{
		ID:        req.ID,
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    req.Status,
	}
	if pay.ID == "" {
		pay.ID = uuid.NewString()
	}
	if pay.Method == "" {
		pay.Method = "upi"
	}
	if pay.Status == "" {
		pay.Status = models.PaymentCaptured
	}
	if err := s.db.Create(&pay).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not record payment", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, pay)
}

type paymentPatch struct {
	Status *string  `json:"status"`
	Method *string  `json:"method"`
	Amount *float64 `json:"amount"`
}

func (s *Server) handlePatchPayment(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	var pay models.Payment
	if err := s.db.Where("id = ?", r.PathValue("id")).First(&pay).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "payment not found", nil)
		return
	}
	if err := s.gate.Authorize(r.Context(), u, gate.ActionUpdate, gate.ResourcePayment, &pay); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "your role may not edit payments", nil)
		return
	}
	var req paymentPatch
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}
	if req.Status != nil {
		pay.Status = *req.Status
	}
	if req.Method != nil {
		pay.Method = *req.Method
	}
	if req.Amount != nil {
		pay.Amount = *req.Amount
	}
	if err := s.db.Save(&pay).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not save payment", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, pay)
}
