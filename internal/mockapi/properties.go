package mockapi

import (
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Chaturved5/estate-portal/internal/gate"
	"github.com/Chaturved5/estate-portal/internal/httpx"
	"github.com/Chaturved5/estate-portal/internal/models"
)

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	var props []models.Property
	if err := s.db.Preload("Reviews").Order("created_at desc").Find(&props).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not load listings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, props)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	var prop models.Property
	err := s.db.Preload("Reviews").Where("id = ?", r.PathValue("id")).First(&prop).Error
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, "listing not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, prop)
}

type propertyRequest struct {
	Title      string   `json:"title" validate:"required"`
	City       string   `json:"city" validate:"required"`
	Location   string   `json:"location"`
	Type       string   `json:"type" validate:"omitempty,oneof=apartment villa plot commercial"`
	Price      float64  `json:"price" validate:"gt=0"`
	Bedrooms   int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms  int      `json:"bathrooms" validate:"gte=0"`
	Area       float64  `json:"area" validate:"gte=0"`
	Images     []string `json:"images"`
	Amenities  []string `json:"amenities"`
	Highlights []string `json:"highlights"`
	OwnerID    string   `json:"ownerId"`
	AgentID    string   `json:"agentId"`
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	if err := s.gate.Authorize(r.Context(), u, gate.ActionCreate, gate.ResourceListing, nil); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "your role may not create listings", nil)
		return
	}
	var req propertyRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = u.ID
	}
	prop := models.Property{
		ID:         uuid.NewString(),
		Title:      req.Title,
		City:       req.City,
		Location:   req.Location,
		Type:       req.Type,
		Price:      req.Price,
		Bedrooms:   req.Bedrooms,
		Bathrooms:  req.Bathrooms,
		Area:       req.Area,
		Status:     models.PropertyAvailable,
		Images:     req.Images,
		Amenities:  req.Amenities,
		Highlights: req.Highlights,
		OwnerID:    ownerID,
		AgentID:    req.AgentID,
	}
	if err := s.db.Create(&prop).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not create listing", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, prop)
}

type propertyPatch struct {
	Title   *string  `json:"title"`
	Price   *float64 `json:"price"`
	Status  *string  `json:"status"`
	AgentID *string  `json:"agentId"`
}

func (s *Server) handlePatchProperty(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	var prop models.Property
	if err := s.db.Preload("Reviews").Where("id = ?", r.PathValue("id")).First(&prop).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "listing not found", nil)
		return
	}
	if err := s.gate.Authorize(r.Context(), u, gate.ActionUpdate, gate.ResourceListing, &prop); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "not your listing", nil)
		return
	}
	var req propertyPatch
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}
	if req.Title != nil {
		prop.Title = *req.Title
	}
	if req.Price != nil {
		prop.Price = *req.Price
	}
	if req.Status != nil {
		prop.Status = *req.Status
	}
	if req.AgentID != nil {
		prop.AgentID = *req.AgentID
	}
	if err := s.db.Save(&prop).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not save listing", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, prop)
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	var prop models.Property
	if err := s.db.Where("id = ?", r.PathValue("id")).First(&prop).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "listing not found", nil)
		return
	}
	if err := s.gate.Authorize(r.Context(), u, gate.ActionDelete, gate.ResourceListing, &prop); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "not your listing", nil)
		return
	}
	if err := s.db.Delete(&prop).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "could not delete listing", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reviewRequest struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment"`
}

// handleAddReview stores the review and recomputes the listing's derived
// rating inside one transaction, then responds with the updated listing.
func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	u := requireUser(w, r)
	if u == nil {
		return
	}
	var req reviewRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	id := r.PathValue("id")

	var prop models.Property
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Reviews").Where("id = ?", id).First(&prop).Error; err != nil {
			return err
		}
		review := models.Review{
			ID:         uuid.NewString(),
			PropertyID: id,
			UserID:     req.UserID,
			UserName:   req.UserName,
			Rating:     req.Rating,
			Comment:    req.Comment,
			CreatedAt:  time.Now().UTC(),
		}
		if review.UserID == "" {
			review.UserID = u.ID
			review.UserName = u.Name
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		prop.Reviews = append([]models.Review{review}, prop.Reviews...)
		prop.Rating = meanRating(prop.Reviews)
		return tx.Model(&models.Property{}).Where("id = ?", id).Update("rating", prop.Rating).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, "listing not found", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, prop)
}

func meanRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, rv := range reviews {
		sum += rv.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}
