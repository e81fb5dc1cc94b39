package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/validation"
)

// PropertyInput is the payload for creating a listing.
type PropertyInput struct {
	Title      string   `json:"title"`
	City       string   `json:"city"`
	Location   string   `json:"location"`
	Type       string   `json:"type"`
	Price      float64  `json:"price"`
	Bedrooms   int      `json:"bedrooms"`
	Bathrooms  int      `json:"bathrooms"`
	Area       float64  `json:"area"`
	Images     []string `json:"images"`
	Amenities  []string `json:"amenities"`
	Highlights []string `json:"highlights"`
	OwnerID    string   `json:"ownerId"`
	AgentID    string   `json:"agentId,omitempty"`
}

// CreateProperty adds a listing optimistically. Validation problems are
// returned before anything is touched; remote sync failures are not errors,
// they become advisories.
func (c *Container) CreateProperty(ctx context.Context, in PropertyInput) (models.Property, error) {
	v := validation.Violations{}
	validation.Required("title", in.Title, v)
	validation.Required("city", in.City, v)
	validation.PositiveFloat("price", in.Price, v)
	if !v.Empty() {
		return models.Property{}, errors.New(v.Message())
	}

	now := time.Now().UTC()
	opt := models.Property{
		ID:         uuid.NewString(),
		Title:      in.Title,
		City:       in.City,
		Location:   in.Location,
		Type:       in.Type,
		Price:      in.Price,
		Bedrooms:   in.Bedrooms,
		Bathrooms:  in.Bathrooms,
		Area:       in.Area,
		Status:     models.PropertyAvailable,
		Images:     in.Images,
		Amenities:  in.Amenities,
		Highlights: in.Highlights,
		OwnerID:    in.OwnerID,
		AgentID:    in.AgentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	auth := c.syncProperty(ctx, "POST", "/properties", opt, "listing %q saved locally; sync failed: %s", opt.Title)
	next := reconcile(opt, auth)

	c.mu.Lock()
	c.properties = upsert(c.properties, opt.ID, next, propertyKey)
	c.mu.Unlock()
	c.persist()
	return next, nil
}

// PropertyUpdate carries partial listing edits. Nil pointers leave the field
// untouched.
type PropertyUpdate struct {
	Title  *string  `json:"title,omitempty"`
	Price  *float64 `json:"price,omitempty"`
	Status *string  `json:"status,omitempty"`
	// AgentID assigns or clears the broker on a listing.
	AgentID *string `json:"agentId,omitempty"`
}

// UpdateProperty applies a partial edit optimistically.
func (c *Container) UpdateProperty(ctx context.Context, id string, up PropertyUpdate) (models.Property, error) {
	c.mu.Lock()
	idx := indexOf(c.properties, id, propertyKey)
	if idx < 0 {
		c.mu.Unlock()
		return models.Property{}, errors.New("listing not found")
	}
	opt := c.properties[idx]
	if up.Title != nil {
		opt.Title = *up.Title
	}
	if up.Price != nil {
		opt.Price = *up.Price
	}
	if up.Status != nil {
		opt.Status = *up.Status
	}
	if up.AgentID != nil {
		opt.AgentID = *up.AgentID
	}
	opt.UpdatedAt = time.Now().UTC()
	c.properties[idx] = opt
	c.mu.Unlock()

	// The snapshot already carries the optimistic edit; only a server version
	// may replace it. Writing opt back here would clobber concurrent edits
	// with a stale copy.
	next := opt
	if auth := c.syncProperty(ctx, "PATCH", "/properties/"+id, up, "edit to listing %s kept locally; sync failed: %s", id); auth != nil {
		next = reconcile(opt, auth)
		c.mu.Lock()
		c.properties = upsert(c.properties, id, next, propertyKey)
		c.mu.Unlock()
	}
	c.persist()
	return next, nil
}

// DeleteProperty removes a listing locally and best-effort remotely.
func (c *Container) DeleteProperty(ctx context.Context, id string) error {
	c.mu.Lock()
	if indexOf(c.properties, id, propertyKey) < 0 {
		c.mu.Unlock()
		return errors.New("listing not found")
	}
	c.properties = remove(c.properties, id, propertyKey)
	c.mu.Unlock()

	if c.gw.Enabled() {
		if _, err := c.gw.Delete(ctx, "/properties/"+id); err != nil {
			c.advise("listing %s removed locally; remote delete failed: %s", id, err)
		}
	}
	c.persist()
	return nil
}

// ReviewInput is the payload for adding a review.
type ReviewInput struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// AddReview prepends a review to the listing and recomputes the derived
// rating: the mean of all review ratings rounded to one decimal, 0 when the
// listing has no reviews.
func (c *Container) AddReview(ctx context.Context, propertyID string, in ReviewInput) (models.Property, error) {
	v := validation.Violations{}
	validation.RangeInt("rating", in.Rating, 1, 5, v)
	validation.Required("userId", in.UserID, v)
	if !v.Empty() {
		return models.Property{}, errors.New(v.Message())
	}

	c.mu.Lock()
	idx := indexOf(c.properties, propertyID, propertyKey)
	if idx < 0 {
		c.mu.Unlock()
		return models.Property{}, errors.New("listing not found")
	}
	opt := c.properties[idx]
	review := models.Review{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		UserID:     in.UserID,
		UserName:   in.UserName,
		Rating:     in.Rating,
		Comment:    in.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	opt.Reviews = append([]models.Review{review}, opt.Reviews...)
	opt.Rating = ratingOf(opt.Reviews)
	c.properties[idx] = opt
	c.mu.Unlock()

	next := opt
	if auth := c.syncProperty(ctx, "POST", "/properties/"+propertyID+"/reviews", review, "review on listing %s kept locally; sync failed: %s", propertyID); auth != nil {
		next = reconcile(opt, auth)
		c.mu.Lock()
		c.properties = upsert(c.properties, propertyID, next, propertyKey)
		c.mu.Unlock()
	}
	c.persist()
	return next, nil
}

// ratingOf computes the one-decimal mean of review ratings.
func ratingOf(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}

// syncProperty runs the authoritative remote call for a listing mutation and
// parses the server's listing from the response. A nil return means "keep the
// optimistic record": remote disabled, call failed, or unparseable reply.
func (c *Container) syncProperty(ctx context.Context, method, path string, body any, adviseFormat string, adviseArg string) *models.Property {
	if !c.gw.Enabled() {
		return nil
	}
	var raw json.RawMessage
	var err error
	switch method {
	case "POST":
		raw, err = c.gw.Post(ctx, path, body)
	case "PATCH":
		raw, err = c.gw.Patch(ctx, path, body)
	}
	if err != nil {
		c.advise(adviseFormat, adviseArg, err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var p models.Property
	if err := json.Unmarshal(raw, &p); err != nil || p.ID == "" {
		return nil
	}
	return &p
}

func propertyKey(p models.Property) string { return p.ID }

func indexOf[T any](list []T, id string, idOf func(T) string) int {
	for i := range list {
		if idOf(list[i]) == id {
			return i
		}
	}
	return -1
}
