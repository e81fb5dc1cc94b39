package models

import "time"

// Listing lifecycle states.
const (
	PropertyAvailable = "available"
	PropertySold      = "sold"
	PropertyRented    = "rented"
	PropertyPending   = "pending"
)

// Property is a marketplace listing. Rating is a derived aggregate: the mean
// of Reviews ratings rounded to one decimal, 0 when there are no reviews. It
// is recomputed on every review insert, never stored independently.
type Property struct {
	ID         string   `gorm:"primaryKey" json:"id"`
	Title      string   `gorm:"not null" json:"title"`
	City       string   `gorm:"index" json:"city"`
	Location   string   `json:"location"`
	Type       string   `gorm:"index" json:"type"` // apartment, villa, plot, commercial
	Price      float64  `json:"price"`             // absolute rupees, filters use Crore units
	Bedrooms   int      `json:"bedrooms"`
	Bathrooms  int      `json:"bathrooms"`
	Area       float64  `json:"area"` // sq ft
	Status     string   `gorm:"default:available" json:"status"`
	Images     []string `gorm:"serializer:json" json:"images"`
	Amenities  []string `gorm:"serializer:json" json:"amenities"`
	OwnerID    string   `gorm:"index" json:"ownerId"`
	AgentID    string   `gorm:"index" json:"agentId,omitempty"`
	Rating     float64  `json:"rating"`
	Highlights []string `gorm:"serializer:json" json:"highlights"`
	Reviews    []Review `gorm:"foreignKey:PropertyID" json:"reviews"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Review is created once via the add-review flow and never mutated or deleted.
type Review struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	PropertyID string    `gorm:"index" json:"propertyId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"` // 1..5
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}
