package models

import "time"

// Booking statuses. Transitions are unconstrained direct updates: any status
// may be set over any other (preserved from the original design, see DESIGN.md).
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingAccepted  = "accepted"
	BookingRejected  = "rejected"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Booking kinds.
const (
	BookingTypeRental = "rental"
	BookingTypeVisit  = "visit"
)

type Booking struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	PropertyID  string    `gorm:"index;not null" json:"propertyId"`
	UserID      string    `gorm:"index;not null" json:"userId"`
	Status      string    `gorm:"default:pending" json:"status"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Amount      float64   `json:"amount"`
	PaymentID   *string   `json:"paymentId,omitempty"`
	BookingType string    `json:"bookingType"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
