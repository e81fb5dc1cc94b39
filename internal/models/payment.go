package models

import "time"

// Payment tied to bookings
const (
	PaymentCaptured = "captured"
	PaymentPending  = "pending"
	PaymentRefunded = "refunded"
)

type Payment struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	BookingID string    `gorm:"index;not null" json:"bookingId"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Method    string    `json:"method"` // upi, card, netbanking, cash
	Status    string    `gorm:"not null" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time
}

// DepositRate is the default booking deposit fraction of the listing price.
const DepositRate = 0.05
