package models

import "time"

// Notification is a feed entry. Role is optional: an empty Role means the
// notification addresses every role. Only Read is ever mutated.
type Notification struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Role      Role      `json:"role,omitempty"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Action    string    `json:"action,omitempty"` // optional deep link
	CreatedAt time.Time `json:"createdAt"`
}
