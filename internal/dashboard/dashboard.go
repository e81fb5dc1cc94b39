// Package dashboard computes the role-keyed summary figures shown on the
// portal home screens. Everything here is a pure aggregation over in-memory
// snapshots; nothing touches storage or network.
package dashboard

import (
	"github.com/Chaturved5/estate-portal/internal/models"
)

// CommissionRate is the broker commission applied to captured payments on
// agent-assigned listings. Placeholder business figure with no documented
// backing rule; kept as-is.
const CommissionRate = 0.025

// Snapshot is the read-only input for every aggregation.
type Snapshot struct {
	Properties []models.Property
	Bookings   []models.Booking
	Payments   []models.Payment
}

// OwnerSummary is the owner-facing dashboard.
type OwnerSummary struct {
	Listings       int     `json:"listings"`
	ActiveBookings int     `json:"activeBookings"`
	Revenue        float64 `json:"revenue"`
	// Occupancy is the bookings-per-listing ratio, 0 with no listings.
	// Placeholder figure, same status as CommissionRate.
	Occupancy float64 `json:"occupancy"`
}

// AgentSummary is the broker-facing dashboard.
type AgentSummary struct {
	Listings   int     `json:"listings"`
	Bookings   int     `json:"bookings"`
	Commission float64 `json:"commission"`
}

// AdminSummary is the platform-wide totals view.
type AdminSummary struct {
	Users           int     `json:"users,omitempty"`
	Listings        int     `json:"listings"`
	Bookings        int     `json:"bookings"`
	Payments        int     `json:"payments"`
	CapturedRevenue float64 `json:"capturedRevenue"`
	PendingRevenue  float64 `json:"pendingRevenue"`
}

// BuyerSummary is the buyer-facing dashboard.
type BuyerSummary struct {
	Bookings       int     `json:"bookings"`
	UpcomingVisits int     `json:"upcomingVisits"`
	TotalSpent     float64 `json:"totalSpent"`
}

// ForOwner aggregates over the owner's listings: captured payments against
// bookings on those listings count as revenue.
func ForOwner(s Snapshot, ownerID string) OwnerSummary {
	var sum OwnerSummary
	mine := map[string]bool{}
	for _, p := range s.Properties {
		if p.OwnerID == ownerID {
			sum.Listings++
			mine[p.ID] = true
		}
	}
	bookingIDs := map[string]bool{}
	bookingCount := 0
	for _, b := range s.Bookings {
		if !mine[b.PropertyID] {
			continue
		}
		bookingCount++
		bookingIDs[b.ID] = true
		if b.Status == models.BookingConfirmed || b.Status == models.BookingAccepted {
			sum.ActiveBookings++
		}
	}
	for _, p := range s.Payments {
		if bookingIDs[p.BookingID] && p.Status == models.PaymentCaptured {
			sum.Revenue += p.Amount
		}
	}
	if sum.Listings > 0 {
		sum.Occupancy = float64(bookingCount) / float64(sum.Listings)
	}
	return sum
}

// ForAgent aggregates over agent-assigned listings. Commission is the fixed
// rate applied to captured payments on those listings' bookings.
func ForAgent(s Snapshot, agentID string) AgentSummary {
	var sum AgentSummary
	mine := map[string]bool{}
	for _, p := range s.Properties {
		if p.AgentID == agentID {
			sum.Listings++
			mine[p.ID] = true
		}
	}
	bookingIDs := map[string]bool{}
	for _, b := range s.Bookings {
		if mine[b.PropertyID] {
			sum.Bookings++
			bookingIDs[b.ID] = true
		}
	}
	for _, p := range s.Payments {
		if bookingIDs[p.BookingID] && p.Status == models.PaymentCaptured {
			sum.Commission += p.Amount * CommissionRate
		}
	}
	return sum
}

// ForAdmin totals the whole snapshot.
func ForAdmin(s Snapshot) AdminSummary {
	sum := AdminSummary{
		Listings: len(s.Properties),
		Bookings: len(s.Bookings),
		Payments: len(s.Payments),
	}
	for _, p := range s.Payments {
		switch p.Status {
		case models.PaymentCaptured:
			sum.CapturedRevenue += p.Amount
		case models.PaymentPending:
			sum.PendingRevenue += p.Amount
		}
	}
	return sum
}

// ForBuyer aggregates the buyer's own bookings and spend.
func ForBuyer(s Snapshot, userID string) BuyerSummary {
	var sum BuyerSummary
	bookingIDs := map[string]bool{}
	for _, b := range s.Bookings {
		if b.UserID != userID {
			continue
		}
		sum.Bookings++
		bookingIDs[b.ID] = true
		if b.BookingType == models.BookingTypeVisit &&
			(b.Status == models.BookingPending || b.Status == models.BookingConfirmed || b.Status == models.BookingAccepted) {
			sum.UpcomingVisits++
		}
	}
	for _, p := range s.Payments {
		if bookingIDs[p.BookingID] && p.Status == models.PaymentCaptured {
			sum.TotalSpent += p.Amount
		}
	}
	return sum
}
