package marketplace

import (
	"strings"

	"github.com/Chaturved5/estate-portal/internal/models"
)

// CroreUnit converts the Crore figures used by every price filter and
// display into absolute rupees. Load-bearing: listing prices are stored in
// rupees while all query bounds arrive in Crore.
const CroreUnit = 10_000_000

// SearchQuery filters the listing snapshot. Zero values impose no
// constraint; price bounds are pointers so "0 Crore" stays expressible.
type SearchQuery struct {
	// City matches as a case-insensitive substring.
	City string
	// Type matches exactly (apartment, villa, plot, commercial).
	Type string
	// MinBedrooms is a lower bound.
	MinBedrooms int
	// MinPriceCr / MaxPriceCr are bounds in Crore units.
	MinPriceCr *float64
	MaxPriceCr *float64
}

// SearchProperties is a pure, synchronous filter over the in-memory
// snapshot. It never touches storage or network.
func (c *Container) SearchProperties(q SearchQuery) []models.Property {
	c.mu.RLock()
	defer c.mu.RUnlock()

	city := strings.ToLower(strings.TrimSpace(q.City))
	out := []models.Property{}
	for _, p := range c.properties {
		if city != "" && !strings.Contains(strings.ToLower(p.City), city) {
			continue
		}
		if q.Type != "" && p.Type != q.Type {
			continue
		}
		if q.MinBedrooms > 0 && p.Bedrooms < q.MinBedrooms {
			continue
		}
		if q.MinPriceCr != nil && p.Price < *q.MinPriceCr*CroreUnit {
			continue
		}
		if q.MaxPriceCr != nil && p.Price > *q.MaxPriceCr*CroreUnit {
			continue
		}
		out = append(out, p)
	}
	return out
}

// GetPropertyByID returns the listing, or false when it is not in the
// snapshot.
func (c *Container) GetPropertyByID(id string) (models.Property, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.properties {
		if p.ID == id {
			return p, true
		}
	}
	return models.Property{}, false
}
