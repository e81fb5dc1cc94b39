package marketplace

import (
	"time"

	"github.com/google/uuid"

	"github.com/Chaturved5/estate-portal/internal/models"
)

// seedCatalog is the offline starter catalog, written to the local store on
// first run so the portal is browsable without a backend.
func seedCatalog() []models.Property {
	now := time.Now().UTC()
	mk := func(title, city, location, typ string, price float64, bedrooms, bathrooms int, area float64, amenities, highlights []string) models.Property {
		return models.Property{
			ID:         uuid.NewString(),
			Title:      title,
			City:       city,
			Location:   location,
			Type:       typ,
			Price:      price,
			Bedrooms:   bedrooms,
			Bathrooms:  bathrooms,
			Area:       area,
			Status:     models.PropertyAvailable,
			Images:     []string{},
			Amenities:  amenities,
			Highlights: highlights,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	return []models.Property{
		mk("Sea-Facing 3BHK at Marine Drive", "Mumbai", "Marine Drive", "apartment",
			4.5*CroreUnit, 3, 3, 1650,
			[]string{"lift", "parking", "gym", "power backup"},
			[]string{"Uninterrupted sea view", "5 min from Churchgate station"}),
		mk("Whitefield Garden Villa", "Bangalore", "Whitefield", "villa",
			3.2*CroreUnit, 4, 4, 3200,
			[]string{"private garden", "clubhouse", "parking"},
			[]string{"Gated community", "Near ITPL tech park"}),
		mk("Compact 2BHK in Andheri West", "Mumbai", "Andheri West", "apartment",
			1.8*CroreUnit, 2, 2, 850,
			[]string{"lift", "security"},
			[]string{"Metro at walking distance"}),
		mk("Golf Course Road Penthouse", "Gurgaon", "Golf Course Road", "apartment",
			6.8*CroreUnit, 4, 5, 4100,
			[]string{"terrace", "concierge", "gym", "pool"},
			[]string{"Top two floors", "Private elevator lobby"}),
		mk("Commercial Plot on OMR", "Chennai", "Old Mahabalipuram Road", "plot",
			2.4*CroreUnit, 0, 0, 5400,
			[]string{"corner plot"},
			[]string{"IT corridor frontage"}),
		mk("Koregaon Park Studio", "Pune", "Koregaon Park", "apartment",
			0.95*CroreUnit, 1, 1, 620,
			[]string{"lift", "parking"},
			[]string{"Furnished, ready to move"}),
	}
}
